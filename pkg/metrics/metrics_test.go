package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatOperationCounts(t *testing.T) {
	before := testutil.ToFloat64(seatOperations.WithLabelValues("lock", "failure"))
	movedBefore := testutil.ToFloat64(seatsTransitioned.WithLabelValues("lock"))

	SeatOperation("lock", 3, errors.New("unavailable"))
	SeatOperation("lock", 2, nil)

	assert.Equal(t, before+1, testutil.ToFloat64(seatOperations.WithLabelValues("lock", "failure")))
	assert.Equal(t, movedBefore+2, testutil.ToFloat64(seatsTransitioned.WithLabelValues("lock")))
}

func TestAvailableCounterClamped(t *testing.T) {
	before := testutil.ToFloat64(availableCounterDrift.WithLabelValues("floor"))
	AvailableCounterClamped("floor")
	assert.Equal(t, before+1, testutil.ToFloat64(availableCounterDrift.WithLabelValues("floor")))
}

func TestReconcilerPassResult(t *testing.T) {
	before := testutil.ToFloat64(reconcilerRuns.WithLabelValues("partial"))
	ReconcilerPass(time.Millisecond, 1)
	assert.Equal(t, before+1, testutil.ToFloat64(reconcilerRuns.WithLabelValues("partial")))
}

func TestHandlerServesRegistry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/metrics", Handler())

	BookingTransition("CONFIRMED")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ticketbooker_booking_transitions_total")
}
