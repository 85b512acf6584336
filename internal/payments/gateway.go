package payments

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"ticketbooker/internal/models"

	"github.com/google/uuid"
)

const defaultDeclineReason = "payment declined by provider"

// Outcome is the result reported for a pending payment
type Outcome struct {
	Success       bool
	TransactionID string
	FailureReason string
}

// Gateway decides the outcome of a payment. It is called outside the
// store lock and must not touch the store.
type Gateway interface {
	Charge(ctx context.Context, payment models.Payment) (Outcome, error)
}

// SimulatedGateway approves a configurable share of payments
type SimulatedGateway struct {
	successRate float64
	mu          sync.Mutex
	rnd         func() float64
	now         func() time.Time
}

type GatewayOption func(*SimulatedGateway)

// WithRandom replaces the random source, used by tests to force outcomes
func WithRandom(fn func() float64) GatewayOption {
	return func(g *SimulatedGateway) {
		g.rnd = fn
	}
}

func NewSimulatedGateway(successRate float64, opts ...GatewayOption) *SimulatedGateway {
	src := rand.New(rand.NewSource(time.Now().UnixNano()))
	g := &SimulatedGateway{
		successRate: successRate,
		rnd:         src.Float64,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *SimulatedGateway) Charge(ctx context.Context, payment models.Payment) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	g.mu.Lock()
	roll := g.rnd()
	g.mu.Unlock()

	if roll < g.successRate {
		return Outcome{Success: true, TransactionID: generateTransactionID(g.now())}, nil
	}
	return Outcome{FailureReason: defaultDeclineReason}, nil
}

// generateTransactionID returns TXN_<unix>_<8 uppercase hex>
func generateTransactionID(now time.Time) string {
	short := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("TXN_%d_%s", now.Unix(), strings.ToUpper(short))
}
