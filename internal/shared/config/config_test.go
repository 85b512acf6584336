package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 30*time.Minute, cfg.Booking.ReservationWindow)
	assert.Equal(t, 10*time.Minute, cfg.Booking.SeatHoldDuration)
	assert.Equal(t, 60*time.Second, cfg.Reconciler.Interval)
	assert.True(t, cfg.Reconciler.Enabled)
	assert.InDelta(t, 0.95, cfg.Payment.GatewaySuccessRate, 1e-9)
	assert.Equal(t, "none", cfg.Notifications.Broker)
	assert.Equal(t, "/api/v1", cfg.GetAPIBasePath())
	assert.Equal(t, ":8080", cfg.GetServerAddress())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Contains(t, cfg.Database.DSN, "dbname=ticketbooker")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOOKING_RESERVATION_WINDOW", "45m")
	t.Setenv("SEAT_HOLD_DURATION", "120")
	t.Setenv("RECONCILER_INTERVAL", "not-a-duration")
	t.Setenv("NOTIFICATIONS_BROKER", "Kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("PAYMENT_GATEWAY_SUCCESS_RATE", "0.5")
	t.Setenv("GIN_MODE", "release")

	cfg := Load()

	assert.Equal(t, 45*time.Minute, cfg.Booking.ReservationWindow)
	assert.Equal(t, 2*time.Minute, cfg.Booking.SeatHoldDuration)
	assert.Equal(t, 60*time.Second, cfg.Reconciler.Interval)
	assert.Equal(t, "kafka", cfg.Notifications.Broker)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Notifications.KafkaBrokers)
	assert.InDelta(t, 0.5, cfg.Payment.GatewaySuccessRate, 1e-9)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Load().Validate())

	t.Setenv("BOOKING_RESERVATION_WINDOW", "0s")
	t.Setenv("SEAT_HOLD_DURATION", "-1m")
	t.Setenv("PAYMENT_GATEWAY_SUCCESS_RATE", "1.5")

	err := Load().Validate()
	assert.ErrorContains(t, err, "BOOKING_RESERVATION_WINDOW")
	assert.ErrorContains(t, err, "SEAT_HOLD_DURATION")
	assert.ErrorContains(t, err, "PAYMENT_GATEWAY_SUCCESS_RATE")
}
