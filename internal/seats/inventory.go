package seats

import (
	"strings"
	"time"

	"ticketbooker/internal/models"
	"ticketbooker/internal/shared/apperrors"
	"ticketbooker/internal/shared/clock"
	"ticketbooker/internal/store"
	"ticketbooker/pkg/logger"
	"ticketbooker/pkg/metrics"

	"github.com/google/uuid"
)

// Inventory holds the seat state transitions. Every method runs inside a
// store transaction owned by the caller and checks the whole seat set
// before touching any seat.
type Inventory struct {
	clock clock.Clock
	log   *logger.Logger
}

func NewInventory(clk clock.Clock) *Inventory {
	return &Inventory{clock: clk, log: logger.GetDefault().WithComponent("inventory")}
}

// Now exposes the inventory's clock to sibling managers
func (inv *Inventory) Now() time.Time {
	return inv.clock.Now()
}

// Lock moves every seat to LOCKED for holderID, or none of them
func (inv *Inventory) Lock(tx *store.Tx, eventID uuid.UUID, seatIDs []uuid.UUID, holderID uuid.UUID, hold time.Duration) (time.Time, []*models.Seat, error) {
	if hold <= 0 {
		return time.Time{}, nil, apperrors.Validation("hold duration must be positive")
	}

	resolved, err := resolveEventSeats(tx, eventID, seatIDs)
	if err != nil {
		return time.Time{}, nil, err
	}

	var unavailable []string
	for _, seat := range resolved {
		if !seat.IsAvailable() {
			unavailable = append(unavailable, seat.SeatNumber)
		}
	}
	if len(unavailable) > 0 {
		return time.Time{}, nil, apperrors.New(apperrors.KindSeatUnavailable,
			"seats not available: %s", strings.Join(unavailable, ", "))
	}

	now := inv.clock.Now()
	until := now.Add(hold)
	for _, seat := range resolved {
		seat.Lock(holderID, until, now)
		tx.PutSeat(seat)
	}
	return until, resolved, nil
}

// Unlock releases the seats LOCKED by holderID and skips everything else
func (inv *Inventory) Unlock(tx *store.Tx, seatIDs []uuid.UUID, holderID uuid.UUID) int {
	now := inv.clock.Now()
	seen := make(map[uuid.UUID]struct{}, len(seatIDs))
	released := 0
	for _, id := range seatIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		seat, ok := tx.Seat(id)
		if !ok || !seat.IsLockedBy(holderID) {
			continue
		}
		seat.Release(now)
		tx.PutSeat(seat)
		released++
	}
	return released
}

// Book promotes seats LOCKED by holderID to BOOKED under bookingID and
// decrements the event's available counter
func (inv *Inventory) Book(tx *store.Tx, eventID uuid.UUID, seatIDs []uuid.UUID, holderID, bookingID uuid.UUID) (int, error) {
	resolved, err := resolveEventSeats(tx, eventID, seatIDs)
	if err != nil {
		return 0, err
	}

	var notHeld []string
	for _, seat := range resolved {
		if !seat.IsLockedBy(holderID) {
			notHeld = append(notHeld, seat.SeatNumber)
		}
	}
	if len(notHeld) > 0 {
		return 0, apperrors.New(apperrors.KindSeatNotLockedByCaller,
			"seats not locked by caller: %s", strings.Join(notHeld, ", "))
	}

	now := inv.clock.Now()
	for _, seat := range resolved {
		seat.Book(holderID, bookingID, now)
		tx.PutSeat(seat)
	}
	inv.adjustAvailable(tx, eventID, -len(resolved), now)
	return len(resolved), nil
}

// ReleaseBooked returns seats BOOKED under bookingID to AVAILABLE and
// restores the event's available counter by the number released
func (inv *Inventory) ReleaseBooked(tx *store.Tx, bookingID uuid.UUID, seatIDs []uuid.UUID) int {
	now := inv.clock.Now()
	perEvent := make(map[uuid.UUID]int)
	for _, id := range seatIDs {
		seat, ok := tx.Seat(id)
		if !ok || seat.Status != models.SeatBooked || seat.BookingID == nil || *seat.BookingID != bookingID {
			continue
		}
		seat.Release(now)
		tx.PutSeat(seat)
		perEvent[seat.EventID]++
	}

	total := 0
	for eventID, n := range perEvent {
		inv.adjustAvailable(tx, eventID, n, now)
		total += n
	}
	return total
}

// ExpireLock releases seat if its lock has lapsed
func (inv *Inventory) ExpireLock(tx *store.Tx, seat *models.Seat) bool {
	now := inv.clock.Now()
	if !seat.LockLapsed(now) {
		return false
	}
	seat.Release(now)
	tx.PutSeat(seat)
	return true
}

// ExpireLapsed releases every lapsed lock except those a protector claims
// for the same holder
func (inv *Inventory) ExpireLapsed(tx *store.Tx, protected map[uuid.UUID]uuid.UUID) []*models.Seat {
	now := inv.clock.Now()
	candidates := tx.Seats(func(s *models.Seat) bool { return s.LockLapsed(now) })

	released := make([]*models.Seat, 0, len(candidates))
	for _, seat := range candidates {
		if holder, ok := protected[seat.ID]; ok && seat.LockedBy != nil && *seat.LockedBy == holder {
			continue
		}
		if inv.ExpireLock(tx, seat) {
			released = append(released, seat)
		}
	}
	return released
}

// resolveEventSeats fetches seatIDs and checks they are distinct and all
// belong to eventID
func resolveEventSeats(tx *store.Tx, eventID uuid.UUID, seatIDs []uuid.UUID) ([]*models.Seat, error) {
	if len(seatIDs) == 0 {
		return nil, apperrors.Validation("at least one seat is required")
	}

	seen := make(map[uuid.UUID]struct{}, len(seatIDs))
	resolved := make([]*models.Seat, 0, len(seatIDs))
	for _, id := range seatIDs {
		if _, dup := seen[id]; dup {
			return nil, apperrors.Validation("seat %s requested more than once", id)
		}
		seen[id] = struct{}{}

		seat, ok := tx.Seat(id)
		if !ok || seat.EventID != eventID {
			return nil, apperrors.New(apperrors.KindSeatNotFound, "seat %s not found for event %s", id, eventID)
		}
		resolved = append(resolved, seat)
	}
	return resolved, nil
}

// adjustAvailable moves the event's available counter by delta. A result
// outside [0, TotalSeats] means the counter drifted from the seat rows; it
// is clamped and reported.
func (inv *Inventory) adjustAvailable(tx *store.Tx, eventID uuid.UUID, delta int, now time.Time) {
	event, ok := tx.Event(eventID)
	if !ok {
		return
	}
	next := event.AvailableSeats + delta
	bound := ""
	switch {
	case next < 0:
		bound, next = "floor", 0
	case next > event.TotalSeats:
		bound, next = "ceiling", event.TotalSeats
	}
	if bound != "" {
		metrics.AvailableCounterClamped(bound)
		inv.log.Warn("Available seat counter out of range, clamped",
			"event_id", eventID.String(),
			"available", event.AvailableSeats,
			"delta", delta,
			"total", event.TotalSeats,
			"bound", bound,
		)
	}
	event.AvailableSeats = next
	event.UpdatedAt = now
	tx.PutEvent(event)
}
