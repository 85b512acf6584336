package database

import (
	"context"
	"fmt"
	"sort"

	"ticketbooker/internal/models"
	"ticketbooker/internal/store"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const saveBatchSize = 500

// Persister loads and saves the entity store's state in PostgreSQL
type Persister struct {
	db *gorm.DB
}

var _ store.Persister = (*Persister)(nil)

func NewPersister(db *gorm.DB) *Persister {
	return &Persister{db: db}
}

func (p *Persister) Load(ctx context.Context) (*store.Snapshot, error) {
	snap := &store.Snapshot{}
	db := p.db.WithContext(ctx)

	if err := db.Find(&snap.Events).Error; err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	if err := db.Order("created_at ASC, id ASC").Find(&snap.Seats).Error; err != nil {
		return nil, fmt.Errorf("failed to load seats: %w", err)
	}
	if err := db.Find(&snap.Bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	if err := db.Find(&snap.Payments).Error; err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	return snap, nil
}

// Save upserts every entity in changes inside one transaction
func (p *Persister) Save(ctx context.Context, changes *store.Snapshot) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveChanges(tx, changes)
	})
}

func saveChanges(tx *gorm.DB, changes *store.Snapshot) error {
	if len(changes.Events) > 0 {
		if err := upsert(tx, &changes.Events); err != nil {
			return fmt.Errorf("failed to save events: %w", err)
		}
	}
	if len(changes.Seats) > 0 {
		if err := upsert(tx, &changes.Seats); err != nil {
			return fmt.Errorf("failed to save seats: %w", err)
		}
	}
	if len(changes.Bookings) > 0 {
		if err := upsert(tx, &changes.Bookings); err != nil {
			return fmt.Errorf("failed to save bookings: %w", err)
		}
	}
	if len(changes.Payments) > 0 {
		payments := orderPayments(changes.Payments)
		if err := upsert(tx, &payments); err != nil {
			return fmt.Errorf("failed to save payments: %w", err)
		}
	}
	return nil
}

func upsert(tx *gorm.DB, values interface{}) error {
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(values, saveBatchSize).Error
}

// orderPayments puts FAILED payments first so a retry's new PENDING row
// never meets the live-payment index before its predecessor is marked failed
func orderPayments(in []models.Payment) []models.Payment {
	out := append([]models.Payment(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		fi, fj := out[i].Status == models.PaymentFailed, out[j].Status == models.PaymentFailed
		if fi != fj {
			return fi
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
