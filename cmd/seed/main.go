package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"ticketbooker/internal/events"
	"ticketbooker/internal/shared/clock"
	"ticketbooker/internal/shared/config"
	"ticketbooker/internal/shared/database"
	"ticketbooker/internal/shared/middleware"
	"ticketbooker/internal/store"
	"ticketbooker/internal/users"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Seeder struct {
	db     *database.DB
	store  *store.Store
	events events.Service
	admin  users.Principal
}

type demoEvent struct {
	title       string
	description string
	ticketType  string
	venue       string
	startsIn    time.Duration
	duration    time.Duration
	basePrice   string
	rows        int
	seatsPerRow int
}

var demoEvents = []demoEvent{
	{"Interstellar: Anniversary Screening", "70mm IMAX re-release", "MOVIE", "PVR Phoenix Mall, Screen 1", 48 * time.Hour, 3 * time.Hour, "450.00", 10, 20},
	{"Mumbai to Pune Express", "Volvo AC sleeper", "BUS", "Dadar Bus Depot", 24 * time.Hour, 4 * time.Hour, "799.00", 10, 4},
	{"Rajdhani Express 12951", "AC 2 tier", "TRAIN", "Mumbai Central", 72 * time.Hour, 16 * time.Hour, "2850.00", 12, 6},
	{"Indie Rock Night", "Three bands, one stage", "EVENT", "NSCI Dome", 7 * 24 * time.Hour, 5 * time.Hour, "1500.00", 20, 25},
	{"Stand-up Comedy Special", "Limited seating", "EVENT", "Canvas Laugh Club", 3 * 24 * time.Hour, 2 * time.Hour, "699.00", 5, 12},
}

func main() {
	fmt.Println("Starting ticketbooker seeder...")

	cfg := config.Load()
	cfg.Redis.Enabled = false
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	if db.PostgreSQL == nil {
		log.Fatal("Seeding requires PostgreSQL (DB_ENABLED=true)")
	}

	st := store.New(database.NewPersister(db.PostgreSQL))
	seeder := &Seeder{
		db:     db,
		store:  st,
		events: events.NewService(st, clock.Real(), cfg.Redis.StatsTTL),
		admin:  users.Principal{UserID: uuid.New(), Role: users.RoleAdmin},
	}

	ctx := context.Background()

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("Seeding events...")
	if err := seeder.SeedEvents(ctx); err != nil {
		log.Fatalf("Failed to seed events: %v", err)
	}
	if err := st.Close(ctx); err != nil {
		log.Fatalf("Failed to flush seeded data: %v", err)
	}

	seeder.PrintTokens(cfg)
	fmt.Println("Seeding completed.")
}

// CleanDatabase truncates all tables, children first
func (s *Seeder) CleanDatabase() error {
	for _, table := range []string{"payments", "bookings", "seats", "events"} {
		if err := s.db.PostgreSQL.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) SeedEvents(ctx context.Context) error {
	now := time.Now().UTC().Truncate(time.Hour)
	for _, d := range demoEvents {
		starts := now.Add(d.startsIn)
		req := events.CreateEventRequest{
			Title:       d.title,
			Description: d.description,
			TicketType:  d.ticketType,
			Venue:       d.venue,
			StartsAt:    starts,
			EndsAt:      starts.Add(d.duration),
			BasePrice:   decimal.RequireFromString(d.basePrice),
			TotalSeats:  d.rows * d.seatsPerRow,
			SeatLayout:  &events.SeatLayout{Rows: d.rows, SeatsPerRow: d.seatsPerRow},
		}
		event, err := s.events.CreateEvent(ctx, s.admin, req)
		if err != nil {
			return fmt.Errorf("create %q: %w", d.title, err)
		}
		fmt.Printf("  %-40s %s  %d seats\n", event.Title, event.ID, event.TotalSeats)
	}
	return nil
}

// PrintTokens issues demo bearer tokens for the seeded admin and a regular user
func (s *Seeder) PrintTokens(cfg *config.Config) {
	user := users.Principal{UserID: uuid.New(), Role: users.RoleUser}
	for _, p := range []users.Principal{s.admin, user} {
		token, err := middleware.IssueAccessToken(cfg.JWT.Secret, p, 24*time.Hour)
		if err != nil {
			log.Printf("Failed to issue token for %s: %v", p.Role, err)
			continue
		}
		fmt.Printf("\n%s %s\n  %s\n", p.Role, p.UserID, token)
	}
}
