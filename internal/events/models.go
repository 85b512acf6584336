package events

// EventStats is the live occupancy breakdown of one event
type EventStats struct {
	EventID        string `json:"event_id"`
	TotalSeats     int    `json:"total_seats"`
	AvailableSeats int    `json:"available_seats"`
	BookedSeats    int    `json:"booked_seats"`
	LockedSeats    int    `json:"locked_seats"`
}

// ListFilter narrows ListEvents. Empty fields match everything.
type ListFilter struct {
	TicketType string
	Venue      string
	Search     string
}
