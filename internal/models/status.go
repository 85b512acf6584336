package models

type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatLocked    SeatStatus = "LOCKED"
	SeatBooked    SeatStatus = "BOOKED"
)

func (s SeatStatus) IsValid() bool {
	switch s {
	case SeatAvailable, SeatLocked, SeatBooked:
		return true
	}
	return false
}

func (s SeatStatus) String() string {
	return string(s)
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingExpired   BookingStatus = "EXPIRED"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingExpired:
		return true
	}
	return false
}

func (s BookingStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCancelled || s == BookingExpired
}

// CanBeCancelled checks if a booking with this status can be cancelled
func (s BookingStatus) CanBeCancelled() bool {
	return s == BookingPending || s == BookingConfirmed
}

// IsActive reports whether the booking still claims seats
func (s BookingStatus) IsActive() bool {
	return s == BookingPending || s == BookingConfirmed
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentSuccess, PaymentFailed:
		return true
	}
	return false
}

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) IsSettled() bool {
	return s == PaymentSuccess || s == PaymentFailed
}

type PaymentMethod string

const (
	MethodCard   PaymentMethod = "card"
	MethodWallet PaymentMethod = "wallet"
	MethodUPI    PaymentMethod = "upi"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCard, MethodWallet, MethodUPI:
		return true
	}
	return false
}

type TicketType string

const (
	TicketMovie TicketType = "MOVIE"
	TicketBus   TicketType = "BUS"
	TicketTrain TicketType = "TRAIN"
	TicketEvent TicketType = "EVENT"
)

func (t TicketType) IsValid() bool {
	switch t {
	case TicketMovie, TicketBus, TicketTrain, TicketEvent:
		return true
	}
	return false
}
