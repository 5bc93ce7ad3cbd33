package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusScheduled BookingStatus = "scheduled" // Подтверждено
	BookingStatusPending   BookingStatus = "pending"   // Ожидает одобрения хоста
	BookingStatusCompleted BookingStatus = "completed" // Завершено
	BookingStatusCancelled BookingStatus = "cancelled" // Отменено
	BookingStatusRejected  BookingStatus = "rejected"  // Отклонено хостом
)

type Booking struct {
	ID            uuid.UUID     `json:"id"`
	EventID       int64         `json:"event_id"`
	HostID        int64         `json:"host_id"`
	AttendeeName  string        `json:"attendee_name"`
	AttendeeEmail string        `json:"attendee_email"`
	Start         time.Time     `json:"start"`
	End           time.Time     `json:"end"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// IsActive reports whether the booking blocks time and counts toward limits.
func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusScheduled || b.Status == BookingStatusCompleted
}

// Minutes returns the booked length in minutes.
func (b *Booking) Minutes() int {
	return int(b.End.Sub(b.Start) / time.Minute)
}

// Slot is a bookable candidate produced by the availability engine.
type Slot struct {
	Start    time.Time `json:"start_datetime"`
	End      time.Time `json:"end_datetime"`
	Duration int       `json:"duration"`
}
