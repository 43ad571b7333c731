package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusRequested   AppointmentStatus = "Requested"
	AppointmentStatusUpcoming    AppointmentStatus = "Upcoming"
	AppointmentStatusRescheduled AppointmentStatus = "Rescheduled"
	AppointmentStatusCompleted   AppointmentStatus = "Completed"
	AppointmentStatusCancelled   AppointmentStatus = "Cancelled"
	AppointmentStatusNoArrival   AppointmentStatus = "No Arrival"
)

// validTransitions is the full status graph. Requested is the only initial
// state; Completed, Cancelled and No Arrival are terminal.
var validTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusRequested:   {AppointmentStatusUpcoming, AppointmentStatusCancelled},
	AppointmentStatusUpcoming:    {AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoArrival, AppointmentStatusRescheduled},
	AppointmentStatusRescheduled: {AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoArrival},
	AppointmentStatusCompleted:   {},
	AppointmentStatusCancelled:   {},
	AppointmentStatusNoArrival:   {},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to AppointmentStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// HoldsSlot reports whether an appointment in this status occupies its
// (service category, datetime) slot. Terminal statuses release the slot.
func (s AppointmentStatus) HoldsSlot() bool {
	switch s {
	case AppointmentStatusRequested, AppointmentStatusUpcoming, AppointmentStatusRescheduled:
		return true
	}
	return false
}

func (s AppointmentStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

type Review struct {
	Rating int        `json:"rating" db:"review_rating"`
	Title  string     `json:"title" db:"review_title"`
	Text   string     `json:"text" db:"review_text"`
	Date   *time.Time `json:"date" db:"review_date"`
}

type Appointment struct {
	Base
	FirstName           string            `db:"first_name" json:"first_name"`
	LastName            string            `db:"last_name" json:"last_name"`
	ContactNumber       string            `db:"contact_number" json:"contact_number"`
	Email               string            `db:"email" json:"email"`
	ServiceCategoryID   uuid.UUID         `db:"service_category_id" json:"service_category_id"`
	ServiceTypeID       uuid.UUID         `db:"service_type_id" json:"service_type_id"`
	UserID              uuid.UUID         `db:"user_id" json:"user_id"`
	AdditionalNotes     string            `db:"additional_notes" json:"additional_notes,omitempty"`
	AppointmentDateTime time.Time         `db:"appointment_datetime" json:"appointment_datetime"`
	Status              AppointmentStatus `db:"status" json:"status"`
	BookedAt            time.Time         `db:"booked_at" json:"booked_at"`
	Review              *Review           `db:"-" json:"review,omitempty"`
}

type CreateAppointmentRequest struct {
	FirstName           string    `json:"first_name" binding:"required"`
	LastName            string    `json:"last_name" binding:"required"`
	ContactNumber       string    `json:"contact_number" binding:"required"`
	Email               string    `json:"email" binding:"required,email"`
	ServiceCategoryID   uuid.UUID `json:"service_category_id" binding:"required"`
	ServiceTypeID       uuid.UUID `json:"service_type_id" binding:"required"`
	UserID              uuid.UUID `json:"user_id" binding:"required"`
	AdditionalNotes     string    `json:"additional_notes"`
	AppointmentDateTime time.Time `json:"appointment_datetime" binding:"required,future"`
}

// UpdateAppointmentRequest is a partial patch; nil means "leave unchanged".
type UpdateAppointmentRequest struct {
	FirstName           *string            `json:"first_name"`
	LastName            *string            `json:"last_name"`
	ContactNumber       *string            `json:"contact_number"`
	Email               *string            `json:"email" binding:"omitempty,email"`
	AdditionalNotes     *string            `json:"additional_notes"`
	AppointmentDateTime *time.Time         `json:"appointment_datetime"`
	Status              *AppointmentStatus `json:"status"`
}

type AddReviewRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Title  string `json:"title" binding:"required"`
	Text   string `json:"text"`
}

type AppointmentFilters struct {
	UserID            uuid.UUID
	ServiceCategoryID uuid.UUID
	ServiceTypeID     uuid.UUID
	Status            AppointmentStatus
}
