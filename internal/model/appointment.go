package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending    AppointmentStatus = "pending"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
)

// LiveStatuses are the statuses that count against the owner's daily cap.
var LiveStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusConfirmed,
	AppointmentStatusInProgress,
}

// Live reports whether the status counts against the daily cap.
func (s AppointmentStatus) Live() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusInProgress:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// BookingChannel tags which front-end surface created the appointment.
type BookingChannel string

const (
	BookingChannelWeb    BookingChannel = "web"
	BookingChannelMobile BookingChannel = "mobile"
)

// DefaultDurationMinutes is the fixed estimated duration of a consultation.
const DefaultDurationMinutes = 30

type Appointment struct {
	Base
	OwnerID         uuid.UUID         `db:"pet_owner_id" json:"pet_owner_id"`
	PetID           uuid.UUID         `db:"pet_id" json:"pet_id"`
	VeterinarianID  uuid.UUID         `db:"veterinarian_id" json:"veterinarian_id"`
	ClinicID        uuid.UUID         `db:"clinic_id" json:"clinic_id"`
	Date            time.Time         `db:"appointment_date" json:"appointment_date"`
	Time            string            `db:"appointment_time" json:"appointment_time"`
	Reason          *string           `db:"reason_for_visit" json:"reason_for_visit,omitempty"`
	Symptoms        *string           `db:"symptoms" json:"symptoms,omitempty"`
	Status          AppointmentStatus `db:"status" json:"status"`
	BookingChannel  BookingChannel    `db:"booking_type" json:"booking_type"`
	DurationMinutes int               `db:"estimated_duration" json:"estimated_duration"`
	TotalAmount     float64           `db:"total_amount" json:"total_amount"`
	PaymentStatus   PaymentStatus     `db:"payment_status" json:"payment_status"`
}

// NewAppointmentRequest is the repository-facing write request. The booking
// engine only ever produces pending records; status is not a caller choice.
type NewAppointmentRequest struct {
	OwnerID         uuid.UUID
	PetID           uuid.UUID
	VeterinarianID  uuid.UUID
	ClinicID        uuid.UUID
	Date            time.Time
	Time            string
	Reason          *string
	Symptoms        *string
	BookingChannel  BookingChannel
	DurationMinutes int
	TotalAmount     float64
}

// TimeSlot is a bookable start time with its display label. Generated fresh
// per request, never persisted.
type TimeSlot struct {
	Start string `json:"start"`
	Label string `json:"label"`
}
