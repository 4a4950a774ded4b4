package model

import (
	"github.com/google/uuid"
)

// Veterinarian is the booking target. IsAvailable is an independent on/off
// signal the veterinarian controls; while it is false the veterinarian must
// not be offered for new bookings, though existing appointments stay valid.
type Veterinarian struct {
	Base
	ClinicID        uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Name            string    `db:"name" json:"name"`
	Specialization  *string   `db:"specialization" json:"specialization,omitempty"`
	LicenseNumber   string    `db:"license_number" json:"license_number"`
	YearsExperience int       `db:"years_experience" json:"years_experience"`
	ConsultationFee float64   `db:"consultation_fee" json:"consultation_fee"`
	IsAvailable     bool      `db:"is_available" json:"is_available"`
	Rating          float64   `db:"rating" json:"rating"`
}
