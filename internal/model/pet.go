package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Pet is the patient. OwnerID is the ownership anchor: every pet belongs to
// exactly one pet owner profile.
type Pet struct {
	Base
	OwnerID    uuid.UUID      `db:"owner_id" json:"owner_id"`
	Name       string         `db:"name" json:"name"`
	Species    string         `db:"species" json:"species"`
	Breed      *string        `db:"breed" json:"breed,omitempty"`
	Gender     string         `db:"gender" json:"gender"`
	WeightKg   *float64       `db:"weight_kg" json:"weight_kg,omitempty"`
	Conditions pq.StringArray `db:"medical_conditions" json:"medical_conditions,omitempty"`
}
