package model

import (
	"github.com/google/uuid"
)

// PetOwnerProfile links an authenticated account 1:1 to the owner identity
// used for ownership checks and daily volume counting.
type PetOwnerProfile struct {
	Base
	AccountID uuid.UUID `db:"account_id" json:"account_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
}
