package model

// Clinic is the booking context. Read-only from the booking engine's
// perspective.
type Clinic struct {
	Base
	Name      string   `db:"name" json:"name"`
	Address   string   `db:"address" json:"address"`
	Phone     string   `db:"phone" json:"phone"`
	Email     string   `db:"email" json:"email"`
	Latitude  *float64 `db:"latitude" json:"latitude,omitempty"`
	Longitude *float64 `db:"longitude" json:"longitude,omitempty"`
}
