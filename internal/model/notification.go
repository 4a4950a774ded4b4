package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationChannel string

const (
	NotificationChannelEmail NotificationChannel = "email"
	NotificationChannelInApp NotificationChannel = "in_app"
)

// Notification is the payload handed to the dispatcher after an appointment
// status transition. Initial booking does not notify.
type Notification struct {
	ID            uuid.UUID           `json:"id"`
	AppointmentID uuid.UUID           `json:"appointment_id"`
	OwnerID       uuid.UUID           `json:"owner_id"`
	Channel       NotificationChannel `json:"channel"`
	Recipient     string              `json:"recipient"`
	Subject       string              `json:"subject"`
	Content       string              `json:"content"`
	CreatedAt     time.Time           `json:"created_at"`
}
