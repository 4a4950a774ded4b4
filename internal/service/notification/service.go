package notification

import (
	"context"
	"fmt"

	"github.com/petcarehq/booking-api/internal/email"
	"github.com/petcarehq/booking-api/internal/model"
	"github.com/petcarehq/booking-api/pkg/logger"
	"github.com/petcarehq/booking-api/pkg/messaging"
)

const inAppChannel = "notifications"

// Dispatcher alerts a party after an appointment status transition. Initial
// booking never dispatches.
type Dispatcher interface {
	Dispatch(ctx context.Context, n *model.Notification) error
}

type dispatcher struct {
	emailSvc email.Service
	broker   messaging.Broker
	logger   *logger.Logger
}

func NewDispatcher(emailSvc email.Service, broker messaging.Broker, log *logger.Logger) Dispatcher {
	return &dispatcher{
		emailSvc: emailSvc,
		broker:   broker,
		logger:   log,
	}
}

func (d *dispatcher) Dispatch(ctx context.Context, n *model.Notification) error {
	switch n.Channel {
	case model.NotificationChannelEmail:
		if err := d.emailSvc.SendCustom(ctx, n.Recipient, n.Subject, n.Content); err != nil {
			return fmt.Errorf("send email notification: %w", err)
		}
	case model.NotificationChannelInApp:
		if err := d.broker.Publish(ctx, inAppChannel, messaging.Message{
			Type:    "appointment_notification",
			Payload: n,
		}); err != nil {
			return fmt.Errorf("publish in-app notification: %w", err)
		}
	default:
		return fmt.Errorf("unsupported channel: %s", n.Channel)
	}

	d.logger.Debug("notification dispatched",
		"notification_id", n.ID.String(), "channel", string(n.Channel))
	return nil
}
