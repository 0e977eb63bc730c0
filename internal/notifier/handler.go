package notifier

import (
	"context"

	"apnastay/pkg/kafka"
	"apnastay/pkg/logger"
	"apnastay/pkg/model"
)

// Mailer is the delivery side of the notifier, satisfied by email.Sender.
type Mailer interface {
	Send(ctx context.Context, toName, toEmail, subject, htmlBody string) error
}

// Handler turns booking notification events into e-mail. Malformed events
// and events without a recipient address are logged and dropped; delivery
// failures are returned so the consumer can retry and eventually route the
// event to the DLQ.
type Handler struct {
	mailer Mailer
	log    *logger.Logger
}

func NewHandler(mailer Mailer, log *logger.Logger) *Handler {
	return &Handler{
		mailer: mailer,
		log:    log,
	}
}

func (h *Handler) Handle(ctx context.Context, msg kafka.Message) error {
	var event model.NotificationEvent
	if err := msg.DecodeValue(&event); err != nil {
		h.log.Error("Dropping undecodable notification event",
			"event_id", msg.GetEventID(),
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}

	if event.Recipient.Email == "" {
		h.log.Info("Skipping notification without recipient address",
			"event_id", event.ID,
			"template", event.Template,
			"booking_id", event.Data.BookingID,
		)
		return nil
	}

	body, err := Render(event.Template, event.Data)
	if err != nil {
		h.log.Error("Dropping unrenderable notification event",
			"event_id", event.ID,
			"template", event.Template,
			"error", err,
		)
		return nil
	}

	if err := h.mailer.Send(ctx, event.Recipient.Username, event.Recipient.Email, event.Subject, body); err != nil {
		h.log.Error("Failed to deliver notification",
			"event_id", event.ID,
			"template", event.Template,
			"booking_id", event.Data.BookingID,
			"error", err,
		)
		return err
	}

	h.log.Info("Notification delivered",
		"event_id", event.ID,
		"template", event.Template,
		"booking_id", event.Data.BookingID,
	)
	return nil
}
