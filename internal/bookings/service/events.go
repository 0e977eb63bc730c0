package service

import (
	"context"
	"fmt"
	"time"

	"apnastay/pkg/config"
	"apnastay/pkg/kafka"
	"apnastay/pkg/model"

	"github.com/google/uuid"
)

const (
	NotificationTopic    = "booking-notifications"
	NotificationDLQTopic = "booking-notifications-dlq"
)

// NotificationPublisher emits booking lifecycle events for the notifier.
// Publishing is best-effort; callers log failures and move on.
type NotificationPublisher interface {
	Publish(ctx context.Context, event model.NotificationEvent) error
}

type kafkaNotificationPublisher struct {
	producer *kafka.Producer
}

func NewKafkaNotificationPublisher(producer *kafka.Producer) NotificationPublisher {
	return &kafkaNotificationPublisher{producer: producer}
}

func (p *kafkaNotificationPublisher) Publish(ctx context.Context, event model.NotificationEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	msg := kafka.NewMessage().
		WithKey(event.Data.BookingID).
		WithValue(event).
		WithEventType(string(event.Template)).
		WithSource("bookings").
		Build()

	return p.producer.Publish(ctx, msg)
}

// notifyParties builds and publishes the event pair for a lifecycle change.
// A recipient without an e-mail address is skipped here rather than failing
// in the notifier.
func (s *bookingService) notifyParties(ctx context.Context, booking *model.Booking, listingTitle string, guestTemplate, hostTemplate model.NotificationTemplate, cancelURL string) {
	if s.publisher == nil {
		return
	}

	data := model.NotificationData{
		BookingID:    booking.ID,
		ListingTitle: listingTitle,
		CheckIn:      booking.CheckIn,
		CheckOut:     booking.CheckOut,
		Rooms:        booking.RoomsBooked,
		Price:        booking.Price,
	}

	guestData := data
	guestData.CounterpartyName = booking.Host.Username
	guestData.CancelURL = cancelURL
	s.publishTo(ctx, booking.Guest, guestTemplate, guestData)

	hostData := data
	hostData.CounterpartyName = booking.Guest.Username
	s.publishTo(ctx, booking.Host, hostTemplate, hostData)
}

func (s *bookingService) publishTo(ctx context.Context, recipient model.UserRef, template model.NotificationTemplate, data model.NotificationData) {
	if recipient.Email == "" {
		s.cfg.Log.Info("Skipping notification for recipient without e-mail",
			"template", template,
			"booking_id", data.BookingID,
			"recipient_id", recipient.ID,
		)
		return
	}

	event := model.NotificationEvent{
		Template:  template,
		Recipient: recipient,
		Subject:   subjectFor(template, data.ListingTitle),
		Data:      data,
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Error("Failed to publish notification event",
			"template", template,
			"booking_id", data.BookingID,
			"error", err,
		)
	}
}

func subjectFor(template model.NotificationTemplate, listingTitle string) string {
	switch template {
	case model.TemplateBookingConfirmed:
		return fmt.Sprintf("Your booking at %s is confirmed", listingTitle)
	case model.TemplateNewBooking:
		return fmt.Sprintf("New booking for %s", listingTitle)
	case model.TemplateGuestCancelledGuest:
		return fmt.Sprintf("You cancelled your booking at %s", listingTitle)
	case model.TemplateGuestCancelledHost:
		return fmt.Sprintf("A booking for %s was cancelled by the guest", listingTitle)
	case model.TemplateHostCancelledGuest:
		return fmt.Sprintf("Your booking at %s was cancelled by the host", listingTitle)
	case model.TemplateHostCancelledHost:
		return fmt.Sprintf("You cancelled a booking for %s", listingTitle)
	default:
		return "Booking update"
	}
}

// SecureCancelURL builds the unauthenticated cancellation link e-mailed to
// the guest.
func SecureCancelURL(cfg *config.Config, bookingID, token string) string {
	return fmt.Sprintf("%s/bookings/cancel/secure/%s/%s", cfg.SiteURL, bookingID, token)
}
