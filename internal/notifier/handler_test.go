package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"apnastay/pkg/kafka"
	"apnastay/pkg/logger"
	"apnastay/pkg/model"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type sentMail struct {
	toName  string
	toEmail string
	subject string
	body    string
}

type mockMailer struct {
	sendFunc func(ctx context.Context, toName, toEmail, subject, htmlBody string) error
	sent     []sentMail
}

func (m *mockMailer) Send(ctx context.Context, toName, toEmail, subject, htmlBody string) error {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, toName, toEmail, subject, htmlBody)
	}
	m.sent = append(m.sent, sentMail{toName: toName, toEmail: toEmail, subject: subject, body: htmlBody})
	return nil
}

func testLog(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.New(logger.Config{Level: "error", Format: "text", Service: "test"})
}

func confirmedEvent() model.NotificationEvent {
	return model.NotificationEvent{
		ID:       "evt-1",
		Template: model.TemplateBookingConfirmed,
		Recipient: model.UserRef{
			ID:       "guest-1",
			Username: "Priya",
			Email:    "priya@example.com",
		},
		Subject: "Your booking at Hilltop Cottage is confirmed",
		Data: model.NotificationData{
			BookingID:        "64f200000000000000000001",
			ListingTitle:     "Hilltop Cottage",
			CheckIn:          time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
			CheckOut:         time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC),
			Rooms:            2,
			Price:            6000,
			CounterpartyName: "Ravi",
			CancelURL:        "https://apnastay.example/bookings/cancel/secure/64f200000000000000000001/abcd",
		},
	}
}

func messageFor(event model.NotificationEvent) kafka.Message {
	return kafka.NewMessage().
		WithKey(event.Data.BookingID).
		WithValue(event).
		WithEventType(string(event.Template)).
		Build()
}

// ────────────────────────────────────────────────
// Tests
// ────────────────────────────────────────────────

func TestHandle_DeliversRenderedMail(t *testing.T) {
	mailer := &mockMailer{}
	h := NewHandler(mailer, testLog(t))

	event := confirmedEvent()
	if err := h.Handle(context.Background(), messageFor(event)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(mailer.sent))
	}
	mail := mailer.sent[0]
	if mail.toEmail != "priya@example.com" || mail.toName != "Priya" {
		t.Errorf("unexpected recipient: %s <%s>", mail.toName, mail.toEmail)
	}
	if mail.subject != event.Subject {
		t.Errorf("unexpected subject: %q", mail.subject)
	}
	for _, want := range []string{"Hilltop Cottage", "Ravi", "₹6000", event.Data.CancelURL} {
		if !strings.Contains(mail.body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestHandle_SkipsRecipientWithoutEmail(t *testing.T) {
	mailer := &mockMailer{}
	h := NewHandler(mailer, testLog(t))

	event := confirmedEvent()
	event.Recipient.Email = ""
	if err := h.Handle(context.Background(), messageFor(event)); err != nil {
		t.Fatalf("expected skip, got error: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Error("mail must not be sent without an address")
	}
}

func TestHandle_DropsUndecodablePayload(t *testing.T) {
	mailer := &mockMailer{}
	h := NewHandler(mailer, testLog(t))

	msg := kafka.Message{Value: []byte("{not json")}
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("expected drop, got error: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Error("mail must not be sent for a broken payload")
	}
}

func TestHandle_DropsUnknownTemplate(t *testing.T) {
	mailer := &mockMailer{}
	h := NewHandler(mailer, testLog(t))

	event := confirmedEvent()
	event.Template = "listing-liked"
	if err := h.Handle(context.Background(), messageFor(event)); err != nil {
		t.Fatalf("expected drop, got error: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Error("mail must not be sent for an unknown template")
	}
}

func TestHandle_ReturnsDeliveryErrorForRetry(t *testing.T) {
	sendErr := errors.New("provider unavailable")
	mailer := &mockMailer{
		sendFunc: func(ctx context.Context, toName, toEmail, subject, htmlBody string) error {
			return sendErr
		},
	}
	h := NewHandler(mailer, testLog(t))

	if err := h.Handle(context.Background(), messageFor(confirmedEvent())); !errors.Is(err, sendErr) {
		t.Fatalf("expected delivery error, got %v", err)
	}
}

func TestRender_AllTemplates(t *testing.T) {
	data := confirmedEvent().Data

	for _, name := range []model.NotificationTemplate{
		model.TemplateBookingConfirmed,
		model.TemplateNewBooking,
		model.TemplateGuestCancelledGuest,
		model.TemplateGuestCancelledHost,
		model.TemplateHostCancelledGuest,
		model.TemplateHostCancelledHost,
	} {
		body, err := Render(name, data)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !strings.Contains(body, "Hilltop Cottage") || !strings.Contains(body, "Thu, 10 Sep 2026") {
			t.Errorf("%s: body missing stay details", name)
		}
	}
}

func TestRender_CancelLinkOnlyOnConfirmation(t *testing.T) {
	data := confirmedEvent().Data
	data.CancelURL = ""

	body, err := Render(model.TemplateBookingConfirmed, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(body, "secure link") {
		t.Error("cancel paragraph must be omitted when no URL is set")
	}
}
