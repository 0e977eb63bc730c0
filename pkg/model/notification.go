package model

import "time"

// NotificationTemplate selects the e-mail template rendered by the
// notifier. The four cancellation variants encode who acted and who is
// being told.
type NotificationTemplate string

const (
	TemplateBookingConfirmed    NotificationTemplate = "booking-confirmed"
	TemplateNewBooking          NotificationTemplate = "new-booking"
	TemplateGuestCancelledGuest NotificationTemplate = "guest-cancelled-guest"
	TemplateGuestCancelledHost  NotificationTemplate = "guest-cancelled-host"
	TemplateHostCancelledGuest  NotificationTemplate = "host-cancelled-guest"
	TemplateHostCancelledHost   NotificationTemplate = "host-cancelled-host"
)

// NotificationData carries everything a template needs, so the notifier
// never has to read the database.
type NotificationData struct {
	BookingID        string    `json:"booking_id"`
	ListingTitle     string    `json:"listing_title"`
	CheckIn          time.Time `json:"check_in"`
	CheckOut         time.Time `json:"check_out"`
	Rooms            int       `json:"rooms"`
	Price            int64     `json:"price"`
	CounterpartyName string    `json:"counterparty_name"`

	// CancelURL is set only on booking-confirmed events; it embeds the
	// single-use cancellation token.
	CancelURL string `json:"cancel_url,omitempty"`
}

// NotificationEvent is the kafka payload published by the bookings service
// and consumed by the notifier.
type NotificationEvent struct {
	ID         string               `json:"id"`
	Template   NotificationTemplate `json:"template"`
	Recipient  UserRef              `json:"recipient"`
	Subject    string               `json:"subject"`
	Data       NotificationData     `json:"data"`
	OccurredAt time.Time            `json:"occurred_at"`
}
