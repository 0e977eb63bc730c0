package model

import "time"

// BookingDraft holds the guest's chosen stay between the booking form and
// payment capture. Drafts live in redis under a TTL and reserve nothing;
// capacity is checked again when the draft is confirmed.
type BookingDraft struct {
	ID         string    `json:"id"`
	ListingID  string    `json:"listing_id"`
	GuestID    string    `json:"guest_id"`
	GuestName  string    `json:"guest_name,omitempty"`
	GuestEmail string    `json:"guest_email,omitempty"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Rooms      int       `json:"rooms"`

	// OrderID and Price are filled at checkout, once a payment order has
	// been created for the draft.
	OrderID string `json:"order_id,omitempty"`
	Price   int64  `json:"price,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// DraftRequest is the booking-form payload that opens a draft.
type DraftRequest struct {
	CheckIn    string `json:"check_in" validate:"required"`
	CheckOut   string `json:"check_out" validate:"required"`
	Rooms      int    `json:"rooms" validate:"omitempty,min=1,max=500"`
	GuestName  string `json:"guest_name" validate:"omitempty,max=100"`
	GuestEmail string `json:"guest_email" validate:"omitempty,email"`
}

// ConfirmRequest completes a draft after payment capture. PaymentID and
// GatewayPaymentID mirror the two field names payment gateways send; the
// most recent non-empty one wins.
type ConfirmRequest struct {
	CheckoutToken    string `json:"checkout_token" validate:"required"`
	OrderID          string `json:"order_id" validate:"required"`
	PaymentID        string `json:"payment_id" validate:"omitempty"`
	GatewayPaymentID string `json:"razorpay_payment_id" validate:"omitempty"`
	Signature        string `json:"signature" validate:"required"`
}

// NormalizedPaymentID returns the effective payment reference.
func (r *ConfirmRequest) NormalizedPaymentID() string {
	if r.PaymentID != "" {
		return r.PaymentID
	}
	return r.GatewayPaymentID
}
