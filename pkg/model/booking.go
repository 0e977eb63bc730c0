package model

import "time"

// BookingStatus is the explicit booking state machine. Cancelled is
// terminal; every transition not listed in allowedTransitions is rejected.
type BookingStatus string

const (
	// BookingPending exists only for bookings written by legacy imports
	// that reserved capacity before payment capture. New bookings are
	// created directly as booked; pending still counts against capacity.
	BookingPending   BookingStatus = "pending"
	BookingBooked    BookingStatus = "booked"
	BookingCancelled BookingStatus = "cancelled"
)

var allowedTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingBooked, BookingCancelled},
	BookingBooked:    {BookingCancelled},
	BookingCancelled: {},
}

func (s BookingStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CountsAgainstCapacity reports whether a booking in this status reserves
// rooms. Cancelled bookings never do.
func (s BookingStatus) CountsAgainstCapacity() bool {
	return s == BookingBooked || s == BookingPending
}

type Booking struct {
	ID        string  `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ListingID string  `json:"listing_id" bson:"listing_id" validate:"required,mongodb"`
	Guest     UserRef `json:"guest" bson:"guest" validate:"required"`
	Host      UserRef `json:"host" bson:"host" validate:"required"`

	// CheckIn and CheckOut are UTC midnights; the stay is the half-open
	// range [CheckIn, CheckOut).
	CheckIn     time.Time `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut    time.Time `json:"check_out" bson:"check_out" validate:"required,gtfield=CheckIn"`
	RoomsBooked int       `json:"rooms_booked" bson:"rooms_booked" validate:"required,min=1"`

	// Price is nights x listing price x rooms, recomputed server-side.
	Price  int64         `json:"price" bson:"price" validate:"required,min=1"`
	Status BookingStatus `json:"status" bson:"status" validate:"required,oneof=pending booked cancelled"`

	PaymentID string `json:"payment_id,omitempty" bson:"payment_id,omitempty"`

	// CancelToken allows cancellation through an emailed link without
	// authentication. Both fields are cleared once the token is consumed
	// or the booking is cancelled through any path.
	CancelToken        string     `json:"-" bson:"cancel_token,omitempty"`
	CancelTokenExpires *time.Time `json:"-" bson:"cancel_token_expires,omitempty"`

	// Version guards concurrent status updates (double-cancel, retried
	// payment confirmations).
	Version   int64     `json:"-" bson:"version"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

func (b *Booking) IsParticipant(userID string) bool {
	return b.Guest.ID == userID || b.Host.ID == userID
}

// Availability is the result of a room-availability probe for a listing and
// date range. Available answers the caller's question for the number of
// rooms they asked about, not merely whether anything is left. Err is set
// instead of failing the call for invalid input, so probes can render inline
// without an error page.
type Availability struct {
	Available      bool   `json:"available"`
	AvailableRooms int    `json:"available_rooms"`
	RequestedRooms int    `json:"requested_rooms"`
	TotalRooms     int    `json:"total_rooms"`
	ReservedRooms  int    `json:"reserved_rooms"`
	Err            string `json:"error,omitempty"`
}

// TravelBuddy is another guest who completed stays at the same listings,
// ranked by how many stays they share.
type TravelBuddy struct {
	Guest       UserRef `json:"guest" bson:"guest"`
	SharedStays int     `json:"shared_stays" bson:"shared_stays"`
}
