package model

import "testing"

func TestBookingStatus_Transitions(t *testing.T) {
	statuses := []BookingStatus{BookingPending, BookingBooked, BookingCancelled}

	allowed := map[BookingStatus]map[BookingStatus]bool{
		BookingPending:   {BookingBooked: true, BookingCancelled: true},
		BookingBooked:    {BookingCancelled: true},
		BookingCancelled: {},
	}

	for _, from := range statuses {
		for _, to := range statuses {
			got := from.CanTransitionTo(to)
			want := allowed[from][to]
			if got != want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestBookingStatus_CancelledIsTerminal(t *testing.T) {
	for _, to := range []BookingStatus{BookingPending, BookingBooked, BookingCancelled} {
		if BookingCancelled.CanTransitionTo(to) {
			t.Errorf("cancelled must not transition to %s", to)
		}
	}
}

func TestBookingStatus_Valid(t *testing.T) {
	for _, s := range []BookingStatus{BookingPending, BookingBooked, BookingCancelled} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if BookingStatus("confirmed").Valid() {
		t.Error("unknown status must not be valid")
	}
}

func TestBookingStatus_CountsAgainstCapacity(t *testing.T) {
	cases := map[BookingStatus]bool{
		BookingPending:   true,
		BookingBooked:    true,
		BookingCancelled: false,
	}
	for status, want := range cases {
		if got := status.CountsAgainstCapacity(); got != want {
			t.Errorf("CountsAgainstCapacity(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestBooking_IsParticipant(t *testing.T) {
	booking := &Booking{
		Guest: UserRef{ID: "guest-1"},
		Host:  UserRef{ID: "host-1"},
	}

	if !booking.IsParticipant("guest-1") || !booking.IsParticipant("host-1") {
		t.Error("guest and host are participants")
	}
	if booking.IsParticipant("stranger") {
		t.Error("strangers are not participants")
	}
}
