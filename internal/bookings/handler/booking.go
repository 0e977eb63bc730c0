package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"apnastay/internal/bookings/service"
	"apnastay/pkg/dates"
	apperrors "apnastay/pkg/errors"
	httputil "apnastay/pkg/http"
	"apnastay/pkg/logger"
	"apnastay/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

// Start opens a booking draft for a listing and hands back the checkout
// token the rest of the flow is keyed on.
func (h *BookingHandler) Start(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Start", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var req model.DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Start", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	guest := model.UserRef{ID: actor, Username: req.GuestName, Email: req.GuestEmail}
	result, err := h.service.StartBooking(r.Context(), guest, ps.ByName("listingId"), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Start", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Start", "operation", "WriteCreated", "error", err)
	}
}

// Checkout prices the draft and creates the payment order.
func (h *BookingHandler) Checkout(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Checkout", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	result, err := h.service.Checkout(r.Context(), actor, ps.ByName("draftToken"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Checkout", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Checkout", "operation", "WriteSuccess", "error", err)
	}
}

// Confirm completes a paid checkout. Replaying a confirmation for an
// already-recorded payment answers 200 with the existing booking.
func (h *BookingHandler) Confirm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Confirm", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var req model.ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Confirm", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	result, err := h.service.Confirm(r.Context(), actor, &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Confirm", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if result.AlreadyConfirmed {
		if err := httputil.WriteInfo(w, "Booking already confirmed", result.Booking); err != nil {
			h.log.Error("failed to write info response", "handler", "Confirm", "operation", "WriteInfo", "error", err)
		}
		return
	}

	if err := httputil.WriteCreated(w, result.Booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Confirm", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) MyBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.listBookings(w, r, "MyBookings", h.service.MyBookings)
}

func (h *BookingHandler) ReceivedBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.listBookings(w, r, "ReceivedBookings", h.service.ReceivedBookings)
}

func (h *BookingHandler) listBookings(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	list func(ctx context.Context, actor string, limit int, offset int64) ([]*model.Booking, int64, error),
) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
		}
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
		}
		return
	}

	bookings, total, err := list(r.Context(), actor, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", name, "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	result, err := h.service.Cancel(r.Context(), actor, ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	message := "Booking cancelled"
	if result.AlreadyCancelled {
		message = "Booking is already cancelled"
	}
	if err := httputil.WriteInfo(w, message, nil); err != nil {
		h.log.Error("failed to write info response", "handler", "Cancel", "operation", "WriteInfo", "error", err)
	}
}

// SecureCancelConfirm shows the booking behind an e-mailed cancellation
// link so the guest can review before anything happens.
func (h *BookingHandler) SecureCancelConfirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.SecureCancelConfirm(r.Context(), ps.ByName("id"), ps.ByName("token"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SecureCancelConfirm", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if booking.Status == model.BookingCancelled {
		if err := httputil.WriteInfo(w, "Booking is already cancelled", booking); err != nil {
			h.log.Error("failed to write info response", "handler", "SecureCancelConfirm", "operation", "WriteInfo", "error", err)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "SecureCancelConfirm", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) SecureCancelPerform(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	result, err := h.service.SecureCancelPerform(r.Context(), ps.ByName("id"), ps.ByName("token"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "SecureCancelPerform", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	message := "Booking cancelled"
	if result.AlreadyCancelled {
		message = "Booking is already cancelled"
	}
	if err := httputil.WriteInfo(w, message, nil); err != nil {
		h.log.Error("failed to write info response", "handler", "SecureCancelPerform", "operation", "WriteInfo", "error", err)
	}
}

// Availability probes remaining rooms for a stay without reserving anything.
// The rooms query parameter defaults to one.
func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	checkIn, checkOut, rooms, err := extractStayQuery(r.URL.Query())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Availability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	availability, err := h.service.CheckAvailability(r.Context(), ps.ByName("listingId"), checkIn, checkOut, rooms)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Availability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

// Search lists stays in a location with enough rooms free over the
// requested range.
func (h *BookingHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	checkIn, checkOut, rooms, err := extractStayQuery(query)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	results, err := h.service.SearchStays(r.Context(), query.Get("location"), checkIn, checkOut, rooms, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, results); err != nil {
		h.log.Error("failed to write success response", "handler", "Search", "operation", "WriteSuccess", "error", err)
	}
}

// TravelBuddies lists guests who completed stays at the same listings as
// the actor.
func (h *BookingHandler) TravelBuddies(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "TravelBuddies", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	buddies, err := h.service.TravelBuddies(r.Context(), actor)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "TravelBuddies", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, buddies); err != nil {
		h.log.Error("failed to write success response", "handler", "TravelBuddies", "operation", "WriteSuccess", "error", err)
	}
}

func extractStayQuery(query url.Values) (checkIn, checkOut time.Time, rooms int, err error) {
	checkIn, ok := dates.ParseDay(query.Get("check_in"))
	if !ok {
		return time.Time{}, time.Time{}, 0, apperrors.InvalidInput("check_in must be a date (2006-01-02) or RFC3339 timestamp")
	}

	checkOut, ok = dates.ParseDay(query.Get("check_out"))
	if !ok {
		return time.Time{}, time.Time{}, 0, apperrors.InvalidInput("check_out must be a date (2006-01-02) or RFC3339 timestamp")
	}

	rooms = 1
	if raw := query.Get("rooms"); raw != "" {
		rooms, err = strconv.Atoi(raw)
		if err != nil || rooms < 1 {
			return time.Time{}, time.Time{}, 0, apperrors.InvalidInput("rooms must be a positive integer")
		}
	}

	return checkIn, checkOut, rooms, nil
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings/start/:listingId", h.Start)
	router.GET("/api/v1/bookings/checkout/:draftToken", h.Checkout)
	router.POST("/api/v1/bookings/confirm", h.Confirm)
	router.GET("/api/v1/bookings/my", h.MyBookings)
	router.GET("/api/v1/bookings/received", h.ReceivedBookings)
	router.POST("/api/v1/bookings/id/:id/cancel", h.Cancel)
	router.GET("/api/v1/bookings/cancel/secure/:id/:token", h.SecureCancelConfirm)
	router.POST("/api/v1/bookings/cancel/secure/:id/:token", h.SecureCancelPerform)
	router.GET("/api/v1/bookings/availability/:listingId", h.Availability)
	router.GET("/api/v1/bookings/search", h.Search)
	router.GET("/api/v1/bookings/buddies", h.TravelBuddies)
}
