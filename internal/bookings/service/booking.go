package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "apnastay/internal/bookings/errors"
	"apnastay/internal/bookings/repository"
	"apnastay/internal/bookings/validator"
	"apnastay/pkg/config"
	"apnastay/pkg/dates"
	apperrors "apnastay/pkg/errors"
	"apnastay/pkg/model"
	"apnastay/pkg/payment"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// PaymentGateway is the slice of pkg/payment the lifecycle needs.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, price int64) (*payment.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// CheckoutSealer binds a guest to a draft in an opaque token.
type CheckoutSealer interface {
	CreateCheckoutToken(guestID, draftID string) (string, error)
	ParseCheckoutToken(token string) (guestID, draftID string, err error)
}

var errDuplicatePayment = errors.New("payment reference already confirmed")

type StartBookingResult struct {
	Draft         *model.BookingDraft `json:"draft"`
	CheckoutToken string              `json:"checkout_token"`
	Availability  *model.Availability `json:"availability"`
}

type CheckoutResult struct {
	Draft  *model.BookingDraft `json:"draft"`
	Nights int                 `json:"nights"`
	Price  int64               `json:"price"`
	Order  *payment.Order      `json:"order"`
}

type ConfirmResult struct {
	Booking          *model.Booking `json:"booking"`
	AlreadyConfirmed bool           `json:"-"`
}

type CancelResult struct {
	AlreadyCancelled bool
}

type BookingService interface {
	CheckAvailability(ctx context.Context, listingID string, checkIn, checkOut time.Time, requestedRooms int) (*model.Availability, error)
	SearchStays(ctx context.Context, location string, checkIn, checkOut time.Time, rooms int, limit int, offset int64) ([]*StaySearchResult, error)
	TravelBuddies(ctx context.Context, guestID string) ([]*model.TravelBuddy, error)
	StartBooking(ctx context.Context, guest model.UserRef, listingID string, req *model.DraftRequest) (*StartBookingResult, error)
	Checkout(ctx context.Context, guestID, checkoutToken string) (*CheckoutResult, error)
	Confirm(ctx context.Context, guestID string, req *model.ConfirmRequest) (*ConfirmResult, error)
	Cancel(ctx context.Context, actorID, bookingID string) (*CancelResult, error)
	SecureCancelConfirm(ctx context.Context, bookingID, token string) (*model.Booking, error)
	SecureCancelPerform(ctx context.Context, bookingID, token string) (*CancelResult, error)
	MyBookings(ctx context.Context, guestID string, limit int, offset int64) ([]*model.Booking, int64, error)
	ReceivedBookings(ctx context.Context, hostID string, limit int, offset int64) ([]*model.Booking, int64, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	drafts    repository.DraftRepository
	listings  repository.ListingReader
	validator *validator.BookingValidator
	sealer    CheckoutSealer
	gateway   PaymentGateway
	publisher NotificationPublisher
	cfg       *config.Config
}

func NewBookingService(
	cfg *config.Config,
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	drafts repository.DraftRepository,
	listings repository.ListingReader,
	validator *validator.BookingValidator,
	sealer CheckoutSealer,
	gateway PaymentGateway,
	publisher NotificationPublisher,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		drafts:    drafts,
		listings:  listings,
		validator: validator,
		sealer:    sealer,
		gateway:   gateway,
		publisher: publisher,
		cfg:       cfg,
	}
}

// StartBooking opens a draft for the requested stay. The draft reserves
// nothing; availability is re-checked under lock at confirmation.
func (s *bookingService) StartBooking(ctx context.Context, guest model.UserRef, listingID string, req *model.DraftRequest) (*StartBookingResult, error) {
	if guest.ID == "" {
		return nil, apperrors.Unauthorized("Acting user is required")
	}

	checkIn, checkOut, err := s.validator.ValidateDraftRequest(req)
	if err != nil {
		s.cfg.Log.Warn("Booking draft validation failed", "listing_id", listingID, "error", err)
		return nil, apperrors.Validation("Invalid booking request", map[string]any{"error": err.Error()})
	}

	rooms := req.Rooms
	if rooms < 1 {
		rooms = 1
	}

	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrListingNotFound) {
			return nil, apperrors.NotFoundWithID("Listing", listingID)
		}
		return nil, apperrors.Internal("Failed to load listing", err)
	}

	if listing.Owner.ID == guest.ID {
		return nil, apperrors.Forbidden("You cannot book your own listing")
	}

	availability, err := s.checkAvailability(ctx, listing, checkIn, checkOut, rooms)
	if err != nil {
		return nil, err
	}
	if availability.Err != "" {
		return nil, apperrors.InvalidInput(availability.Err)
	}
	if availability.AvailableRooms < rooms {
		return nil, apperrors.Conflict(fmt.Sprintf("Only %d rooms available.", availability.AvailableRooms))
	}

	draft := &model.BookingDraft{
		ID:         uuid.New().String(),
		ListingID:  listing.ID,
		GuestID:    guest.ID,
		GuestName:  guest.Username,
		GuestEmail: guest.Email,
		CheckIn:    dates.UTCDay(checkIn),
		CheckOut:   dates.UTCDay(checkOut),
		Rooms:      rooms,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, apperrors.Internal("Failed to store booking draft", err)
	}

	token, err := s.sealer.CreateCheckoutToken(guest.ID, draft.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to create checkout token", err)
	}

	s.cfg.Log.Info("Booking draft created",
		"draft_id", draft.ID,
		"listing_id", listing.ID,
		"guest_id", guest.ID,
		"check_in", draft.CheckIn,
		"check_out", draft.CheckOut,
		"rooms", rooms,
	)

	return &StartBookingResult{
		Draft:         draft,
		CheckoutToken: token,
		Availability:  availability,
	}, nil
}

// Checkout prices the draft and registers a payment order. Nothing is
// persisted to Mongo; a failed order leaves no trace beyond the draft.
func (s *bookingService) Checkout(ctx context.Context, guestID, checkoutToken string) (*CheckoutResult, error) {
	draft, err := s.loadDraftForGuest(ctx, guestID, checkoutToken)
	if err != nil {
		return nil, err
	}

	listing, err := s.listings.FindByID(ctx, draft.ListingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrListingNotFound) {
			return nil, apperrors.NotFoundWithID("Listing", draft.ListingID)
		}
		return nil, apperrors.Internal("Failed to load listing", err)
	}

	nights := dates.Nights(draft.CheckIn, draft.CheckOut)
	price := int64(nights) * listing.Price * int64(draft.Rooms)

	order, err := s.gateway.CreateOrder(ctx, price)
	if err != nil {
		s.cfg.Log.Error("Payment order creation failed",
			"draft_id", draft.ID,
			"price", price,
			"error", err,
		)
		return nil, err
	}

	draft.OrderID = order.ID
	draft.Price = price
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, apperrors.Internal("Failed to update booking draft", err)
	}

	s.cfg.Log.Info("Payment order created",
		"draft_id", draft.ID,
		"order_id", order.ID,
		"nights", nights,
		"price", price,
	)

	return &CheckoutResult{
		Draft:  draft,
		Nights: nights,
		Price:  price,
		Order:  order,
	}, nil
}

// Confirm turns a paid draft into a booking. The payment signature is always
// verified and the price always recomputed; the client is trusted with
// neither. A repeated confirmation for the same payment reference returns
// the existing booking.
func (s *bookingService) Confirm(ctx context.Context, guestID string, req *model.ConfirmRequest) (*ConfirmResult, error) {
	if err := s.validator.ValidateConfirmRequest(req); err != nil {
		s.cfg.Log.Warn("Booking confirmation validation failed", "error", err)
		return nil, apperrors.Validation("Invalid confirmation request", map[string]any{"error": err.Error()})
	}

	paymentID := req.NormalizedPaymentID()

	if existing, err := s.repo.FindByPaymentID(ctx, paymentID); err == nil {
		s.cfg.Log.Info("Confirmation replay for known payment",
			"payment_id", paymentID,
			"booking_id", existing.ID,
		)
		return &ConfirmResult{Booking: existing, AlreadyConfirmed: true}, nil
	} else if !errors.Is(err, bookingserrors.ErrNotFound) {
		return nil, apperrors.Internal("Failed to check payment reference", err)
	}

	if !s.gateway.VerifySignature(req.OrderID, paymentID, req.Signature) {
		s.cfg.Log.Warn("Payment signature verification failed",
			"order_id", req.OrderID,
			"guest_id", guestID,
		)
		return nil, apperrors.Forbidden("Payment verification failed")
	}

	draft, err := s.loadDraftForGuest(ctx, guestID, req.CheckoutToken)
	if err != nil {
		return nil, err
	}

	if draft.OrderID != "" && draft.OrderID != req.OrderID {
		return nil, apperrors.Forbidden("Payment verification failed")
	}

	listing, err := s.listings.FindByID(ctx, draft.ListingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrListingNotFound) {
			return nil, apperrors.NotFoundWithID("Listing", draft.ListingID)
		}
		return nil, apperrors.Internal("Failed to load listing", err)
	}

	nights := dates.Nights(draft.CheckIn, draft.CheckOut)
	price := int64(nights) * listing.Price * int64(draft.Rooms)

	cancelToken, err := generateCancelToken()
	if err != nil {
		return nil, apperrors.Internal("Failed to generate cancellation token", err)
	}
	tokenExpiry := time.Now().UTC().Add(s.cfg.CancelTokenTTL)

	booking := &model.Booking{
		ListingID:          listing.ID,
		Guest:              model.UserRef{ID: draft.GuestID, Username: draft.GuestName, Email: draft.GuestEmail},
		Host:               listing.Owner,
		CheckIn:            draft.CheckIn,
		CheckOut:           draft.CheckOut,
		RoomsBooked:        draft.Rooms,
		Price:              price,
		Status:             model.BookingBooked,
		PaymentID:          paymentID,
		CancelToken:        cancelToken,
		CancelTokenExpires: &tokenExpiry,
		Version:            1,
	}

	lockID, err := s.acquireListingLock(ctx, listing.ID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseListingLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		availability, err := s.checkAvailability(sessCtx, listing, draft.CheckIn, draft.CheckOut, draft.Rooms)
		if err != nil {
			return err
		}
		if availability.AvailableRooms < draft.Rooms {
			return apperrors.Conflict(fmt.Sprintf("Only %d rooms available.", availability.AvailableRooms))
		}

		if err := s.repo.Create(sessCtx, booking); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return errDuplicatePayment
			}
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		// A duplicate payment_id insert means a concurrent confirmation
		// won; surface that booking instead of an error.
		if errors.Is(err, errDuplicatePayment) {
			if existing, findErr := s.repo.FindByPaymentID(ctx, paymentID); findErr == nil {
				return &ConfirmResult{Booking: existing, AlreadyConfirmed: true}, nil
			}
		}
		s.cfg.Log.Error("Failed to confirm booking", "draft_id", draft.ID, "error", err)
		return nil, err
	}

	if err := s.drafts.Delete(ctx, draft.ID); err != nil {
		s.cfg.Log.Warn("Failed to delete booking draft", "draft_id", draft.ID, "error", err)
	}

	s.cfg.Log.Info("Booking confirmed",
		"booking_id", booking.ID,
		"listing_id", listing.ID,
		"guest_id", booking.Guest.ID,
		"payment_id", paymentID,
		"price", price,
	)

	cancelURL := SecureCancelURL(s.cfg, booking.ID, cancelToken)
	s.notifyParties(ctx, booking, listing.Title, model.TemplateBookingConfirmed, model.TemplateNewBooking, cancelURL)

	return &ConfirmResult{Booking: booking}, nil
}

// Cancel cancels a booking on behalf of its guest or host. Cancelling an
// already-cancelled booking reports success without touching anything.
func (s *bookingService) Cancel(ctx context.Context, actorID, bookingID string) (*CancelResult, error) {
	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.IsParticipant(actorID) {
		return nil, apperrors.Forbidden("Only the guest or host can cancel this booking")
	}

	if booking.Status == model.BookingCancelled {
		return &CancelResult{AlreadyCancelled: true}, nil
	}

	if !booking.Status.CanTransitionTo(model.BookingCancelled) {
		return nil, apperrors.Conflict(fmt.Sprintf("Booking cannot be cancelled from status %q", booking.Status))
	}

	ok, err := s.repo.CancelWithVersion(ctx, bookingID, booking.Version)
	if err != nil {
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}
	if !ok {
		// Lost the race: either someone else cancelled, or the booking
		// changed underneath us.
		current, err := s.getBooking(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if current.Status == model.BookingCancelled {
			return &CancelResult{AlreadyCancelled: true}, nil
		}
		return nil, apperrors.Conflict("Booking was modified concurrently, please retry")
	}

	s.cfg.Log.Info("Booking cancelled",
		"booking_id", bookingID,
		"actor_id", actorID,
	)

	byGuest := actorID == booking.Guest.ID
	s.notifyCancellation(ctx, booking, byGuest)

	return &CancelResult{}, nil
}

// SecureCancelConfirm resolves the booking behind an e-mailed cancellation
// link. Every validation failure collapses into the same generic error so
// the endpoint leaks nothing about token state.
func (s *bookingService) SecureCancelConfirm(ctx context.Context, bookingID, token string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, invalidCancellationLink()
	}

	if booking.Status == model.BookingCancelled {
		return booking, nil
	}

	if !tokenMatches(booking, token) {
		return nil, invalidCancellationLink()
	}

	return booking, nil
}

// SecureCancelPerform consumes the cancellation token. The token is cleared
// in the same conditional write that persists the cancelled status, so a
// replay of the link can never cancel twice or resurrect anything.
func (s *bookingService) SecureCancelPerform(ctx context.Context, bookingID, token string) (*CancelResult, error) {
	ok, err := s.repo.CancelWithToken(ctx, bookingID, token, time.Now().UTC())
	if err != nil {
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, invalidCancellationLink()
		}
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}

	if !ok {
		booking, findErr := s.repo.FindByID(ctx, bookingID)
		if findErr != nil {
			return nil, invalidCancellationLink()
		}
		if booking.Status == model.BookingCancelled {
			return &CancelResult{AlreadyCancelled: true}, nil
		}
		return nil, invalidCancellationLink()
	}

	s.cfg.Log.Info("Booking cancelled via secure link", "booking_id", bookingID)

	if booking, findErr := s.repo.FindByID(ctx, bookingID); findErr == nil {
		s.notifyCancellation(ctx, booking, true)
	}

	return &CancelResult{}, nil
}

func (s *bookingService) MyBookings(ctx context.Context, guestID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if guestID == "" {
		return nil, 0, apperrors.Unauthorized("Acting user is required")
	}
	return s.listBookings(ctx,
		func(ctx context.Context) ([]*model.Booking, error) {
			return s.repo.FindByGuest(ctx, guestID, limit, offset)
		},
		func(ctx context.Context) (int64, error) {
			return s.repo.CountByGuest(ctx, guestID)
		},
	)
}

func (s *bookingService) ReceivedBookings(ctx context.Context, hostID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if hostID == "" {
		return nil, 0, apperrors.Unauthorized("Acting user is required")
	}
	return s.listBookings(ctx,
		func(ctx context.Context) ([]*model.Booking, error) {
			return s.repo.FindByHost(ctx, hostID, limit, offset)
		},
		func(ctx context.Context) (int64, error) {
			return s.repo.CountByHost(ctx, hostID)
		},
	)
}

// --- Helpers ---

func (s *bookingService) listBookings(
	ctx context.Context,
	find func(context.Context) ([]*model.Booking, error),
	count func(context.Context) (int64, error),
) ([]*model.Booking, int64, error) {
	var total int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		total, errCount = count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = find(ctx)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, total, nil
}

func (s *bookingService) getBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) loadDraftForGuest(ctx context.Context, guestID, checkoutToken string) (*model.BookingDraft, error) {
	tokenGuest, draftID, err := s.sealer.ParseCheckoutToken(checkoutToken)
	if err != nil || tokenGuest != guestID {
		return nil, apperrors.Forbidden("Invalid checkout token")
	}

	draft, err := s.drafts.Find(ctx, draftID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrDraftNotFound) {
			return nil, apperrors.Conflict("Your booking session has expired. Please start again.")
		}
		return nil, apperrors.Internal("Failed to load booking draft", err)
	}

	if draft.GuestID != guestID {
		return nil, apperrors.Forbidden("Invalid checkout token")
	}

	return draft, nil
}

func (s *bookingService) notifyCancellation(ctx context.Context, booking *model.Booking, byGuest bool) {
	listingTitle := "your stay"
	if listing, err := s.listings.FindByID(ctx, booking.ListingID); err == nil {
		listingTitle = listing.Title
	}

	if byGuest {
		s.notifyParties(ctx, booking, listingTitle, model.TemplateGuestCancelledGuest, model.TemplateGuestCancelledHost, "")
	} else {
		s.notifyParties(ctx, booking, listingTitle, model.TemplateHostCancelledGuest, model.TemplateHostCancelledHost, "")
	}
}

// acquireListingLock takes the advisory lock for a listing before the
// availability re-check. The key is the listing alone, so confirmations for
// overlapping stay ranges always contend on the same lock.
func (s *bookingService) acquireListingLock(ctx context.Context, listingID string) (string, error) {
	lockID := "booking_lock_" + listingID

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.LockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This listing is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseListingLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func tokenMatches(booking *model.Booking, token string) bool {
	if token == "" || booking.CancelToken == "" || booking.CancelToken != token {
		return false
	}
	if booking.CancelTokenExpires == nil || !booking.CancelTokenExpires.After(time.Now().UTC()) {
		return false
	}
	return true
}

func invalidCancellationLink() error {
	return apperrors.Unauthorized("Invalid or expired cancellation link")
}

func generateCancelToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
