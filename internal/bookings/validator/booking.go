package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"apnastay/pkg/dates"
	"apnastay/pkg/logger"
	"apnastay/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

// ValidateDraftRequest checks the booking form and returns the parsed stay
// range, normalized to UTC midnights.
func (v *BookingValidator) ValidateDraftRequest(req *model.DraftRequest) (checkIn, checkOut time.Time, err error) {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return time.Time{}, time.Time{}, v.translateValidationErrors(validationErrs)
		}
		return time.Time{}, time.Time{}, err
	}

	checkIn, ok := dates.ParseDay(req.CheckIn)
	if !ok {
		return time.Time{}, time.Time{}, ValidationErrors{
			{Field: "CheckIn", Message: "check_in must be a date (2006-01-02) or RFC3339 timestamp"},
		}
	}

	checkOut, ok = dates.ParseDay(req.CheckOut)
	if !ok {
		return time.Time{}, time.Time{}, ValidationErrors{
			{Field: "CheckOut", Message: "check_out must be a date (2006-01-02) or RFC3339 timestamp"},
		}
	}

	if !checkOut.After(checkIn) {
		return time.Time{}, time.Time{}, ValidationErrors{
			{Field: "CheckOut", Message: "check_out must be after check_in"},
		}
	}

	return checkIn, checkOut, nil
}

func (v *BookingValidator) ValidateConfirmRequest(req *model.ConfirmRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if req.NormalizedPaymentID() == "" {
		return ValidationErrors{
			{Field: "PaymentID", Message: "a payment reference is required"},
		}
	}

	return nil
}

func (v *BookingValidator) ValidateBooking(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid e-mail address", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
