package validator

import (
	"errors"
	"fmt"
	"strings"

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

type ListingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewListingValidator(log *logger.Logger) *ListingValidator {
	v := validator.New()

	log.Info("Listing validator initialized successfully")

	return &ListingValidator{
		validate: v,
		logger:   log,
	}
}

func (v *ListingValidator) ValidateListing(listing *model.Listing) error {
	if err := v.validate.Struct(listing); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateCategory(listing.Category)
}

func (v *ListingValidator) ValidateUpdate(update *model.ListingUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateCategory(update.Category)
}

func (v *ListingValidator) ValidateReview(review *model.Review) error {
	if err := v.validate.Struct(review); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// validateCategory accepts only host-assignable categories. Trending is
// derived from ratings and cannot be set directly.
func (v *ListingValidator) validateCategory(category string) error {
	if category == "" {
		return nil
	}
	for _, c := range model.AssignableCategories {
		if category == c {
			return nil
		}
	}
	return ValidationErrors{
		{Field: "Category", Message: fmt.Sprintf("category must be one of: %s", strings.Join(model.AssignableCategories, ", "))},
	}
}

func (v *ListingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", err.Field())
		case "len":
			message = fmt.Sprintf("%s must have exactly %s elements", err.Field(), err.Param())
		case "eq":
			message = fmt.Sprintf("%s must equal %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
