package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"spaces/pkg/model"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
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
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

// Fields maps each failing field to its message, for error details.
func (v ValidationErrors) Fields() map[string]any {
	out := make(map[string]any, len(v))
	for _, e := range v {
		out[e.Field] = e.Message
	}
	return out
}

type SpaceValidator struct {
	validate            *validator.Validate
	maxReservationHours int
}

func NewSpaceValidator(maxReservationHours int) *SpaceValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return &SpaceValidator{
		validate:            v,
		maxReservationHours: maxReservationHours,
	}
}

func (v *SpaceValidator) Validate(space *model.Space) error {
	if err := v.structErrors(space); err != nil {
		return err
	}
	return v.validateBusinessRules(space)
}

func (v *SpaceValidator) ValidateUpdate(update *model.SpaceUpdate) error {
	return v.structErrors(update)
}

func (v *SpaceValidator) ValidateRate(rate *model.RateUpdate) error {
	return v.structErrors(rate)
}

func (v *SpaceValidator) ValidateReview(review *model.ReviewRequest) error {
	return v.structErrors(review)
}

// ValidateReservation checks the request shape and length. Alignment against the calendar
// origin is left to the ledger.
func (v *SpaceValidator) ValidateReservation(req *model.ReservationRequest) error {
	if err := v.structErrors(req); err != nil {
		return err
	}

	var errs ValidationErrors
	if req.End.Before(req.Start) {
		errs = append(errs, ValidationError{Field: "end", Message: "must not be before start"})
	} else if hours := req.End.Sub(req.Start).Hours(); v.maxReservationHours > 0 && hours >= float64(v.maxReservationHours) {
		errs = append(errs, ValidationError{
			Field:   "end",
			Message: fmt.Sprintf("reservation may span at most %d hours", v.maxReservationHours),
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *SpaceValidator) structErrors(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, 0, len(errs))
	for _, err := range errs {
		out = append(out, ValidationError{
			Field:   fieldPath(err.Namespace()),
			Message: message(err),
		})
	}
	return out
}

// fieldPath drops the root struct name from a namespace such as "Space.dimensions.width".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func message(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		if err.Kind() == reflect.String || err.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at least %s characters or items", err.Param())
		}
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		if err.Kind() == reflect.String || err.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at most %s characters or items", err.Param())
		}
		return fmt.Sprintf("must be at most %s", err.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", err.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", err.Param())
	case "e164":
		return "must be a phone number in E.164 format"
	case "mongodb":
		return "must be a valid object ID"
	default:
		return fmt.Sprintf("failed %q validation", err.Tag())
	}
}

func (v *SpaceValidator) validateBusinessRules(space *model.Space) error {
	var errs ValidationErrors

	if space.Seating.NumberOfSeats > 0 && space.NumberOfPeople > 0 && space.Seating.NumberOfSeats > space.NumberOfPeople {
		errs = append(errs, ValidationError{
			Field:   "seating.number_of_seats",
			Message: "cannot exceed number_of_people",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
