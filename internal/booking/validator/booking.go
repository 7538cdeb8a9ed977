package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"staybook/pkg/logger"
	"staybook/pkg/model"
)

const (
	dateLayout = "2006-01-02"

	MsgSelectLocation   = "Please select a location."
	MsgLocationOrHotels = "Search by a location or by hotel ids, not both."
	MsgGuestFields      = "Please fill all required guest fields."
	MsgNoRoom           = "No room selected. Please go back and choose a rate."
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

// Details maps each field to its message for error responses.
func (v ValidationErrors) Details() map[string]any {
	out := make(map[string]any, len(v))
	for _, err := range v {
		out[err.Field] = err.Message
	}
	return out
}

type BookingValidator struct {
	validate     *validator.Validate
	logger       *logger.Logger
	maxChildAges int
}

func NewBookingValidator(log *logger.Logger, maxChildAges int) *BookingValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	log.Debug("Booking validator initialized", "max_child_ages", maxChildAges)

	return &BookingValidator{
		validate:     v,
		logger:       log,
		maxChildAges: maxChildAges,
	}
}

// ValidateQuery checks a search form. Child ages beyond the product limit are
// dropped before validation rather than rejected.
func (v *BookingValidator) ValidateQuery(q *model.SearchQuery) error {
	if q.LocationID == "" && len(q.HotelIDs) == 0 {
		return ValidationErrors{{Field: "location", Message: MsgSelectLocation}}
	}
	if q.LocationID != "" && len(q.HotelIDs) > 0 {
		return ValidationErrors{{Field: "location", Message: MsgLocationOrHotels}}
	}
	if len(q.Occupancy.ChildAges) > v.maxChildAges {
		q.Occupancy.ChildAges = q.Occupancy.ChildAges[:v.maxChildAges]
	}

	if err := v.validate.Struct(q); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs, "")
		}
		return err
	}

	checkIn, _ := time.Parse(dateLayout, q.CheckIn)
	checkOut, _ := time.Parse(dateLayout, q.CheckOut)
	if !checkOut.After(checkIn) {
		return ValidationErrors{
			ValidationError{
				Field:   "checkOut",
				Message: "checkOut must be after checkIn",
			},
		}
	}
	return nil
}

// ValidateGuests requires one filled record per room. PAN is required only
// when the guest rules say so.
func (v *BookingValidator) ValidateGuests(guests []model.GuestRecord, rooms int, rules model.GuestRules) error {
	if rooms == 0 {
		return ValidationErrors{{Field: "roomIds", Message: MsgNoRoom}}
	}

	var out ValidationErrors
	for i := 0; i < rooms; i++ {
		prefix := fmt.Sprintf("guests[%d].", i)
		if i >= len(guests) {
			out = append(out, ValidationError{Field: fmt.Sprintf("guests[%d]", i), Message: "guest details are required"})
			continue
		}

		g := guests[i]
		if err := v.validate.Struct(&g); err != nil {
			var validationErrs validator.ValidationErrors
			if !errors.As(err, &validationErrs) {
				return err
			}
			out = append(out, v.translateValidationErrors(validationErrs, prefix)...)
		}
		if rules.PANMandatory && g.PANNumber == "" {
			out = append(out, ValidationError{Field: prefix + "panNumber", Message: "panNumber is required"})
		}
	}

	if len(out) > 0 {
		return out
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors, prefix string) ValidationErrors {
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
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   prefix + fieldPath(err.Namespace()),
			Message: message,
		})
	}

	return validationErrors
}

// fieldPath drops the struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
