package validator

import (
	"errors"
	"fmt"
	"hitcounter/pkg/logger"
	"hitcounter/pkg/model"
	"hitcounter/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

const tagNoPII = "no_pii"

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
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

// HasField reports whether any error concerns the given JSON field.
func (v ValidationErrors) HasField(field string) bool {
	for _, e := range v {
		if e.Field == field {
			return true
		}
	}
	return false
}

// EventValidator checks the normalized event before it is written. It is the
// last guard for the storage invariants, not a substitute for normalization.
type EventValidator struct {
	validate *validator.Validate
}

func NewEventValidator(log *logger.Logger) *EventValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation(tagNoPII, noPII); err != nil {
		log.Fatal("Failed to register no_pii validator", "error", err)
	}

	return &EventValidator{
		validate: v,
	}
}

func (v *EventValidator) Validate(ev *model.Event) error {
	if err := v.validate.Struct(ev); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var out ValidationErrors
	for _, err := range errs {
		out = append(out, ValidationError{
			Field:   err.Field(),
			Tag:     err.Tag(),
			Message: message(err),
		})
	}
	return out
}

func message(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", err.Param())
	case tagNoPII:
		return "must not contain an IP address or email"
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}

func noPII(fl validator.FieldLevel) bool {
	return !sanitizer.ContainsPII(fl.Field().String())
}
