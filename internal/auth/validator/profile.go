// Package validator checks profile update payloads before any write happens.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/dto"
	autherror "github.com/AnthoniusHendriyanto/realm-auth/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Result is the outcome of validating a payload. An empty Violations slice
// means the payload is valid.
type Result struct {
	Violations []autherror.Violation
}

func (r Result) Valid() bool {
	return len(r.Violations) == 0
}

// Err returns a *errors.ValidationError for an invalid result and nil otherwise.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return autherror.NewValidationError(r.Violations)
}

type ProfileValidator struct {
	validate *validator.Validate
}

func NewProfileValidator() *ProfileValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so clients can map them back.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank validation: %v", err))
	}
	return &ProfileValidator{validate: v}
}

// Validate reports every invalid field in the payload, not just the first.
func (pv *ProfileValidator) Validate(input dto.ProfileInput) Result {
	err := pv.validate.Struct(input)
	if err == nil {
		return Result{}
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Result{Violations: []autherror.Violation{{Field: "", Reason: err.Error()}}}
	}

	violations := make([]autherror.Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, autherror.Violation{
			Field:  fe.Field(),
			Reason: reason(fe),
		})
	}
	return Result{Violations: violations}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
