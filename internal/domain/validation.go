package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Field names reported in violations. They match the JSON field names.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPriority    = "priority"
	FieldStatus      = "status"
	FieldCreatedAt   = "createdAt"
	FieldDueDate     = "dueDate"
	FieldResolvedAt  = "resolvedAt"
)

// payloadValidator checks the static constraints declared as struct tags.
var payloadValidator = newPayloadValidator()

func newPayloadValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateTaskPayload checks a create or update payload against every field
// rule. It returns nil or a *ValidationError listing all violations, and it
// has no side effects: the same payload and now always yield the same result.
func ValidateTaskPayload(p TaskPayload, now time.Time) error {
	verr := &ValidationError{Err: ErrValidation}

	if err := payloadValidator.Struct(p); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), violationMessage(fe))
		}
	}

	if p.CreatedAt != nil && p.CreatedAt.After(now) {
		verr.Add(FieldCreatedAt, "must not be in the future")
	}
	if p.DueDate != nil && !p.DueDate.After(now) {
		verr.Add(FieldDueDate, "must be in the future")
	}
	// resolvedAt is a target resolution time, so it follows the dueDate rule.
	if p.ResolvedAt != nil && !p.ResolvedAt.After(now) {
		verr.Add(FieldResolvedAt, "must be in the future")
	}

	if verr.HasViolations() {
		return verr
	}
	return nil
}

// violationMessage turns a validator tag failure into a client-safe message.
func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return "is invalid"
	}
}
