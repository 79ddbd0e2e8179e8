// Package validate runs declarative per-field rule-sets against request
// payloads before any handler logic executes. A rule-set is the request
// type itself: constraints are declared as `validate` struct tags and
// evaluated uniformly, so every field is checked independently and all
// violations are reported at once.
package validate

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/inkpost/inkpost/internal/platform/httpx"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func shared() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		// Report json field names instead of Go struct names.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		instance = v
	})
	return instance
}

// FieldErrors is the ordered list of violations produced by a rule-set.
type FieldErrors struct {
	Fields []httpx.FieldError
}

// Error satisfies the error interface.
func (e *FieldErrors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap ties field errors into the shared validation sentinel.
func (e *FieldErrors) Unwrap() error {
	return httpx.ErrValidation
}

// Check evaluates the payload's rule-set. It returns nil when every
// field passes, or a *FieldErrors carrying one entry per violation.
// Checking is side-effect free and never short-circuits.
func Check(payload any) error {
	err := shared().Struct(payload)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := &FieldErrors{Fields: make([]httpx.FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, httpx.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "url":
		return "must be a valid URL"
	default:
		return "is invalid"
	}
}
