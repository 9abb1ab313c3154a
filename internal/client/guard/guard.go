// Package guard runs the request binding rules locally, before a call is
// sent, so the console rejects incomplete input without a round trip.
package guard

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/SscSPs/treasury_backoffice/internal/apperrors"
	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// engine reads the same `binding` tags gin uses on the server and reports
// fields by their JSON name.
func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.SetTagName("binding")
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// FieldError is a validation failure carrying per-field messages keyed by
// JSON field name. It matches apperrors.ErrValidation.
type FieldError struct {
	Fields map[string]string
}

func (e *FieldError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, f := range names {
		parts[i] = f + ": " + e.Fields[f]
	}
	return fmt.Sprintf("%s: %s", apperrors.ErrValidation, strings.Join(parts, "; "))
}

func (e *FieldError) Is(target error) bool { return target == apperrors.ErrValidation }

// Check validates v against its binding tags.
func Check(v any) error {
	err := engine().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg := fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		fields[fe.Field()] = msg
	}
	return &FieldError{Fields: fields}
}

// Require returns a FieldError for field when value is blank.
func Require(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &FieldError{Fields: map[string]string{field: "required"}}
	}
	return nil
}
