// Package repository owns record lifecycle in the document store: field
// validation, identifier parsing and CRUD per resource type. It never
// touches the asset store.
package repository

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"devfolio/internal/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Phone numbers are digits plus common punctuation, at least 7 digits.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		digits := 0
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsDigit(r):
				digits++
			case strings.ContainsRune("+-() .", r):
			default:
				return false
			}
		}
		return digits >= 7
	})

	return v
}

// checkInput runs tag validation and converts failures into the
// ValidationError the HTTP layer maps to 400.
func checkInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperr.Validationf("field %s is missing or malformed (rule %s)", strings.ToLower(fe.Field()), fe.Tag())
	}
	return apperr.Validationf("invalid input: %v", err)
}

// ParseID converts a path parameter into a primary key. Malformed
// identifiers are rejected here, before any store access.
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("parse id %q: %w", raw, apperr.ErrInvalidID)
	}
	return uint(id), nil
}
