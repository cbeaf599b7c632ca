package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a request payload, failures wrap ErrValidation with one message per field.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), rootNamespace(fe))
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		switch fe.Kind() {
		case reflect.Slice, reflect.Map:
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		case reflect.String:
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		default:
			return fmt.Sprintf("%s must be at least %s", field, fe.Param())
		}
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "eqfield":
		return field + " does not match"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

func rootNamespace(fe validator.FieldError) string {
	root, _, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return ""
	}
	return root + "."
}
