package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func Validate[T any](value T) (T, error) {
	if err := validate.Struct(value); err != nil {
		return value, ValidationErrorToString(value, err)
	}

	return value, nil
}

func ValidateValue(value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return ValidationErrorToString(value, err)
	}
	return nil
}

func ValidationErrorToString(input any, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var msg strings.Builder
	for _, fe := range verrs {
		fmt.Fprintf(&msg, "\n • Failed %T validation for field '%s': rule '%s' expected '%s', got '%v'.", input, fe.Namespace(), fe.Tag(), fe.Param(), fe.Value())
	}
	return errors.New(msg.String())
}
