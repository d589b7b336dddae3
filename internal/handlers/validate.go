package handlers

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Field errors carry the client-facing message from the msg tag.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("msg")
	})

	// A zero price counts as missing.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok && !d.IsZero() {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// validateRequired checks payload's fields in declaration order and reports only the first failure.
func validateRequired(payload interface{}) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fiber.NewError(fiber.StatusBadRequest, fieldErrs[0].Field())
	}

	return err
}
