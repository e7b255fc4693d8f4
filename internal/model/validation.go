package model

import (
	"github.com/go-playground/validator/v10"
)

// RegisterValidations adds the domain validation tags to v.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("inputsource", func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(InputSource)
		return ok && s.Valid()
	})
}
