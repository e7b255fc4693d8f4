package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/sanctuarysound/api/internal/model"
)

// NewValidator returns a validator with the domain tags registered.
func NewValidator() (*validator.Validate, error) {
	v := validator.New()
	if err := model.RegisterValidations(v); err != nil {
		return nil, err
	}
	return v, nil
}

// formatValidationErrors maps namespaced field paths to the failed tag.
func formatValidationErrors(err error) interface{} {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			fields[e.Namespace()] = e.Tag()
		}
		return fields
	}
	return nil
}
