package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/suteetoe/inventory-service/internal/apperr"
)

// RequestValidator plugs go-playground/validator into echo so handlers
// can call c.Validate on bound request structs.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return apperr.Validation("%v", err)
	}
	return nil
}
