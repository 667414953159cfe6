package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator adapts go-playground/validator to echo's Validator
// interface. Handlers bind then validate their request DTOs before anything
// reaches the core services.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates the validator used by the echo instance.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator.
func (v *RequestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// fieldIssue is one field-level validation failure, reported in the error
// envelope's details.
type fieldIssue struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// bindAndValidate decodes the request body into req and validates it.
// On failure it writes the 400 envelope and returns false.
func bindAndValidate(c echo.Context, req any) bool {
	if err := c.Bind(req); err != nil {
		_ = c.JSON(http.StatusBadRequest, envelope{
			Error: &apiError{Message: "Invalid request body"},
		})
		return false
	}

	if err := c.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			issues := make([]fieldIssue, len(verrs))
			for i, fe := range verrs {
				issues[i] = fieldIssue{Field: fe.Field(), Rule: fe.Tag()}
			}
			_ = respondValidation(c, issues)
			return false
		}
		_ = respondValidation(c, nil)
		return false
	}
	return true
}
