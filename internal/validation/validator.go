package validation

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator adapts go-playground/validator to echo's Validator hook so
// handlers can call c.Validate(req) on bound DTOs.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New()}
}

// Validate returns a 400 HTTPError naming the first failing field, so
// handlers can pass the error straight back to echo.
func (v *Validator) Validate(i interface{}) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}
	if fields, ok := err.(validator.ValidationErrors); ok && len(fields) > 0 {
		return echo.NewHTTPError(http.StatusBadRequest, echo.Map{
			"error": "invalid_input",
			"field": fields[0].Field(),
		})
	}
	return echo.NewHTTPError(http.StatusBadRequest, echo.Map{"error": "invalid_input"})
}
