// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// tickerRegex matches normalized ticker symbols: 1-10 uppercase alphanumerics.
var tickerRegex = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("ticker", validateTicker)
	}
}

func validateTicker(fl validator.FieldLevel) bool {
	return tickerRegex.MatchString(fl.Field().String())
}
