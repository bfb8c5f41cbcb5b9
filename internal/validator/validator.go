// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("trendline_type", validateTrendlineType)
		_ = v.RegisterValidation("forecast_method", validateForecastMethod)
		_ = v.RegisterValidation("hire_month", validateHireMonth)
	}
}

func validateTrendlineType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "linear", "logarithmic", "polynomial":
		return true
	}
	return false
}

func validateForecastMethod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "growth", "capacity", "collection", "average", "custom":
		return true
	}
	return false
}

func validateHireMonth(fl validator.FieldLevel) bool {
	month := fl.Field().Int()
	return month >= 1 && month <= 12
}
