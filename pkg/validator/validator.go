package validator

import (
	"time"

	"family-health-dashboard/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterValidation("dosage", validateDosage)
	v.RegisterValidation("hhmm", validateHHMM)
	return &CustomValidator{
		validator: v,
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func validateDosage(fl validator.FieldLevel) bool {
	return entity.Dosage(fl.Field().String()).Valid()
}

// validateHHMM accepts a 24h "HH:MM" clock time.
func validateHHMM(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if len(value) != len("15:04") {
		return false
	}
	_, err := time.Parse("15:04", value)
	return err == nil
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "min":
				errors[field] = field + " must be at least " + e.Param()
			case "max":
				errors[field] = field + " must be at most " + e.Param()
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "oneof":
				errors[field] = field + " must be one of " + e.Param()
			case "dosage":
				errors[field] = field + " must be one of: Once a day, Twice a day, Thrice a day, Once a week"
			case "hhmm":
				errors[field] = field + " must be a time formatted as HH:MM"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}
