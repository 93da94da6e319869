package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alpha-aviation/enrollment-service/internal/models"
)

// registerBusinessRules registers the enrollment-specific tags
func (v *Validator) registerBusinessRules() {
	v.validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	v.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).IsValid()
	})

	v.validate.RegisterValidation("payment_record_status", func(fl validator.FieldLevel) bool {
		return models.PaymentRecordStatus(fl.Field().String()).IsValid()
	})
}
