package checkout

import (
	"regexp"

	"github.com/dinithim/storefront-checkout/internal/entities"
	"github.com/dinithim/storefront-checkout/pkg/utils"

	"github.com/go-playground/validator/v10"
)

// Optional leading +, then 2-15 digits, first digit 1-9.
var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := utils.NewValidator()
	// e164 demands a leading +, the storefront contract makes it optional
	v.RegisterValidation("intl_phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// validateAddress reports every field violation at once so the shopper can
// fix the whole form in one pass.
func validateAddress(addr entities.Address) error {
	if err := validate.Struct(addr); err != nil {
		return &entities.ValidationError{Fields: utils.FieldErrors(err)}
	}
	return nil
}
