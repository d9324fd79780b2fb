package manifest

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	portNamePattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// validatorInstance configures and returns the shared validator used for
// manifest validation.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("port_name", func(fl validator.FieldLevel) bool {
			return portNamePattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}
