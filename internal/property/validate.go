package property

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/imobly/imobly/internal/apperr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput checks required fields and ranges, returning a validation
// error callers can show as-is.
func validateInput(input *Input) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return apperr.Validation("invalid input")
	}

	return apperr.Validation("%s", fieldMessage(errs[0]))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	}
	return fmt.Sprintf("%s is invalid", field)
}
