package validators

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Check runs struct-tag validation and returns a field -> message map,
// nil when the value is valid.
func Check(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"request": err.Error()}
	}

	messages := make(map[string]string, len(errs))
	for _, fe := range errs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages[field] = fmt.Sprintf("%s is required", field)
		case "min":
			messages[field] = fmt.Sprintf("%s must be at least %s", field, fe.Param())
		case "max":
			messages[field] = fmt.Sprintf("%s must be at most %s", field, fe.Param())
		case "oneof":
			messages[field] = fmt.Sprintf("%s must be one of: %s", field, fe.Param())
		case "email":
			messages[field] = fmt.Sprintf("%s must be a valid email", field)
		default:
			messages[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return messages
}
