package sourcechain

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	argValidator *validator.Validate
	once         sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		argValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return argValidator
}

// validateArgs runs struct-tag validation over an operator's
// construction arguments, wrapping the first failing field into
// ErrInvalidArgument so callers get one consistent sentinel regardless
// of which operator rejected its input.
func validateArgs(args any) error {
	if err := getValidator().Struct(args); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			return fmt.Errorf("%w: %s %s", ErrInvalidArgument, fieldErrs[0].Field(), fieldErrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return nil
}
