package controllers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"clanci-blog/internal/utils"
)

// RegisterValidators installs the custom binding tags. Call it once before
// serving requests.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	return v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return utils.StrongPassword(fl.Field().String())
	})
}

// bindMessage turns a binding error into something a user can act on.
func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request body"
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "invalid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be not more than %s characters", field, fe.Param())
	case "alphanum":
		return fmt.Sprintf("%s must not contain special characters", field)
	case "strongpassword":
		return "password must be at least 8 characters and contain an uppercase letter, a number and a special character"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
