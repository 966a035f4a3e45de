package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"feuerwehr-web/pkg/i18n"
)

var ErrEmailTaken = errors.New("email already registered")

// ValidationError reports rejected input. Key is a message catalog key; Field
// is passed to the message when it takes an argument.
type ValidationError struct {
	Field string
	Key   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Key
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Key)
}

// Message renders the error for the user in l.
func (e *ValidationError) Message(l i18n.Locale) string {
	switch e.Key {
	case "validation.required", "validation.too_long":
		return i18n.T(l, e.Key, e.Field)
	default:
		return i18n.T(l, e.Key)
	}
}

const minPasswordLength = 8

// emailPattern is local@domain.tld without whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("sitemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

// IsValidEmail accepts local@domain.tld with no whitespace.
func IsValidEmail(email string) bool {
	return validate.Var(email, "sitemail") == nil
}

// IsValidPassword requires at least eight characters.
func IsValidPassword(password string) bool {
	return validate.Var(password, fmt.Sprintf("min=%d", minPasswordLength)) == nil
}

// checkStruct validates s and converts the first failure into a
// ValidationError.
func checkStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Key: "validation.invalid"}
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: fe.Field(), Key: "validation.required"}
	case "sitemail", "email":
		return &ValidationError{Field: fe.Field(), Key: "validation.email"}
	case "max":
		return &ValidationError{Field: fe.Field(), Key: "validation.too_long"}
	case "min":
		return &ValidationError{Field: fe.Field(), Key: "validation.password"}
	default:
		return &ValidationError{Field: fe.Field(), Key: "validation.invalid"}
	}
}
