package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gooddeal/storefront/internal/core/domain"
	"github.com/gooddeal/storefront/pkg/form"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator with the storefront field rules
// registered as tags.
func NewValidator() (*echoValidator, error) {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})
	if err := form.RegisterValidations(v); err != nil {
		return nil, err
	}
	return &echoValidator{v: v}, nil
}

// Validate satisfies the echo.Validator interface. Failures wrap
// domain.ErrInvalidInput so the error handler answers 400.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// tagMessages completes "<field> ..." for tags without a parameter.
var tagMessages = map[string]string{
	"required":             "is required",
	"email":                "must be a valid email",
	form.TagPersonName:     "must be a name of at most 32 letters",
	form.TagPhone:          "must be a 10 or 11 digit phone number",
	form.TagEmailOrPhone:   "must be an email or a phone number",
	form.TagStrongPassword: "must have at least 6 characters mixing upper case, lower case, digits and @$!%*?&",
	form.TagAddress:        "contains invalid characters or is too long",
	form.TagAnything:       "contains invalid characters or is too long",
	form.TagBio:            "contains invalid characters or is too long",
	form.TagNonNegative:    "must be zero or positive",
	form.TagRating:         "must be between 1 and 5",
}

// paramMessages are formats taking the tag parameter.
var paramMessages = map[string]string{
	"gt":    "must be greater than %s",
	"min":   "must be at least %s",
	"oneof": "must be one of: %s",
}

func fieldError(fe validator.FieldError) string {
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return fe.Field() + " " + msg
	}
	if format, ok := paramMessages[fe.Tag()]; ok {
		return fe.Field() + " " + fmt.Sprintf(format, fe.Param())
	}
	return fmt.Sprintf("%s failed validation (%s)", fe.Field(), fe.Tag())
}
