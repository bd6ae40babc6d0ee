// Package form holds the field rules and the submit state machine shared by
// the storefront forms. The same rules back the server's request validation,
// so a value accepted by a form is accepted by the API.
package form

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Rule names accepted by Test. Alternatives are joined with "|", for example
// "email|phone".
const (
	RuleName     = "name"
	RuleEmail    = "email"
	RulePhone    = "phone"
	RulePassword = "password"
	RuleAnything = "anything"
	RuleBio      = "bio"
	RuleNullable = "nullable"
	RuleAddress  = "address"
)

// Number rule names accepted by Number.
const (
	NumPositive = "positive"
	NumZero     = "zero"
	NumNegative = "negative"
	NumOneTo5   = "oneTo5"
)

const passwordSpecials = "@$!%*?&"

var (
	nameRe    = regexp.MustCompile(`^[\p{L}][\p{L} '.-]*$`)
	emailRe   = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)*\.[A-Za-z]{2,}$`)
	phoneRe   = regexp.MustCompile(`^\d{10,11}$`)
	addressRe = regexp.MustCompile(`^[\p{L}\p{N}][\p{L}\p{N} ,./#-]*$`)
)

type textRule func(string) bool

var textRules = map[string]textRule{
	RuleName: func(s string) bool {
		return runeLen(s) <= 32 && nameRe.MatchString(s)
	},
	RuleEmail:    emailRe.MatchString,
	RulePhone:    phoneRe.MatchString,
	RulePassword: validPassword,
	RuleAnything: func(s string) bool {
		return strings.TrimSpace(s) != "" && runeLen(s) <= 300
	},
	RuleBio: func(s string) bool {
		return strings.TrimSpace(s) != "" && runeLen(s) <= 3000
	},
	RuleNullable: func(s string) bool {
		return runeLen(s) <= 3000
	},
	RuleAddress: func(s string) bool {
		return runeLen(s) <= 200 && addressRe.MatchString(s)
	},
}

// Test reports whether value satisfies rule. A rule of the form "a|b" passes
// when any alternative passes. Unknown rules never pass.
func Test(rule, value string) bool {
	for _, name := range strings.Split(rule, "|") {
		if fn, ok := textRules[name]; ok && fn(value) {
			return true
		}
	}
	return false
}

// Number reports whether value parses as a number satisfying rule, which may
// also be a "|" alternation such as "positive|zero".
func Number(rule, value string) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return NumberDecimal(rule, d)
}

func NumberDecimal(rule string, d decimal.Decimal) bool {
	for _, name := range strings.Split(rule, "|") {
		switch name {
		case NumPositive:
			if d.IsPositive() {
				return true
			}
		case NumZero:
			if d.IsZero() {
				return true
			}
		case NumNegative:
			if d.IsNegative() {
				return true
			}
		case NumOneTo5:
			if d.IsInteger() && d.GreaterThanOrEqual(decimal.NewFromInt(1)) && d.LessThanOrEqual(decimal.NewFromInt(5)) {
				return true
			}
		}
	}
	return false
}

// Identity splits a sign-in username into its email or phone form. Exactly one
// of the results is non-empty when the username is valid.
func Identity(username string) (email, phone string) {
	username = strings.TrimSpace(username)
	switch {
	case Test(RuleEmail, username):
		return username, ""
	case Test(RulePhone, username):
		return "", username
	}
	return "", ""
}

func validPassword(s string) bool {
	if len(s) < 6 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range s {
		switch {
		case r > unicode.MaxASCII:
			return false
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}
	return upper && lower && digit && special
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }

// Validator tags registered by RegisterValidations.
const (
	TagPersonName     = "person_name"
	TagPhone          = "vn_phone"
	TagEmailOrPhone   = "email_or_phone"
	TagStrongPassword = "strong_password"
	TagAnything       = "anything"
	TagBio            = "bio"
	TagNullable       = "nullable"
	TagAddress        = "address"
	TagNonNegative    = "nonneg_number"
	TagRating         = "rating"
)

// RegisterValidations installs the form rules as go-playground validator tags.
func RegisterValidations(v *validator.Validate) error {
	text := map[string]string{
		TagPersonName:     RuleName,
		TagPhone:          RulePhone,
		TagEmailOrPhone:   RuleEmail + "|" + RulePhone,
		TagStrongPassword: RulePassword,
		TagAnything:       RuleAnything,
		TagBio:            RuleBio,
		TagNullable:       RuleNullable,
		TagAddress:        RuleAddress,
	}
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		if d, ok := f.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	for tag, rule := range text {
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return Test(rule, fl.Field().String())
		}); err != nil {
			return err
		}
	}

	if err := v.RegisterValidation(TagNonNegative, numberTag(NumPositive+"|"+NumZero)); err != nil {
		return err
	}
	return v.RegisterValidation(TagRating, numberTag(NumOneTo5))
}

func numberTag(rule string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		f := fl.Field()
		switch f.Kind() {
		case reflect.String:
			return Number(rule, f.String())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return NumberDecimal(rule, decimal.NewFromInt(f.Int()))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return Number(rule, strconv.FormatUint(f.Uint(), 10))
		case reflect.Float32, reflect.Float64:
			return NumberDecimal(rule, decimal.NewFromFloat(f.Float()))
		}
		return false
	}
}
