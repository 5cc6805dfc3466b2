package validator

import (
	"regexp"
	"strings"
	"unicode/utf8"

	playground "github.com/go-playground/validator/v10"
)

var (
	LowerRX   = regexp.MustCompile(`[a-z]`)
	UpperRX   = regexp.MustCompile(`[A-Z]`)
	DigitRX   = regexp.MustCompile(`[0-9]`)
	SpecialRX = regexp.MustCompile(`[^a-zA-Z0-9]`)

	validate = playground.New()
)

// Validator collects per-field and form-wide errors for a submitted form.
type Validator struct {
	NonFieldErrors []string
	FieldErrors    map[string]string
}

func (v *Validator) Valid() bool {
	return len(v.FieldErrors) == 0 && len(v.NonFieldErrors) == 0
}

// AddFieldError keeps the first message recorded for a field.
func (v *Validator) AddFieldError(key, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}

	if _, exists := v.FieldErrors[key]; !exists {
		v.FieldErrors[key] = message
	}
}

func (v *Validator) AddNonFieldError(message string) {
	v.NonFieldErrors = append(v.NonFieldErrors, message)
}

func (v *Validator) CheckField(ok bool, key, message string) {
	if !ok {
		v.AddFieldError(key, message)
	}
}

func NotBlank(value string) bool {
	return strings.TrimSpace(value) != ""
}

func MinChars(value string, n int) bool {
	return utf8.RuneCountInString(value) >= n
}

func MaxChars(value string, n int) bool {
	return utf8.RuneCountInString(value) <= n
}

func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}

// Email uses the same rules as `binding:"email"` on the API side.
func Email(value string) bool {
	return validate.Var(value, "required,email") == nil
}

func GreaterOrEqual[T int | float64](value, min T) bool {
	return value >= min
}
