package validator

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatorCollectsErrors(t *testing.T) {
	var v Validator
	assert.True(t, v.Valid())

	v.CheckField(true, "email", "never")
	assert.True(t, v.Valid())

	v.CheckField(false, "email", "first")
	v.CheckField(false, "email", "second")
	assert.False(t, v.Valid())
	assert.Equal(t, "first", v.FieldErrors["email"])

	var other Validator
	other.AddNonFieldError("Email or password is incorrect")
	assert.False(t, other.Valid())
}

func TestStringRules(t *testing.T) {
	assert.False(t, NotBlank("   "))
	assert.True(t, NotBlank(" a "))

	assert.True(t, MinChars("ладду!", 6))
	assert.False(t, MinChars("abc", 6))
	assert.True(t, MaxChars("abc", 3))
	assert.False(t, MaxChars("abcd", 3))

	assert.True(t, Matches("abc", regexp.MustCompile(`^a`)))
}

func TestEmail(t *testing.T) {
	assert.True(t, Email("user@example.com"))
	assert.False(t, Email("user@"))
	assert.False(t, Email(""))
	assert.False(t, Email("plain"))
}

func TestPasswordRules(t *testing.T) {
	pw := "Secret123!"
	for _, rx := range []*regexp.Regexp{LowerRX, UpperRX, DigitRX, SpecialRX} {
		assert.True(t, Matches(pw, rx), rx.String())
	}

	assert.False(t, Matches("secret123!", UpperRX))
	assert.False(t, Matches("Secret123", SpecialRX))
	assert.False(t, Matches("Secret!", DigitRX))
	assert.False(t, Matches("SECRET1!", LowerRX))
}

func TestNumericRules(t *testing.T) {
	assert.True(t, GreaterOrEqual(0.0, 0.0))
	assert.False(t, GreaterOrEqual(-0.5, 0.0))
	assert.True(t, GreaterOrEqual(3, 1))
	assert.False(t, GreaterOrEqual(0, 1))
}
