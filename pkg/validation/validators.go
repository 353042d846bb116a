package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// Allow letters, numbers, spaces, and common professional punctuation: . ' - / & ( ) ,
	nameRegex = regexp.MustCompile(`^[\p{L}\p{M}0-9 .'/&(),-]+$`)

	// E164-like phone: optional +, digits 7-15 length
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

	// Separators people put in phone numbers
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
)

// New returns a validator with the custom rules registered
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
}

// ValidName validates that a string contains only valid name characters
func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Optional, use required if needed
	}
	return IsValidName(val)
}

// ValidPhone validates a phone number structure
func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return IsValidPhone(val)
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	return !ContainsEmoji(fl.Field().String())
}

// IsValidName reports whether s is made only of name characters
func IsValidName(s string) bool {
	return nameRegex.MatchString(strings.TrimSpace(s))
}

// IsValidPhone accepts common separators, then checks the E164-like shape
func IsValidPhone(s string) bool {
	return phoneRegex.MatchString(NormalizePhone(s))
}

// NormalizePhone strips spaces, dashes, dots and parentheses
func NormalizePhone(s string) string {
	return phoneSeparators.Replace(strings.TrimSpace(s))
}

// ContainsEmoji reports whether s has emoji or pictographic symbols
func ContainsEmoji(s string) bool {
	for _, r := range s {
		// Supplementary planes are mostly emoji/symbols
		if r > 0x1F000 {
			return true
		}
		if unicode.In(r, unicode.So, unicode.Sk) { // Symbol, other / Symbol, modifier
			return true
		}
		// Variation selectors and zero width joiner glue emoji sequences together
		if r == 0x200D || (r >= 0xFE00 && r <= 0xFE0F) {
			return true
		}
	}
	return false
}
