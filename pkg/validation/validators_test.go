package validation_test

import (
	"testing"

	"go-ats-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidPhone(t *testing.T) {
	cases := map[string]bool{
		"+14155550123":      true,
		"(415) 555-0123":    true,
		"415.555.0123":      true,
		"+44 20 7946 0958":  true,
		"12345":             false,
		"call me maybe":     false,
		"+1 415 555 0123 x": false,
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, validation.IsValidPhone(in))
		})
	}
}

func TestContainsEmoji(t *testing.T) {
	assert.False(t, validation.ContainsEmoji("Reduced latency by 30%"))
	assert.False(t, validation.ContainsEmoji("José Müller"))
	assert.True(t, validation.ContainsEmoji("Shipped 🚀 the release"))
	assert.True(t, validation.ContainsEmoji("Led team ★ of five"))
}

func TestIsValidName(t *testing.T) {
	assert.True(t, validation.IsValidName("Jane Doe"))
	assert.True(t, validation.IsValidName("Zoë O'Neil-Smith"))
	assert.False(t, validation.IsValidName("Jane <Doe>"))
	assert.False(t, validation.IsValidName("Jane 😀"))
}

func TestFormatValidationErrors(t *testing.T) {
	type payload struct {
		TargetRole string   `validate:"max=5,no_emoji"`
		Keywords   []string `validate:"max=1"`
	}
	v := validation.New()

	err := v.Struct(payload{TargetRole: "SRE 🚀", Keywords: []string{"Go", "SQL"}})
	require.Error(t, err)

	msgs := validation.FormatValidationErrors(err)
	assert.Contains(t, msgs, "Target role: must be at most 5 characters")
	assert.Contains(t, msgs, "Keywords: must have at most 1 entries")

	err = v.Struct(payload{TargetRole: "SRE ★"})
	require.Error(t, err)
	assert.Equal(t, []string{"Target role: must not contain emoji or special symbols"}, validation.FormatValidationErrors(err))
}

func TestRegisteredTags(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Var("Zoë O'Neil", "valid_name,no_emoji"))
	assert.Error(t, v.Var("Jane <Doe>", "valid_name"))
	assert.NoError(t, v.Var("(415) 555-0123", "valid_phone"))
	assert.Error(t, v.Var("12345", "valid_phone"))
	assert.NoError(t, v.Var("", "valid_phone"))
	assert.Error(t, v.Var("Shipped 🚀", "no_emoji"))
}
