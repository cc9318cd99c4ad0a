package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerRules() []Rule {
	return []Rule{
		Required("name", "Name is required"),
		Email("email", "Please include a valid email"),
		MinLength("password", 6, "Please enter a password with 6 or more characters"),
	}
}

func TestValidate_Register(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		payload  Payload
		wantMsgs []string
	}{
		{"valid", Payload{"name": "Ann", "email": "a@x.com", "password": "secret1"}, nil},
		{"empty payload reports every field in rule order", Payload{}, []string{
			"Name is required",
			"Please include a valid email",
			"Please enter a password with 6 or more characters",
		}},
		{"blank name", Payload{"name": "   ", "email": "a@x.com", "password": "secret1"}, []string{"Name is required"}},
		{"bad email", Payload{"name": "Ann", "email": "not-an-email", "password": "secret1"}, []string{"Please include a valid email"}},
		{"short password", Payload{"name": "Ann", "email": "a@x.com", "password": "12345"}, []string{"Please enter a password with 6 or more characters"}},
		{"numeric email", Payload{"name": "Ann", "email": 12, "password": "secret1"}, []string{"Please include a valid email"}},
		{"null name", Payload{"name": nil, "email": "a@x.com", "password": "secret1"}, []string{"Name is required"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.payload, registerRules()...)
			var msgs []string
			for _, e := range errs {
				msgs = append(msgs, e.Msg)
				assert.Equal(t, "body", e.Location)
			}
			assert.Equal(t, tt.wantMsgs, msgs)
		})
	}
}

func TestValidate_FieldErrorCarriesParamAndValue(t *testing.T) {
	t.Parallel()
	errs := Validate(Payload{"email": "nope"}, Email("email", "Please include a valid email"))
	require.Len(t, errs, 1)
	assert.Equal(t, FieldError{Msg: "Please include a valid email", Param: "email", Value: "nope", Location: "body"}, errs[0])
}

func TestExists(t *testing.T) {
	t.Parallel()
	rule := Exists("password", "Password is required")
	assert.Empty(t, Validate(Payload{"password": ""}, rule))
	assert.Len(t, Validate(Payload{}, rule), 1)
}

func TestMaxLength(t *testing.T) {
	t.Parallel()
	rule := MaxLength("text", 5, "Text is too long")
	assert.Empty(t, Validate(Payload{}, rule))
	assert.Empty(t, Validate(Payload{"text": "héllo"}, rule))
	assert.Len(t, Validate(Payload{"text": strings.Repeat("x", 6)}, rule), 1)
}

func TestString(t *testing.T) {
	t.Parallel()
	p := Payload{"text": " hi ", "n": 3.5, "null": nil}
	assert.Equal(t, " hi ", String(p, "text"))
	assert.Equal(t, "3.5", String(p, "n"))
	assert.Equal(t, "", String(p, "null"))
	assert.Equal(t, "", String(p, "missing"))
}

func TestEmail(t *testing.T) {
	t.Parallel()
	rule := Email("email", "Please include a valid email")
	tests := []struct {
		email any
		valid bool
	}{
		{"test@example.com", true},
		{"user.name+tag@domain.co.uk", true},
		{"  padded@example.com  ", true},
		{"invalid-email", false},
		{"@domain.com", false},
		{"user@", false},
		{"", false},
		{nil, false},
	}
	for _, tt := range tests {
		errs := Validate(Payload{"email": tt.email}, rule)
		assert.Equal(t, tt.valid, len(errs) == 0, "email %v", tt.email)
	}
}

func TestMaxBytes(t *testing.T) {
	t.Parallel()
	rule := MaxBytes("password", 72, "Password must be at most 72 bytes")
	assert.Empty(t, Validate(Payload{}, rule))
	assert.Empty(t, Validate(Payload{"password": strings.Repeat("x", 72)}, rule))
	assert.Len(t, Validate(Payload{"password": strings.Repeat("x", 73)}, rule), 1)
	// 40 runes, 80 bytes
	assert.Len(t, Validate(Payload{"password": strings.Repeat("é", 40)}, rule), 1)
	assert.Empty(t, Validate(Payload{"password": strings.Repeat("é", 40)}, MaxLength("password", 72, "too long")))
}
