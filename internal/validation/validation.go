// Package validation checks decoded JSON request payloads against ordered field rules.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Payload is a decoded JSON request body.
type Payload map[string]any

// FieldError describes one failed rule.
type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Value    any    `json:"value,omitempty"`
	Location string `json:"location,omitempty"`
}

// Errors is the ordered list of failed rules. Empty means valid.
type Errors []FieldError

// Rule checks a single field of a payload.
type Rule struct {
	Field   string
	Message string
	check   func(value any, present bool) bool
}

// Validate evaluates rules in order and collects one FieldError per failing rule.
func Validate(p Payload, rules ...Rule) Errors {
	var errs Errors
	for _, r := range rules {
		v, present := p[r.Field]
		if r.check(v, present) {
			continue
		}
		errs = append(errs, FieldError{
			Msg:      r.Message,
			Param:    r.Field,
			Value:    v,
			Location: "body",
		})
	}
	return errs
}

// String returns the payload value for key as a string. Non-string values
// are formatted; missing or null values yield "".
func String(p Payload, key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func asString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

// Required fails when the field is missing, null or blank.
func Required(field, msg string) Rule {
	return Rule{Field: field, Message: msg, check: func(v any, present bool) bool {
		s, ok := asString(v)
		return present && ok && strings.TrimSpace(s) != ""
	}}
}

// Exists fails only when the field is absent. Empty values pass.
func Exists(field, msg string) Rule {
	return Rule{Field: field, Message: msg, check: func(_ any, present bool) bool {
		return present
	}}
}

// Email fails unless the field is an email-shaped string.
func Email(field, msg string) Rule {
	return Rule{Field: field, Message: msg, check: func(v any, _ bool) bool {
		s, ok := v.(string)
		return ok && emailRegex.MatchString(strings.TrimSpace(s))
	}}
}

// MinLength fails when the field has fewer than n characters.
func MinLength(field string, n int, msg string) Rule {
	return Rule{Field: field, Message: msg, check: func(v any, _ bool) bool {
		s, ok := asString(v)
		return ok && utf8.RuneCountInString(s) >= n
	}}
}

// MaxLength fails when the field has more than n characters. Missing fields pass.
func MaxLength(field string, n int, msg string) Rule {
	return Rule{Field: field, Message: msg, check: func(v any, _ bool) bool {
		s, ok := asString(v)
		return !ok || utf8.RuneCountInString(s) <= n
	}}
}

// MaxBytes fails when the field is longer than n bytes. Missing fields pass.
func MaxBytes(field string, n int, msg string) Rule {
	return Rule{Field: field, Message: msg, check: func(v any, _ bool) bool {
		s, ok := asString(v)
		return !ok || len(s) <= n
	}}
}
