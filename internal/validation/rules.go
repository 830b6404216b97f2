// Package validation is a small rule engine shared by the domain entities and
// the application commands. A rule pairs a predicate with the field it guards
// and the message reported when the predicate fails.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// FieldError is a single failed rule
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result collects every failed rule of a run
type Result struct {
	IsValid bool         `json:"isValid"`
	Errors  []FieldError `json:"errors"`
}

// FieldMap groups messages by field. Messages for the same field are joined with "; ".
func (r Result) FieldMap() map[string]string {
	fields := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		if existing, ok := fields[e.Field]; ok {
			fields[e.Field] = existing + "; " + e.Message
			continue
		}
		fields[e.Field] = e.Message
	}
	return fields
}

// Messages returns the failure messages in rule order
func (r Result) Messages() []string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

// HasMessage reports whether any failure carries message
func (r Result) HasMessage(message string) bool {
	for _, e := range r.Errors {
		if e.Message == message {
			return true
		}
	}
	return false
}

type rule[T any] struct {
	field   string
	message string
	valid   func(T) bool
}

// RuleSet is an ordered list of rules over T. Runs never short circuit.
type RuleSet[T any] struct {
	rules  []rule[T]
	nested []func(T) []FieldError
}

// NewRuleSet creates an empty rule set
func NewRuleSet[T any]() *RuleSet[T] {
	return &RuleSet[T]{}
}

// Rule appends a rule; valid returning false reports message on field
func (s *RuleSet[T]) Rule(field, message string, valid func(T) bool) *RuleSet[T] {
	s.rules = append(s.rules, rule[T]{field: field, message: message, valid: valid})
	return s
}

// String appends a rule over a string field of T
func (s *RuleSet[T]) String(field, message string, get func(T) string, check func(string) bool) *RuleSet[T] {
	return s.Rule(field, message, func(v T) bool { return check(get(v)) })
}

// Each validates every element returned by items with inner, prefixing field
// names with "<field>[i].".
func Each[T, E any](s *RuleSet[T], field string, items func(T) []E, inner *RuleSet[E]) *RuleSet[T] {
	s.nested = append(s.nested, func(v T) []FieldError {
		var errs []FieldError
		for i, item := range items(v) {
			for _, e := range inner.Validate(item).Errors {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("%s[%d].%s", field, i, e.Field),
					Message: e.Message,
				})
			}
		}
		return errs
	})
	return s
}

// Validate runs every rule against value
func (s *RuleSet[T]) Validate(value T) Result {
	var errs []FieldError
	for _, r := range s.rules {
		if !r.valid(value) {
			errs = append(errs, FieldError{Field: r.field, Message: r.message})
		}
	}
	for _, n := range s.nested {
		errs = append(errs, n(value)...)
	}
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

// NotBlank reports whether s has non-whitespace content
func NotBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

// MaxLen returns a check that s is at most n characters long
func MaxLen(n int) func(string) bool {
	return func(s string) bool {
		return utf8.RuneCountInString(s) <= n
	}
}
