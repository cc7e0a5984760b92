package common

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// ValidationError maps each invalid field to the first problem found with it.
type ValidationError struct {
	Errors map[string]string
}

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Errors[f]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

type Validator struct {
	Errors map[string]string
}

func NewValidator() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) AddError(field, message string) {
	if _, ok := v.Errors[field]; !ok {
		v.Errors[field] = message
	}
}

func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// NotBlank reports whether s has anything besides white space.
func NotBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

// MaxChars counts characters, not bytes.
func MaxChars(s string, n int) bool {
	return utf8.RuneCountInString(s) <= n
}

func (v *Validator) ValidationError() error {
	return ValidationError{Errors: v.Errors}
}
