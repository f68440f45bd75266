package validator

import (
	"sort"
	"strings"
)

type Validator struct {
	Errors map[string][]string `json:"errors"`
}

func New() *Validator {
	return &Validator{
		Errors: map[string][]string{},
	}
}

func (v *Validator) AddError(field, message string) {
	if v.Errors == nil {
		v.Errors = make(map[string][]string)
	}
	v.Errors[field] = append(v.Errors[field], message)
}

// Check adds the message to field only when ok is false.
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

func (v *Validator) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *Validator) Has(field string) bool {
	return len(v.Errors[field]) != 0
}

func (v *Validator) First(field string) string {
	if messages, exists := v.Errors[field]; exists && len(messages) != 0 {
		return messages[0]
	}
	return ""
}

func (v *Validator) All(field string) []string {
	if messages, exists := v.Errors[field]; exists && len(messages) != 0 {
		return messages
	}
	return nil
}

func (v *Validator) Error() string {
	if !v.HasErrors() {
		return ""
	}

	fields := make([]string, 0, len(v.Errors))
	for field := range v.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var s string
	for _, field := range fields {
		s += field + ": \n"
		for _, msg := range v.Errors[field] {
			s += "\t- " + msg + "\n"
		}
	}
	return strings.TrimSpace(s)
}

func (v *Validator) AsError() error {
	if v.HasErrors() {
		return v
	}
	return nil
}
