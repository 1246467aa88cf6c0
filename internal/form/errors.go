package form

import (
	"sort"
	"strings"

	"pos-backoffice/pkg/validator"
)

// Errors collects validation failures for one submitted form. Field errors
// are shown next to their input; NonField errors above the form.
type Errors struct {
	Fields   map[string]string `json:"fields,omitempty"`
	NonField []string          `json:"non_field,omitempty"`
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.Fields)+len(e.NonField))
	parts = append(parts, e.NonField...)
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field, keeping the first message per field
func (e *Errors) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

func (e *Errors) AddNonField(msg string) {
	e.NonField = append(e.NonField, msg)
}

// Any reports whether at least one error was recorded
func (e *Errors) Any() bool {
	return e != nil && (len(e.Fields) > 0 || len(e.NonField) > 0)
}

// OrNil returns e when it holds errors and nil otherwise, so callers can
// return it straight as an error value.
func (e *Errors) OrNil() error {
	if e.Any() {
		return e
	}
	return nil
}

func validateStruct(data interface{}) *Errors {
	errs := &Errors{}
	for _, fe := range validator.ValidateStruct(data) {
		if fe.FailedField == "" {
			errs.AddNonField(fe.Message())
			continue
		}
		errs.Add(fe.FailedField, fe.Message())
	}
	return errs
}
