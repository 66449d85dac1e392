// Package validate checks categorized records against the category schema
package validate

import (
	"fmt"
	"sort"

	"outreach/internal/core/schema"
	perr "outreach/internal/platform/errors"
)

// bodyLimit bounds height and weight
const bodyLimit = 300.0

// maxAge bounds approximate_age
const maxAge = 120

// FieldError is one rule violation
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of validating one record
type Result struct {
	IsValid         bool         `json:"is_valid"`
	MissingRequired []string     `json:"missing_required"`
	Errors          []FieldError `json:"errors"`
}

// Record validates data against cats. Keys without a category are ignored
func Record(data schema.Data, cats *schema.Set) Result {
	res := Result{MissingRequired: []string{}, Errors: []FieldError{}}

	for _, c := range cats.All() {
		raw, present := data[c.Name]
		if !present || schema.Empty(raw) {
			if c.IsRequired {
				res.MissingRequired = append(res.MissingRequired, c.Name)
			}
			continue
		}
		if msg := check(c, raw); msg != "" {
			res.Errors = append(res.Errors, FieldError{Field: c.Name, Message: msg})
		}
	}

	sort.Strings(res.MissingRequired)
	res.IsValid = len(res.MissingRequired) == 0 && len(res.Errors) == 0
	return res
}

func check(c schema.Category, raw any) string {
	v, err := schema.Decode(c, raw)
	if err != nil {
		return err.Error()
	}
	switch x := v.(type) {
	case schema.Number:
		if (c.Name == schema.FieldHeight || c.Name == schema.FieldWeight) && float64(x) > bodyLimit {
			return fmt.Sprintf("must be between 0 and %d", int(bodyLimit))
		}
	case schema.Range:
		if c.Name == schema.FieldAge && !AgeOK(x) {
			return fmt.Sprintf("must be [-1, -1] or [min, max] with 0 <= min < max <= %d", maxAge)
		}
	}
	return ""
}

// AgeOK reports whether r is a legal approximate_age
func AgeOK(r schema.Range) bool {
	if r.Unknown() {
		return true
	}
	return r.Min >= 0 && r.Min < r.Max && r.Max <= maxAge
}

// Err converts a failed result into a validation error listing every field.
// It returns nil for a valid result
func (r Result) Err() error {
	if r.IsValid {
		return nil
	}
	issues := make([]perr.FieldIssue, 0, len(r.MissingRequired)+len(r.Errors))
	for _, name := range r.MissingRequired {
		issues = append(issues, perr.FieldIssue{Field: name, Message: "is required"})
	}
	for _, fe := range r.Errors {
		issues = append(issues, perr.FieldIssue{Field: fe.Field, Message: fe.Message})
	}
	return perr.Validation("invalid data", issues...)
}
