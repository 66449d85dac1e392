// Package schema holds the category-driven data model: category metadata,
// the typed value variants each category admits, and the preset catalogue
package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"outreach/internal/core/normalize"
	perr "outreach/internal/platform/errors"
)

// Type is the value shape of a category
type Type string

// Category types
const (
	TypeText         Type = "text"
	TypeNumber       Type = "number"
	TypeSingleSelect Type = "single_select"
	TypeMultiSelect  Type = "multi_select"
	TypeRange        Type = "range"
	TypeDate         Type = "date"
	TypeLocation     Type = "location"
)

// Valid reports whether t is a known category type
func (t Type) Valid() bool {
	switch t {
	case TypeText, TypeNumber, TypeSingleSelect, TypeMultiSelect, TypeRange, TypeDate, TypeLocation:
		return true
	}
	return false
}

// Scored reports whether categories of this type can carry urgency weight
func (t Type) Scored() bool { return t == TypeNumber || t == TypeSingleSelect }

// Priority ranks categories for the client form
type Priority string

// Priorities
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Preset field names
const (
	FieldName      = "name"
	FieldHeight    = "height"
	FieldWeight    = "weight"
	FieldSkinColor = "skin_color"
	FieldAge       = "approximate_age"
	FieldGender    = "gender"
	FieldSubstance = "substance_abuse_history"
)

// Option is one choice of a select category. Multi-select options only use the label
type Option struct {
	Label        string  `json:"label"`
	NumericValue float64 `json:"numeric_value"`
}

// UnmarshalJSON accepts either a bare label string or a {label, numeric_value} object
func (o *Option) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*o = Option{Label: s}
		return nil
	}
	type alias Option
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*o = Option(a)
	return nil
}

// Category describes one field of the categorized schema
type Category struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Type          Type      `json:"type"`
	IsRequired    bool      `json:"is_required"`
	IsPreset      bool      `json:"is_preset"`
	Options       []Option  `json:"options,omitempty"`
	UrgencyWeight int       `json:"urgency_weight"`
	AutoTrigger   bool      `json:"auto_trigger"`
	Priority      Priority  `json:"priority"`
	DisplayOrder  int       `json:"display_order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MarshalJSON emits multi-select options as plain labels
func (c Category) MarshalJSON() ([]byte, error) {
	type alias Category
	return json.Marshal(struct {
		alias
		Options any `json:"options,omitempty"`
	}{alias: alias(c), Options: c.wireOptions()})
}

func (c Category) wireOptions() any {
	switch c.Type {
	case TypeSingleSelect:
		if len(c.Options) == 0 {
			return nil
		}
		return c.Options
	case TypeMultiSelect:
		if len(c.Options) == 0 {
			return nil
		}
		return c.Labels()
	}
	return nil
}

// Labels returns the declared option labels in order
func (c Category) Labels() []string {
	out := make([]string, len(c.Options))
	for i, o := range c.Options {
		out[i] = o.Label
	}
	return out
}

// Option returns the declared option with exactly this label
func (c Category) Option(label string) (Option, bool) {
	for _, o := range c.Options {
		if o.Label == label {
			return o, true
		}
	}
	return Option{}, false
}

// RescueOption finds the declared option whose label folds to the same key as label
func (c Category) RescueOption(label string) (Option, bool) {
	if o, ok := c.Option(label); ok {
		return o, true
	}
	k := normalize.Key(label)
	if k == "" {
		return Option{}, false
	}
	for _, o := range c.Options {
		if normalize.Key(o.Label) == k {
			return o, true
		}
	}
	return Option{}, false
}

var nameRx = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,63}$`)

// Check validates a category definition against its type. Every problem is
// reported as a field issue on the returned validation error
func (c Category) Check() error {
	var issues []perr.FieldIssue
	add := func(field, format string, args ...any) {
		issues = append(issues, perr.FieldIssue{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if !nameRx.MatchString(c.Name) {
		add("name", "must start with a letter and contain only letters, digits or underscores (max 64)")
	}
	if !c.Type.Valid() {
		add("type", "unknown type %q", c.Type)
	}
	if c.Priority != "" && !c.Priority.Valid() {
		add("priority", "must be one of low, medium, high")
	}
	if c.UrgencyWeight < 0 || c.UrgencyWeight > 100 {
		add("urgency_weight", "must be between 0 and 100")
	}
	if c.UrgencyWeight > 0 && c.Type.Valid() && !c.Type.Scored() {
		add("urgency_weight", "only number and single_select categories carry urgency weight")
	}

	switch c.Type {
	case TypeSingleSelect, TypeMultiSelect:
		if len(c.Options) == 0 {
			add("options", "at least one option is required for %s", c.Type)
		}
		seen := make(map[string]struct{}, len(c.Options))
		for i, o := range c.Options {
			field := fmt.Sprintf("options[%d]", i)
			label := strings.TrimSpace(o.Label)
			if label == "" {
				add(field, "label is required")
				continue
			}
			k := normalize.Key(label)
			if _, dup := seen[k]; dup {
				add(field, "duplicate label %q", label)
			}
			seen[k] = struct{}{}
			if o.NumericValue < 0 || o.NumericValue > 1 {
				add(field, "numeric_value must be between 0 and 1")
			}
			if c.Type == TypeMultiSelect && o.NumericValue != 0 {
				add(field, "multi_select options carry no numeric_value")
			}
		}
	default:
		if len(c.Options) > 0 {
			add("options", "options are only allowed for select categories")
		}
	}

	if c.AutoTrigger {
		switch {
		case !c.Type.Scored():
			add("auto_trigger", "only number and single_select categories can auto-trigger")
		case c.UrgencyWeight <= 0:
			add("auto_trigger", "requires urgency_weight > 0")
		case c.Type == TypeSingleSelect && !c.hasPositiveOption():
			add("auto_trigger", "requires at least one option with numeric_value > 0")
		}
	}

	if len(issues) == 0 {
		return nil
	}
	return perr.Validation(issues[0].Field+" "+issues[0].Message, issues...)
}

func (c Category) hasPositiveOption() bool {
	for _, o := range c.Options {
		if o.NumericValue > 0 {
			return true
		}
	}
	return false
}

// Set is an immutable, ordered view over the category list
type Set struct {
	list   []Category
	byName map[string]int
	byKey  map[string]int
}

// NewSet indexes cats, ordered by display order then name
func NewSet(cats []Category) *Set {
	list := append([]Category(nil), cats...)
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].DisplayOrder != list[j].DisplayOrder {
			return list[i].DisplayOrder < list[j].DisplayOrder
		}
		return list[i].Name < list[j].Name
	})
	s := &Set{
		list:   list,
		byName: make(map[string]int, len(list)),
		byKey:  make(map[string]int, len(list)),
	}
	for i, c := range list {
		s.byName[c.Name] = i
		s.byKey[normalize.Key(c.Name)] = i
	}
	return s
}

// All returns the ordered categories
func (s *Set) All() []Category {
	if s == nil {
		return nil
	}
	return append([]Category(nil), s.list...)
}

// Len returns the number of categories
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.list)
}

// Get returns the category with exactly this name
func (s *Set) Get(name string) (Category, bool) {
	if s == nil {
		return Category{}, false
	}
	i, ok := s.byName[name]
	if !ok {
		return Category{}, false
	}
	return s.list[i], true
}

// Lookup returns the category whose name matches case-insensitively
func (s *Set) Lookup(name string) (Category, bool) {
	if c, ok := s.Get(name); ok {
		return c, true
	}
	if s == nil {
		return Category{}, false
	}
	i, ok := s.byKey[normalize.Key(name)]
	if !ok {
		return Category{}, false
	}
	return s.list[i], true
}
