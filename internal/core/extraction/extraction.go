// Package extraction turns model output into a schema-shaped record. The model
// is never trusted: every field is re-read under rules at least as strict as the
// prompt that produced it
package extraction

import (
	"encoding/json"
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"outreach/internal/core/normalize"
	"outreach/internal/core/schema"
)

// ErrNoJSON means the model reply held no JSON object
var ErrNoJSON = errors.New("model reply contains no JSON object")

// Coercion records one repair made to model output. It never carries values
type Coercion struct {
	Field string
	Kind  string
}

// Coercion kinds
const (
	KindUnknownKey    = "unknown_key"
	KindRenamedKey    = "renamed_key"
	KindAge           = "age_normalized"
	KindAgeDefault    = "age_defaulted"
	KindHeight        = "height_parsed"
	KindNumberParsed  = "number_parsed"
	KindOptionRescued = "option_rescued"
	KindDropped       = "dropped"
	KindListTrimmed   = "list_trimmed"
	KindTextCleaned   = "text_cleaned"
)

// ParseObject pulls the first JSON object out of a model reply, tolerating
// code fences and surrounding prose
func ParseObject(reply string) (map[string]any, error) {
	s := strings.TrimSpace(reply)
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return nil, ErrNoJSON
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(s[start:end+1]), &out); err != nil {
		return nil, err
	}
	return out, nil
}

var intRx = regexp.MustCompile(`-?\d{1,3}`)

// ParseScore reads the first integer of a comparison reply, clamped to 0..100
func ParseScore(reply string) (int, error) {
	m := intRx.FindString(reply)
	if m == "" {
		return 0, errors.New("model reply contains no score")
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		n = 0
	}
	if n > 100 {
		n = 100
	}
	return n, nil
}

var leadingNumberRx = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)`)

// Normalize maps raw model output onto cats. Unknown keys and nulls are
// dropped, values are coerced to their category shape, and approximate_age is
// always present when the category exists
func Normalize(raw map[string]any, cats *schema.Set) (schema.Data, []Coercion) {
	out := schema.Data{}
	var notes []Coercion
	note := func(field, kind string) { notes = append(notes, Coercion{Field: field, Kind: kind}) }

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := raw[key]
		c, ok := cats.Get(key)
		if !ok {
			if c, ok = cats.Lookup(key); !ok {
				note(key, KindUnknownKey)
				continue
			}
			note(c.Name, KindRenamedKey)
		}
		if val == nil {
			continue
		}
		v, kind, keep := coerce(c, val)
		if kind != "" {
			note(c.Name, kind)
		}
		if keep {
			out[c.Name] = v
		}
	}

	if _, hasAge := cats.Get(schema.FieldAge); hasAge {
		if _, set := out[schema.FieldAge]; !set {
			out[schema.FieldAge] = schema.UnknownAge.Slice()
			note(schema.FieldAge, KindAgeDefault)
		}
	}
	return out, notes
}

// coerce returns the cleaned value, the repair applied (or "") and whether to keep it
func coerce(c schema.Category, val any) (any, string, bool) {
	switch c.Type {
	case schema.TypeText:
		s, ok := val.(string)
		if !ok {
			if f, isNum := schema.AsFloat(val); isNum {
				return strconv.FormatFloat(f, 'f', -1, 64), KindTextCleaned, true
			}
			return nil, KindDropped, false
		}
		clean := normalize.Text(s)
		if clean == "" {
			return nil, KindDropped, false
		}
		if clean != s {
			return clean, KindTextCleaned, true
		}
		return s, "", true

	case schema.TypeNumber:
		if c.Name == schema.FieldHeight {
			h, ok := Height(val)
			if !ok {
				return nil, KindDropped, false
			}
			if f, isNum := schema.AsFloat(val); isNum && f == h {
				return h, "", true
			}
			return h, KindHeight, true
		}
		if f, ok := schema.AsFloat(val); ok {
			if f < 0 {
				return nil, KindDropped, false
			}
			if _, isFloat := val.(float64); isFloat {
				return f, "", true
			}
			return f, KindNumberParsed, true
		}
		if s, ok := val.(string); ok {
			if m := leadingNumberRx.FindStringSubmatch(s); m != nil {
				f, _ := strconv.ParseFloat(m[1], 64)
				return f, KindNumberParsed, true
			}
		}
		return nil, KindDropped, false

	case schema.TypeSingleSelect:
		s, ok := val.(string)
		if !ok {
			return nil, KindDropped, false
		}
		o, ok := c.RescueOption(s)
		if !ok {
			return nil, KindDropped, false
		}
		if o.Label != s {
			return o.Label, KindOptionRescued, true
		}
		return s, "", true

	case schema.TypeMultiSelect:
		var items []any
		switch x := val.(type) {
		case []any:
			items = x
		case string:
			items = []any{x}
		default:
			return nil, KindDropped, false
		}
		labels := make([]any, 0, len(items))
		seen := map[string]bool{}
		trimmed := false
		for _, it := range items {
			s, ok := it.(string)
			if !ok {
				trimmed = true
				continue
			}
			o, ok := c.RescueOption(s)
			if !ok || seen[o.Label] {
				trimmed = true
				continue
			}
			if o.Label != s {
				trimmed = true
			}
			seen[o.Label] = true
			labels = append(labels, o.Label)
		}
		if len(labels) == 0 {
			return nil, KindDropped, false
		}
		if trimmed {
			return labels, KindListTrimmed, true
		}
		return labels, "", true

	case schema.TypeRange:
		if c.Name == schema.FieldAge {
			r, changed := Age(val)
			if changed {
				return r.Slice(), KindAge, true
			}
			return r.Slice(), "", true
		}
		if r, ok := schema.AsRange(val); ok {
			return r.Slice(), "", true
		}
		if m, ok := val.(map[string]any); ok {
			lo, ok1 := schema.AsFloat(m["min"])
			hi, ok2 := schema.AsFloat(m["max"])
			if ok1 && ok2 {
				return schema.Range{Min: int(lo), Max: int(hi)}.Slice(), KindNumberParsed, true
			}
		}
		return nil, KindDropped, false

	case schema.TypeDate:
		s, ok := val.(string)
		if !ok {
			return nil, KindDropped, false
		}
		if _, err := schema.ParseDate(s); err != nil {
			return nil, KindDropped, false
		}
		return strings.TrimSpace(s), "", true

	case schema.TypeLocation:
		l, ok := schema.AsLocation(val)
		if !ok {
			return nil, KindDropped, false
		}
		return map[string]any{"lat": l.Lat, "lon": l.Lon, "address": l.Address}, "", true
	}
	return nil, KindDropped, false
}
