package search

import (
	"math"
	"sort"

	"outreach/internal/core/schema"
)

// Bounds is an observed numeric range
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Filters are the dynamic filter options offered to clients
type Filters struct {
	Age     Bounds              `json:"age"`
	Height  Bounds              `json:"height"`
	Weight  Bounds              `json:"weight"`
	Urgency Bounds              `json:"urgency"`
	Values  map[string][]string `json:"values"`
}

// DefaultFilters is served for an empty dataset and whenever a rebuild fails
func DefaultFilters() Filters {
	return Filters{
		Age:     Bounds{Min: 0, Max: 120},
		Height:  Bounds{Min: 0, Max: 300},
		Weight:  Bounds{Min: 0, Max: 300},
		Urgency: Bounds{Min: 0, Max: 100},
		Values: map[string][]string{
			schema.FieldGender:    {},
			schema.FieldSkinColor: {},
		},
	}
}

type span struct {
	lo, hi float64
	seen   bool
}

func (s *span) add(v float64) {
	if !s.seen {
		s.lo, s.hi, s.seen = v, v, true
		return
	}
	s.lo = math.Min(s.lo, v)
	s.hi = math.Max(s.hi, v)
}

func (s span) or(def Bounds) Bounds {
	if !s.seen {
		return def
	}
	return Bounds{Min: s.lo, Max: s.hi}
}

// BuildFilters scans every record once. Unknown ages are left out of the age
// bounds; every string or string-list field except name contributes its
// sorted distinct values
func BuildFilters(records []Record) Filters {
	out := DefaultFilters()
	if len(records) == 0 {
		return out
	}

	var age, height, weight, urgency span
	values := map[string]map[string]struct{}{}
	put := func(k, v string) {
		if v == "" {
			return
		}
		if values[k] == nil {
			values[k] = map[string]struct{}{}
		}
		values[k][v] = struct{}{}
	}

	for _, r := range records {
		urgency.add(float64(r.Display))
		if a, ok := r.Data.Age(); ok && !a.Unknown() {
			age.add(float64(a.Min))
			age.add(float64(a.Max))
		}
		if h, ok := r.Data.Number(schema.FieldHeight); ok {
			height.add(h)
		}
		if w, ok := r.Data.Number(schema.FieldWeight); ok {
			weight.add(w)
		}
		for k, v := range r.Data {
			if k == schema.FieldName {
				continue
			}
			switch t := v.(type) {
			case string:
				put(k, t)
			case []any:
				for _, e := range t {
					if s, ok := e.(string); ok {
						put(k, s)
					}
				}
			case []string:
				for _, s := range t {
					put(k, s)
				}
			}
		}
	}

	def := DefaultFilters()
	out.Age = age.or(def.Age)
	out.Height = height.or(def.Height)
	out.Weight = weight.or(def.Weight)
	out.Urgency = urgency.or(def.Urgency)
	for k, set := range values {
		list := make([]string, 0, len(set))
		for v := range set {
			list = append(list, v)
		}
		sort.Strings(list)
		out.Values[k] = list
	}
	return out
}
