// Package diff computes the field delta between two categorized records
package diff

import (
	"outreach/internal/core/schema"
)

// Changes returns every key of newer whose value is absent from older or
// differs structurally. Keys missing from newer are not deletions
func Changes(older, newer schema.Data, cats *schema.Set) schema.Data {
	out := schema.Data{}
	for k, nv := range newer {
		ov, ok := older[k]
		if ok && Equal(ov, nv, kindOf(cats, k)) {
			continue
		}
		out[k] = nv
	}
	return out
}

// Apply replays changes on top of base and returns the result
func Apply(base, changes schema.Data) schema.Data { return base.Merge(changes) }

func kindOf(cats *schema.Set, name string) schema.Type {
	if c, ok := cats.Get(name); ok {
		return c.Type
	}
	return ""
}

// Equal compares two JSON values. Numbers compare numerically, multi-select
// lists compare as sets, other lists element-wise and objects key-wise
func Equal(a, b any, kind schema.Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if fa, ok := schema.AsFloat(a); ok {
		fb, ok := schema.AsFloat(b)
		return ok && fa == fb
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case []any:
		y, ok := toList(b)
		if !ok {
			return false
		}
		if kind == schema.TypeMultiSelect {
			return sameSet(x, y)
		}
		return sameList(x, y)
	case []string:
		xs, _ := toList(x)
		y, ok := toList(b)
		if !ok {
			return false
		}
		if kind == schema.TypeMultiSelect {
			return sameSet(xs, y)
		}
		return sameList(xs, y)
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv, "") {
				return false
			}
		}
		return true
	}
	return false
}

func toList(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

func sameList(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i], "") {
			return false
		}
	}
	return true
}

// sameSet compares as multisets of scalar values
func sameSet(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
outer:
	for _, av := range a {
		for j, bv := range b {
			if !used[j] && Equal(av, bv, "") {
				used[j] = true
				continue outer
			}
		}
		return false
	}
	return true
}
