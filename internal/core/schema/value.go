package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Value is the typed form of one categorized field
type Value interface {
	Kind() Type
}

// Text is a free-form string value
type Text string

// Number is a non-negative real value
type Number float64

// SingleSelect is one declared option
type SingleSelect struct {
	Option Option
}

// MultiSelect is a set of declared option labels
type MultiSelect []string

// Range is an ordered integer pair
type Range struct {
	Min int
	Max int
}

// Date is an ISO-8601 date or timestamp
type Date struct {
	Raw  string
	Time time.Time
}

// Location is a point with an optional address
type Location struct {
	Lat     float64
	Lon     float64
	Address string
}

func (Text) Kind() Type         { return TypeText }
func (Number) Kind() Type       { return TypeNumber }
func (SingleSelect) Kind() Type { return TypeSingleSelect }
func (MultiSelect) Kind() Type  { return TypeMultiSelect }
func (Range) Kind() Type        { return TypeRange }
func (Date) Kind() Type         { return TypeDate }
func (Location) Kind() Type     { return TypeLocation }

// UnknownAge is the sentinel range for an age nobody could estimate
var UnknownAge = Range{Min: -1, Max: -1}

// Unknown reports whether r is the unknown-age sentinel
func (r Range) Unknown() bool { return r.Min == -1 && r.Max == -1 }

// Slice returns the wire form [min, max] with JSON-decoded number types
func (r Range) Slice() []any { return []any{float64(r.Min), float64(r.Max)} }

// Empty reports whether raw counts as absent for required checks
func Empty(raw any) bool {
	if raw == nil {
		return true
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return true
	}
	return false
}

// Decode maps a raw JSON value onto the variant for c.Type. Select values must
// match a declared label exactly
func Decode(c Category, raw any) (Value, error) {
	switch c.Type {
	case TypeText:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("must be a string")
		}
		return Text(s), nil

	case TypeNumber:
		f, ok := AsFloat(raw)
		if !ok {
			return nil, fmt.Errorf("must be a number")
		}
		if f < 0 {
			return nil, fmt.Errorf("must be non-negative")
		}
		return Number(f), nil

	case TypeSingleSelect:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("must be one of %s", strings.Join(c.Labels(), ", "))
		}
		o, ok := c.Option(s)
		if !ok {
			return nil, fmt.Errorf("invalid option %q; must be one of %s", s, strings.Join(c.Labels(), ", "))
		}
		return SingleSelect{Option: o}, nil

	case TypeMultiSelect:
		items, ok := raw.([]any)
		if !ok {
			if ss, isStrings := raw.([]string); isStrings {
				items = make([]any, len(ss))
				for i, s := range ss {
					items[i] = s
				}
			} else {
				return nil, fmt.Errorf("must be a list of options")
			}
		}
		out := make(MultiSelect, 0, len(items))
		for _, it := range items {
			s, ok := it.(string)
			if !ok {
				return nil, fmt.Errorf("must be a list of options")
			}
			if _, ok := c.Option(s); !ok {
				return nil, fmt.Errorf("invalid option %q", s)
			}
			out = append(out, s)
		}
		return out, nil

	case TypeRange:
		r, ok := AsRange(raw)
		if !ok {
			return nil, fmt.Errorf("must be a [min, max] pair of integers")
		}
		return r, nil

	case TypeDate:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("must be an ISO-8601 date")
		}
		t, err := ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("must be an ISO-8601 date")
		}
		return Date{Raw: s, Time: t}, nil

	case TypeLocation:
		l, ok := AsLocation(raw)
		if !ok {
			return nil, fmt.Errorf("must be an object with lat and lon")
		}
		if l.Lat < -90 || l.Lat > 90 || l.Lon < -180 || l.Lon > 180 {
			return nil, fmt.Errorf("coordinates out of range")
		}
		return l, nil
	}
	return nil, fmt.Errorf("unknown category type %q", c.Type)
}

// AsFloat reads a JSON-ish number
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// AsRange reads a two element list of integral numbers
func AsRange(v any) (Range, bool) {
	var items []any
	switch x := v.(type) {
	case []any:
		items = x
	case []int:
		items = []any{}
		for _, i := range x {
			items = append(items, i)
		}
	case []float64:
		items = []any{}
		for _, f := range x {
			items = append(items, f)
		}
	default:
		return Range{}, false
	}
	if len(items) != 2 {
		return Range{}, false
	}
	lo, ok1 := AsFloat(items[0])
	hi, ok2 := AsFloat(items[1])
	if !ok1 || !ok2 || lo != math.Trunc(lo) || hi != math.Trunc(hi) {
		return Range{}, false
	}
	return Range{Min: int(lo), Max: int(hi)}, true
}

// AsLocation reads {lat, lon, address} or {latitude, longitude, address}
func AsLocation(v any) (Location, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return Location{}, false
	}
	lat, okLat := AsFloat(m["lat"])
	if !okLat {
		lat, okLat = AsFloat(m["latitude"])
	}
	lon, okLon := AsFloat(m["lon"])
	if !okLon {
		lon, okLon = AsFloat(m["longitude"])
	}
	if !okLat || !okLon {
		return Location{}, false
	}
	addr, _ := m["address"].(string)
	return Location{Lat: lat, Lon: lon, Address: addr}, true
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate accepts RFC 3339 timestamps or plain dates
func ParseDate(s string) (time.Time, error) {
	var last error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, strings.TrimSpace(s))
		if err == nil {
			return t, nil
		}
		last = err
	}
	return time.Time{}, last
}
