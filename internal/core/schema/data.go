package schema

import "strings"

// Data maps category name to its raw JSON value
type Data map[string]any

// Clone returns a shallow copy of d
func (d Data) Clone() Data {
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Merge returns d with every key of newer applied on top. Keys missing from
// newer keep their old value
func (d Data) Merge(newer Data) Data {
	out := d.Clone()
	for k, v := range newer {
		out[k] = v
	}
	return out
}

// Name returns the trimmed name field or ""
func (d Data) Name() string {
	s, _ := d[FieldName].(string)
	return strings.TrimSpace(s)
}

// Age returns the approximate age range when it is well formed
func (d Data) Age() (Range, bool) {
	v, ok := d[FieldAge]
	if !ok {
		return Range{}, false
	}
	return AsRange(v)
}

// Number returns the numeric field key
func (d Data) Number(key string) (float64, bool) {
	v, ok := d[key]
	if !ok {
		return 0, false
	}
	return AsFloat(v)
}

// String returns the string field key
func (d Data) String(key string) (string, bool) {
	s, ok := d[key].(string)
	return s, ok
}
