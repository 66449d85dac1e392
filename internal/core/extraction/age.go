package extraction

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"outreach/internal/core/schema"
	"outreach/internal/core/validate"
)

const (
	ageSpread = 2
	ageCeil   = 120
)

// descriptive age words, checked in order
var ageWords = []struct {
	words []string
	r     schema.Range
}{
	{[]string{"young adult"}, schema.Range{Min: 18, Max: 30}},
	{[]string{"middle-aged", "middle aged", "middle age"}, schema.Range{Min: 40, Max: 60}},
	{[]string{"elderly", "senior"}, schema.Range{Min: 65, Max: 85}},
	{[]string{"teenage", "teenager", "teen"}, schema.Range{Min: 13, Max: 19}},
}

var decadeWords = map[string]int{
	"twenties": 20, "thirties": 30, "forties": 40, "fifties": 50,
	"sixties": 60, "seventies": 70, "eighties": 80, "nineties": 90,
}

var (
	decadeRx = regexp.MustCompile(`(early|mid|late)?[\s-]*(twenties|thirties|forties|fifties|sixties|seventies|eighties|nineties|[2-9]0'?s)\b`)
	spanRx   = regexp.MustCompile(`^(\d{1,3})\s*(?:-|to|–)\s*(\d{1,3})$`)
	scalarRx = regexp.MustCompile(`^(?:about|around|approx(?:imately)?\.?|~)?\s*(\d{1,3}(?:\.\d+)?)\s*(?:years?(?: old)?|yrs?|y/?o)?$`)
)

// Age coerces whatever the model emitted for approximate_age into a legal
// range. changed is false when raw was already legal
func Age(raw any) (r schema.Range, changed bool) {
	switch v := raw.(type) {
	case nil:
		return schema.UnknownAge, true
	case string:
		return ageFromString(v), true
	case map[string]any:
		lo, ok1 := schema.AsFloat(v["min"])
		hi, ok2 := schema.AsFloat(v["max"])
		if !ok1 || !ok2 {
			return schema.UnknownAge, true
		}
		return checked(schema.Range{Min: int(math.Round(lo)), Max: int(math.Round(hi))}), true
	}
	if f, ok := schema.AsFloat(raw); ok {
		return scalarAge(f), true
	}
	if rr, ok := schema.AsRange(raw); ok {
		out := checked(rr)
		return out, out != rr
	}
	return schema.UnknownAge, true
}

func checked(r schema.Range) schema.Range {
	if validate.AgeOK(r) {
		return r
	}
	return schema.UnknownAge
}

func scalarAge(a float64) schema.Range {
	if a < 0 || a > ageCeil {
		return schema.UnknownAge
	}
	n := int(math.Round(a))
	lo, hi := n-ageSpread, n+ageSpread
	if lo < 0 {
		lo = 0
	}
	if hi > ageCeil {
		hi = ageCeil
	}
	return checked(schema.Range{Min: lo, Max: hi})
}

func ageFromString(s string) schema.Range {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return schema.UnknownAge
	}
	if m := spanRx.FindStringSubmatch(s); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		return checked(schema.Range{Min: lo, Max: hi})
	}
	if m := scalarRx.FindStringSubmatch(s); m != nil {
		f, _ := strconv.ParseFloat(m[1], 64)
		return scalarAge(f)
	}
	if m := decadeRx.FindStringSubmatch(s); m != nil {
		base, ok := decadeWords[m[2]]
		if !ok {
			base, _ = strconv.Atoi(strings.TrimRight(m[2], "'s"))
		}
		switch m[1] {
		case "early":
			return schema.Range{Min: base, Max: base + 5}
		case "mid":
			return schema.Range{Min: base + 3, Max: base + 7}
		case "late":
			return schema.Range{Min: base + 5, Max: base + 9}
		}
		return schema.Range{Min: base, Max: base + 9}
	}
	for _, w := range ageWords {
		for _, word := range w.words {
			if strings.Contains(s, word) {
				return w.r
			}
		}
	}
	return schema.UnknownAge
}
