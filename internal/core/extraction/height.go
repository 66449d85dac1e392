package extraction

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"outreach/internal/core/schema"
)

// bare number bounds
const (
	minInches = 48
	maxInches = 96
	minFeet   = 4
	maxFeet   = 8
	maxHeight = 300
)

var (
	feetInchesRx = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:feet|foot|ft)\.?(?:\s*(?:and\s*)?(\d+(?:\.\d+)?)\s*(?:inches|inch|in)?\.?)?`)
	tickRx       = regexp.MustCompile(`(\d+)\s*['’]\s*(?:(\d+(?:\.\d+)?)\s*(?:"|''|”)?)?`)
	inchesRx     = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(?:inches|inch|in)\.?$`)
	bareRx       = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

// Height converts the model's height value into total inches. ok is false when
// nothing sensible could be read
func Height(raw any) (inches float64, ok bool) {
	if f, isNum := schema.AsFloat(raw); isNum {
		return heightNumber(f)
	}
	s, isStr := raw.(string)
	if !isStr {
		return 0, false
	}
	s = strings.ToLower(strings.TrimSpace(s))

	if m := feetInchesRx.FindStringSubmatch(s); m != nil {
		return feetPlusInches(m[1], m[2])
	}
	if m := tickRx.FindStringSubmatch(s); m != nil {
		return feetPlusInches(m[1], m[2])
	}
	if m := inchesRx.FindStringSubmatch(s); m != nil {
		n, _ := strconv.ParseFloat(m[1], 64)
		return bounded(n)
	}
	if bareRx.MatchString(s) {
		n, _ := strconv.ParseFloat(s, 64)
		return bareHeight(n)
	}
	return 0, false
}

func feetPlusInches(ft, in string) (float64, bool) {
	f, err := strconv.ParseFloat(ft, 64)
	if err != nil {
		return 0, false
	}
	var i float64
	if in != "" {
		i, _ = strconv.ParseFloat(in, 64)
	}
	return bounded(f*12 + i)
}

// bareHeight reads an unlabeled number as inches, then as feet
func bareHeight(n float64) (float64, bool) {
	switch {
	case n >= minInches && n <= maxInches:
		return n, true
	case n >= minFeet && n <= maxFeet:
		return round1(n * 12), true
	}
	return 0, false
}

// heightNumber treats typed numbers as inches unless they only make sense as feet
func heightNumber(n float64) (float64, bool) {
	if n >= minFeet && n <= maxFeet {
		return round1(n * 12), true
	}
	return bounded(n)
}

func bounded(n float64) (float64, bool) {
	if n <= 0 || n > maxHeight {
		return 0, false
	}
	return round1(n), true
}

func round1(f float64) float64 { return math.Round(f*10) / 10 }
