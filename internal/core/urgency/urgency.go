// Package urgency computes the 0-100 attention score of an individual from
// categorized data and category weights
package urgency

import (
	"math"

	"outreach/internal/core/schema"
)

// numberCeiling caps number fields before scaling
const numberCeiling = 300.0

// Max is the score returned when an auto-trigger fires
const Max = 100

// Score returns the urgency score of data under cats.
//
// Any auto-trigger category holding a non-zero value forces Max. Otherwise
// number fields contribute min(v,300)/300*w and single-select fields contribute
// numeric_value*w; the weighted sum is normalized by the total weight of the
// contributing categories present in data
func Score(data schema.Data, cats *schema.Set) int {
	if cats == nil {
		return 0
	}
	all := cats.All()

	for _, c := range all {
		if !c.AutoTrigger || c.UrgencyWeight <= 0 {
			continue
		}
		if level, ok := level(c, data); ok && level > 0 {
			return Max
		}
	}

	var sum, total float64
	for _, c := range all {
		if c.UrgencyWeight <= 0 || !c.Type.Scored() {
			continue
		}
		lv, ok := level(c, data)
		if !ok {
			continue
		}
		w := float64(c.UrgencyWeight)
		sum += lv * w
		total += w
	}
	if total == 0 {
		return 0
	}
	return clamp(int(math.Round(sum / total * 100)))
}

// level maps the value of c in data onto [0,1]. ok is false when the field is
// absent or does not decode
func level(c schema.Category, data schema.Data) (float64, bool) {
	raw, present := data[c.Name]
	if !present || raw == nil {
		return 0, false
	}
	v, err := schema.Decode(c, raw)
	if err != nil {
		return 0, false
	}
	switch x := v.(type) {
	case schema.Number:
		return math.Min(float64(x), numberCeiling) / numberCeiling, true
	case schema.SingleSelect:
		return x.Option.NumericValue, true
	}
	return 0, false
}

// Display returns the override when set, otherwise the computed score
func Display(score int, override *int) int {
	if override != nil {
		return clamp(*override)
	}
	return clamp(score)
}

func clamp(v int) int {
	switch {
	case v < 0:
		return 0
	case v > Max:
		return Max
	}
	return v
}
