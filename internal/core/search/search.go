// Package search filters, ranks and pages individual records in memory.
// Callers prefilter in storage and hand the candidate set here
package search

import (
	"sort"
	"strings"
	"time"

	"outreach/internal/core/geo"
	"outreach/internal/core/normalize"
	"outreach/internal/core/schema"
	perr "outreach/internal/platform/errors"
)

// Advanced search bounds
const (
	MaxLimit     = 20
	MaxOffset    = 100
	DefaultLimit = 20
)

// SortField names a sort key
type SortField string

// Sort keys
const (
	SortLastSeen SortField = "last_seen"
	SortUrgency  SortField = "urgency_score"
	SortName     SortField = "name"
	SortDistance SortField = "distance"
)

// Order is asc or desc
type Order string

// Orders
const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// Record is the searchable projection of an individual
type Record struct {
	ID       string
	Name     string
	Data     schema.Data
	Display  int
	HasPhoto bool
	LastSeen time.Time
	Location *geo.Point
	Address  string
}

// Hit is a record that passed the filters
type Hit struct {
	Record
	Distance *float64
}

// AgeFilter bounds an age query. A nil side is unbounded
type AgeFilter struct {
	Min *int
	Max *int
}

// Active reports whether any bound is set
func (f AgeFilter) Active() bool { return f.Min != nil || f.Max != nil }

// AgeOverlaps reports whether age intersects f. Unknown ages never match an
// active filter and touching ranges count as overlap
func AgeOverlaps(age schema.Range, f AgeFilter) bool {
	if !f.Active() {
		return true
	}
	if age.Min == -1 || age.Max == -1 {
		return false
	}
	if f.Min != nil && age.Max < *f.Min {
		return false
	}
	if f.Max != nil && age.Min > *f.Max {
		return false
	}
	return true
}

// Query is a fully parsed advanced search
type Query struct {
	// Text is matched by storage against name and serialized data
	Text       string
	Genders    []string
	Age        AgeFilter
	HeightMin  *float64
	HeightMax  *float64
	UrgencyMin *int
	UrgencyMax *int
	HasPhoto   *bool
	Origin     *geo.Point
	Sort       SortField
	Order      Order
	Limit      int
	Offset     int
}

// Normalize fills defaults and validates bounds. It must run before any data access
func (q *Query) Normalize() error {
	var issues []perr.FieldIssue
	add := func(f, m string) { issues = append(issues, perr.FieldIssue{Field: f, Message: m}) }

	if q.Sort == "" {
		q.Sort = SortUrgency
	}
	switch q.Sort {
	case SortLastSeen, SortUrgency, SortName, SortDistance:
	default:
		add("sort_by", "must be one of urgency_score, last_seen, name, distance")
	}
	if q.Order == "" {
		q.Order = Desc
		if q.Sort == SortName || q.Sort == SortDistance {
			q.Order = Asc
		}
	}
	if q.Order != Asc && q.Order != Desc {
		add("sort_order", "must be asc or desc")
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit < 1 || q.Limit > MaxLimit {
		add("limit", "must be between 1 and 20")
	}
	if q.Offset < 0 || q.Offset > MaxOffset {
		add("offset", "must be between 0 and 100")
	}
	if q.Sort == SortDistance && q.Origin == nil {
		add("lat", "distance sort requires lat and lon")
	}
	if q.Origin != nil && !q.Origin.Valid() {
		add("lat", "coordinates out of range")
	}
	if q.Age.Min != nil && q.Age.Max != nil && *q.Age.Min > *q.Age.Max {
		add("age_min", "must not exceed age_max")
	}
	if len(issues) > 0 {
		return perr.Validation(issues[0].Field+" "+issues[0].Message, issues...)
	}
	return nil
}

// Match reports whether r passes every active filter except Text
func (q Query) Match(r Record) bool {
	if len(q.Genders) > 0 {
		g, _ := r.Data.String(schema.FieldGender)
		ok := false
		for _, want := range q.Genders {
			if normalize.Equal(g, want) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if q.Age.Active() {
		age, ok := r.Data.Age()
		if !ok || !AgeOverlaps(age, q.Age) {
			return false
		}
	}
	if q.HeightMin != nil || q.HeightMax != nil {
		h, ok := r.Data.Number(schema.FieldHeight)
		if !ok || (q.HeightMin != nil && h < *q.HeightMin) || (q.HeightMax != nil && h > *q.HeightMax) {
			return false
		}
	}
	if q.UrgencyMin != nil && r.Display < *q.UrgencyMin {
		return false
	}
	if q.UrgencyMax != nil && r.Display > *q.UrgencyMax {
		return false
	}
	if q.HasPhoto != nil && r.HasPhoto != *q.HasPhoto {
		return false
	}
	return true
}

// Run filters records, attaches distances, sorts and pages. total counts every
// match before paging
func Run(records []Record, q Query) (page []Hit, total int) {
	hits := make([]Hit, 0, len(records))
	for _, r := range records {
		if !q.Match(r) {
			continue
		}
		h := Hit{Record: r}
		if q.Origin != nil && r.Location != nil {
			d := geo.Miles(*q.Origin, *r.Location)
			h.Distance = &d
		}
		hits = append(hits, h)
	}
	Sort(hits, q.Sort, q.Order)

	total = len(hits)
	if q.Offset >= total {
		return []Hit{}, total
	}
	end := q.Offset + q.Limit
	if q.Limit <= 0 || end > total {
		end = total
	}
	return hits[q.Offset:end], total
}

// Sort orders hits in place. Hits without a distance always sort last on
// distance, ties break on id
func Sort(hits []Hit, field SortField, order Order) {
	desc := order == Desc
	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		var c int
		switch field {
		case SortDistance:
			switch {
			case a.Distance == nil && b.Distance == nil:
				c = 0
			case a.Distance == nil:
				return false
			case b.Distance == nil:
				return true
			default:
				c = cmpFloat(*a.Distance, *b.Distance)
			}
		case SortName:
			c = strings.Compare(normalize.Key(a.Name), normalize.Key(b.Name))
		case SortLastSeen:
			c = a.LastSeen.Compare(b.LastSeen)
		default:
			c = a.Display - b.Display
		}
		if c == 0 {
			return a.ID < b.ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
