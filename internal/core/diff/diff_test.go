package diff

import (
	"encoding/json"
	"testing"

	"outreach/internal/core/schema"
)

func set() *schema.Set {
	return schema.NewSet(schema.MustPresets())
}

func TestChanges_MergeScenario(t *testing.T) {
	older := schema.Data{"height": 72.0, "weight": 180.0, "skin_color": "Light"}
	newer := schema.Data{"height": 73.0, "weight": 180.0, "skin_color": "Light", "veteran_status": "Yes"}

	got := Changes(older, newer, set())
	if len(got) != 2 || got["height"] != 73.0 || got["veteran_status"] != "Yes" {
		t.Fatalf("Changes = %v", got)
	}
	if _, ok := got["weight"]; ok {
		t.Fatalf("unchanged weight reported")
	}
}

func TestChanges_Identity(t *testing.T) {
	x := schema.Data{
		"name":                    "Jane",
		"approximate_age":         []any{30.0, 35.0},
		"substance_abuse_history": []any{"Alcohol", "Drugs"},
		"location":                map[string]any{"lat": 1.0, "lon": 2.0},
		"notes":                   nil,
	}
	if got := Changes(x, x, set()); len(got) != 0 {
		t.Fatalf("diff(x,x) = %v", got)
	}
}

func TestChanges_Structural(t *testing.T) {
	tests := []struct {
		name    string
		older   any
		newer   any
		key     string
		changed bool
	}{
		{"int vs float", json.Number("72"), 72.0, "height", false},
		{"multi select order", []any{"Alcohol", "Drugs"}, []any{"Drugs", "Alcohol"}, "substance_abuse_history", false},
		{"multi select added", []any{"Alcohol"}, []any{"Alcohol", "Drugs"}, "substance_abuse_history", true},
		{"range order matters", []any{30.0, 35.0}, []any{35.0, 30.0}, "approximate_age", true},
		{"range equal", []any{30.0, 35.0}, []any{30.0, 35.0}, "approximate_age", false},
		{"object keys", map[string]any{"lat": 1.0}, map[string]any{"lat": 1.0, "lon": 2.0}, "spot", true},
		{"null to value", nil, "x", "notes", true},
		{"type change", "72", 72.0, "height", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Changes(schema.Data{tc.key: tc.older}, schema.Data{tc.key: tc.newer}, set())
			if _, ok := got[tc.key]; ok != tc.changed {
				t.Fatalf("changed = %v, want %v", ok, tc.changed)
			}
		})
	}
}

func TestChanges_AbsentKeysAreNotDeletions(t *testing.T) {
	got := Changes(schema.Data{"height": 72.0, "gender": "Male"}, schema.Data{"height": 72.0}, set())
	if len(got) != 0 {
		t.Fatalf("expected no changes, got %v", got)
	}
}

func TestApply_ReplaysHistory(t *testing.T) {
	first := schema.Data{"name": "John", "height": 72.0}
	second := schema.Data{"name": "John", "height": 73.0, "weight": 180.0}
	third := schema.Data{"weight": 175.0, "skin_color": "Light"}

	current := first.Merge(second).Merge(third)
	replayed := Apply(Apply(first, Changes(first, second, set())), Changes(first.Merge(second), third, set()))

	if len(replayed) != len(current) {
		t.Fatalf("replayed = %v, want %v", replayed, current)
	}
	for k, v := range current {
		if !Equal(replayed[k], v, "") {
			t.Fatalf("key %s: replayed %v, want %v", k, replayed[k], v)
		}
	}
}
