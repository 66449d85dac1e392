//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"testing"

	"outreach/internal/platform/store/pgtest"
)

func TestSearch_Integration(t *testing.T) {
	db := pgtest.Start(t)
	ctx := context.Background()

	seed := []string{
		`INSERT INTO individuals (id, name, data, urgency_score, urgency_override, photo_url, updated_at)
		 VALUES ('11111111-1111-4111-8111-111111111111', 'John', '{"name":"John","gender":"Male","note":"50% done"}', 40, 90, 'P1', now() - interval '3 days')`,
		`INSERT INTO individuals (id, name, data, urgency_score, updated_at)
		 VALUES ('22222222-2222-4222-8222-222222222222', 'Maria', '{"name":"Maria","gender":"Female"}', 60, now() - interval '1 day')`,
		`INSERT INTO interactions (individual_id, user_id, latitude, longitude, address, created_at)
		 VALUES ('11111111-1111-4111-8111-111111111111', 'u1', 37.7, -122.4, '123 Market St, SF', now() - interval '2 hours')`,
		`INSERT INTO interactions (individual_id, user_id, created_at)
		 VALUES ('11111111-1111-4111-8111-111111111111', 'u1', now() - interval '1 hour')`,
	}
	for _, sql := range seed {
		if _, err := db.Exec(ctx, sql); err != nil {
			t.Fatal(err)
		}
	}
	r := NewPG().Bind(db)

	rows, total, err := r.Basic(ctx, Page{SortBy: "urgency_score", Order: "desc", Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || rows[0].Name != "John" || rows[0].Display != 90 || rows[0].Address != "123 Market St, SF" {
		t.Fatalf("rows = %+v total %d", rows, total)
	}

	rows, total, err = r.Basic(ctx, Page{SortBy: "last_seen", Order: "desc", Limit: 1, Offset: 5})
	if err != nil || total != 2 || len(rows) != 0 {
		t.Fatalf("past end rows = %+v total %d err %v", rows, total, err)
	}

	rows, _, err = r.Basic(ctx, Page{Pattern: `%50\%%`, SortBy: "name", Order: "asc", Limit: 10})
	if err != nil || len(rows) != 1 || rows[0].Name != "John" {
		t.Fatalf("escaped pattern rows = %+v err %v", rows, err)
	}

	recs, err := r.Records(ctx, "")
	if err != nil || len(recs) != 2 {
		t.Fatalf("records = %+v err %v", recs, err)
	}
	for _, rec := range recs {
		switch rec.Name {
		case "John":
			if rec.Location == nil || !rec.HasPhoto || rec.Data["gender"] != "Male" {
				t.Fatalf("john = %+v", rec)
			}
		case "Maria":
			if rec.Location != nil || rec.HasPhoto || rec.Display != 60 {
				t.Fatalf("maria = %+v", rec)
			}
		}
	}

	recs, err = r.Records(ctx, "%female%")
	if err != nil || len(recs) != 1 || recs[0].Name != "Maria" {
		t.Fatalf("data text search = %+v err %v", recs, err)
	}
}
