//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"testing"

	"outreach/internal/core/schema"
	perr "outreach/internal/platform/errors"
	"outreach/internal/platform/store/pgtest"
)

func TestCategories_Integration(t *testing.T) {
	db := pgtest.Start(t)
	r := NewPG().Bind(db)
	ctx := context.Background()

	n, err := r.Seed(ctx, schema.MustPresets())
	if err != nil || n != 7 {
		t.Fatalf("seed n=%d err=%v", n, err)
	}
	if n, err = r.Seed(ctx, schema.MustPresets()); err != nil || n != 0 {
		t.Fatalf("reseed n=%d err=%v", n, err)
	}

	cats, err := r.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	set := schema.NewSet(cats)
	skin, ok := set.Get(schema.FieldSkinColor)
	if !ok || len(skin.Options) != 3 || !skin.IsPreset {
		t.Fatalf("skin_color round trip: %+v", skin)
	}
	subst, _ := set.Get(schema.FieldSubstance)
	if len(subst.Labels()) != 4 {
		t.Fatalf("multi select labels: %+v", subst.Options)
	}

	created, err := r.Insert(ctx, schema.Category{
		Name: "has_pet", Type: schema.TypeSingleSelect, Priority: schema.PriorityLow,
		Options: []schema.Option{{Label: "Yes", NumericValue: 0.3}, {Label: "No"}}, UrgencyWeight: 10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() || created.Options[0].NumericValue != 0.3 {
		t.Fatalf("insert returned %+v", created)
	}

	_, err = r.Insert(ctx, schema.Category{Name: "HAS_PET", Type: schema.TypeText, Priority: schema.PriorityLow})
	if !perr.IsDuplicateKey(err) {
		t.Fatalf("case-folded duplicate not rejected: %v", err)
	}
}
