// Package repo provides postgres access for categories
package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"outreach/internal/core/schema"
	"outreach/internal/modkit/repokit"
	"outreach/internal/platform/store"
)

// Repo is the persistence surface for categories
type Repo interface {
	List(ctx context.Context) ([]schema.Category, error)
	Insert(ctx context.Context, c schema.Category) (schema.Category, error)
	// Seed inserts presets whose names are not taken yet and returns how many were added
	Seed(ctx context.Context, cats []schema.Category) (int, error)
}

type (
	// PG is a binder for the postgres implementation
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const columns = `id::text, name, type, is_required, is_preset, options, urgency_weight,
	auto_trigger, priority, display_order, created_at, updated_at`

func scan(r store.Row) (schema.Category, error) {
	var (
		c    schema.Category
		opts []byte
	)
	err := r.Scan(&c.ID, &c.Name, &c.Type, &c.IsRequired, &c.IsPreset, &opts, &c.UrgencyWeight,
		&c.AutoTrigger, &c.Priority, &c.DisplayOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return c, err
	}
	if len(opts) > 0 && string(opts) != "null" {
		if err := json.Unmarshal(opts, &c.Options); err != nil {
			return c, fmt.Errorf("category %s options: %w", c.Name, err)
		}
	}
	return c, nil
}

// optionsJSON stores multi-select options as labels and single-select as objects
func optionsJSON(c schema.Category) ([]byte, error) {
	switch c.Type {
	case schema.TypeSingleSelect:
		return json.Marshal(c.Options)
	case schema.TypeMultiSelect:
		return json.Marshal(c.Labels())
	}
	return nil, nil
}

func (r *queries) List(ctx context.Context) ([]schema.Category, error) {
	return store.Many(ctx, r.q, scan, `SELECT `+columns+` FROM categories ORDER BY display_order, name`)
}

func (r *queries) Insert(ctx context.Context, c schema.Category) (schema.Category, error) {
	opts, err := optionsJSON(c)
	if err != nil {
		return schema.Category{}, err
	}
	const sql = `
		INSERT INTO categories (name, type, is_required, is_preset, options, urgency_weight,
		                        auto_trigger, priority, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + columns
	return scan(r.q.QueryRow(ctx, sql, c.Name, string(c.Type), c.IsRequired, c.IsPreset, opts,
		c.UrgencyWeight, c.AutoTrigger, string(c.Priority), c.DisplayOrder))
}

func (r *queries) Seed(ctx context.Context, cats []schema.Category) (int, error) {
	const sql = `
		INSERT INTO categories (name, type, is_required, is_preset, options, urgency_weight,
		                        auto_trigger, priority, display_order)
		VALUES ($1, $2, $3, TRUE, $4, $5, $6, $7, $8)
		ON CONFLICT ((lower(name))) DO NOTHING`
	added := 0
	for _, c := range cats {
		opts, err := optionsJSON(c)
		if err != nil {
			return added, err
		}
		tag, err := r.q.Exec(ctx, sql, c.Name, string(c.Type), c.IsRequired, opts,
			c.UrgencyWeight, c.AutoTrigger, string(c.Priority), c.DisplayOrder)
		if err != nil {
			return added, fmt.Errorf("seed %s: %w", c.Name, err)
		}
		added += int(tag.RowsAffected())
	}
	return added, nil
}
