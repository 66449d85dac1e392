// Package repo reads the export projection from postgres
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"outreach/internal/core/schema"
	"outreach/internal/modkit/repokit"
	"outreach/internal/platform/store"
)

// Record is one individual with its raw data and newest interaction
type Record struct {
	ID           string
	Name         string
	Data         schema.Data
	DisplayScore int
	LastSeen     *time.Time
}

// Repo is the persistence surface for export
type Repo interface {
	All(ctx context.Context) ([]Record, error)
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

func (r *queries) All(ctx context.Context) ([]Record, error) {
	const sql = `
		SELECT i.id::text, i.name, i.data, COALESCE(i.urgency_override, i.urgency_score),
		       (SELECT max(n.created_at) FROM interactions n WHERE n.individual_id = i.id)
		FROM individuals i
		ORDER BY lower(i.name), i.id`
	return store.Many(ctx, r.q, func(row store.Row) (Record, error) {
		var (
			rec Record
			raw []byte
		)
		if err := row.Scan(&rec.ID, &rec.Name, &raw, &rec.DisplayScore, &rec.LastSeen); err != nil {
			return rec, err
		}
		if err := json.Unmarshal(raw, &rec.Data); err != nil {
			return rec, fmt.Errorf("individual %s data: %w", rec.ID, err)
		}
		return rec, nil
	}, sql)
}
