// Package repo reads the searchable projection of individuals from postgres
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"outreach/internal/core/geo"
	"outreach/internal/core/search"
	"outreach/internal/modkit/repokit"
	"outreach/internal/platform/store"
)

// Row is one basic search row
type Row struct {
	ID       string
	Name     string
	Score    int
	Override *int
	Display  int
	PhotoURL string
	LastSeen time.Time
	Address  string
}

// Page selects a window of the basic list
type Page struct {
	// Pattern is an escaped ILIKE pattern, empty for no text filter
	Pattern string
	SortBy  string
	Order   string
	Limit   int
	Offset  int
}

// Repo is the persistence surface for search
type Repo interface {
	// Basic returns one page of summaries plus the unpaged total
	Basic(ctx context.Context, p Page) ([]Row, int, error)
	// Records returns every individual matching pattern as a search record
	Records(ctx context.Context, pattern string) ([]search.Record, error)
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

// projection joins the latest interaction for last_seen and the latest located
// interaction for the address
const projection = `
	FROM individuals i
	LEFT JOIN LATERAL (
		SELECT created_at FROM interactions
		WHERE individual_id = i.id
		ORDER BY created_at DESC LIMIT 1
	) li ON TRUE
	LEFT JOIN LATERAL (
		SELECT latitude, longitude, address FROM interactions
		WHERE individual_id = i.id AND latitude IS NOT NULL AND longitude IS NOT NULL
		ORDER BY created_at DESC LIMIT 1
	) ll ON TRUE
	WHERE ($1 = '' OR i.name ILIKE $1 ESCAPE '\' OR i.data::text ILIKE $1 ESCAPE '\')`

var orderBy = map[string]string{
	"last_seen":     "last_seen",
	"urgency_score": "display",
	"name":          "lower(i.name)",
}

func (r *queries) Basic(ctx context.Context, p Page) ([]Row, int, error) {
	col, ok := orderBy[p.SortBy]
	if !ok {
		return nil, 0, fmt.Errorf("unknown sort %q", p.SortBy)
	}
	dir := "DESC"
	if p.Order == "asc" {
		dir = "ASC"
	}
	sql := `
		SELECT i.id::text, i.name, i.urgency_score, i.urgency_override,
		       COALESCE(i.urgency_override, i.urgency_score) AS display,
		       COALESCE(i.photo_url, ''),
		       COALESCE(li.created_at, i.updated_at) AS last_seen,
		       COALESCE(ll.address, ''),
		       COUNT(*) OVER ()` + projection + `
		ORDER BY ` + col + ` ` + dir + `, i.id
		LIMIT $2 OFFSET $3`

	total := 0
	rows, err := store.Many(ctx, r.q, func(row store.Row) (Row, error) {
		var x Row
		err := row.Scan(&x.ID, &x.Name, &x.Score, &x.Override, &x.Display, &x.PhotoURL,
			&x.LastSeen, &x.Address, &total)
		return x, err
	}, sql, p.Pattern, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	if len(rows) == 0 && p.Offset > 0 {
		// a page past the end has no window row to carry the count
		if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+projection, p.Pattern).Scan(&total); err != nil {
			return nil, 0, err
		}
	}
	return rows, total, nil
}

func (r *queries) Records(ctx context.Context, pattern string) ([]search.Record, error) {
	const sql = `
		SELECT i.id::text, i.name, i.data,
		       COALESCE(i.urgency_override, i.urgency_score),
		       COALESCE(i.photo_url, '') <> '',
		       COALESCE(li.created_at, i.updated_at),
		       ll.latitude, ll.longitude, COALESCE(ll.address, '')` + projection
	return store.Many(ctx, r.q, scanRecord, sql, pattern)
}

func scanRecord(row store.Row) (search.Record, error) {
	var (
		x        search.Record
		raw      []byte
		lat, lon *float64
	)
	if err := row.Scan(&x.ID, &x.Name, &raw, &x.Display, &x.HasPhoto, &x.LastSeen,
		&lat, &lon, &x.Address); err != nil {
		return x, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &x.Data); err != nil {
			return x, fmt.Errorf("individual %s data: %w", x.ID, err)
		}
	}
	if lat != nil && lon != nil {
		x.Location = &geo.Point{Lat: *lat, Lon: *lon}
	}
	return x, nil
}
