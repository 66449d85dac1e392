// Package repo records photo consents
package repo

import (
	"context"

	"outreach/internal/modkit/repokit"
	"outreach/internal/platform/store"
	"outreach/internal/services/api/photos/domain"
)

// Repo is the persistence surface for consents
type Repo interface {
	InsertConsent(ctx context.Context, c domain.Consent) (domain.Consent, error)
	DeleteConsent(ctx context.Context, id string) error
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

func (r *queries) InsertConsent(ctx context.Context, c domain.Consent) (domain.Consent, error) {
	var individual any
	if c.IndividualID != "" {
		individual = c.IndividualID
	}
	const sql = `
		INSERT INTO photo_consents (individual_id, photo_url, consented_by,
		                            consent_latitude, consent_longitude, consent_address, is_update)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id::text, created_at`
	return store.One(ctx, r.q, func(row store.Row) (domain.Consent, error) {
		out := c
		err := row.Scan(&out.ID, &out.CreatedAt)
		return out, err
	}, sql, individual, c.PhotoURL, c.ConsentedBy,
		c.Location.Latitude, c.Location.Longitude, c.Location.Address, c.IsUpdate)
}

func (r *queries) DeleteConsent(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM photo_consents WHERE id = $1`, id)
	return err
}
