// Package repo provides postgres access for individuals and interactions
package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"outreach/internal/modkit/repokit"
	"outreach/internal/platform/store"
	"outreach/internal/services/api/individuals/domain"
)

// Repo is the persistence surface for individuals
type Repo interface {
	Get(ctx context.Context, id string) (domain.Individual, error)
	// Lock reads an individual and holds its row until the surrounding tx ends
	Lock(ctx context.Context, id string) (domain.Individual, error)
	Exists(ctx context.Context, id string) (bool, error)
	Insert(ctx context.Context, ind domain.Individual) (domain.Individual, error)
	// Update writes name, data, score and photo fields. The override is left alone
	Update(ctx context.Context, ind domain.Individual) (domain.Individual, error)
	SetOverride(ctx context.Context, id string, value *int) (domain.OverrideResult, error)
	// LinkConsents attaches consents recorded for photoURL before the individual existed
	LinkConsents(ctx context.Context, individualID, photoURL string) (int64, error)

	InsertInteraction(ctx context.Context, x domain.Interaction) (domain.Interaction, error)
	Interactions(ctx context.Context, individualID string, limit, offset int) ([]domain.Interaction, int, error)

	// ByName returns individuals whose name equals name ignoring case
	ByName(ctx context.Context, name string) ([]domain.Candidate, error)
	// NameLike returns individuals whose name matches an escaped ILIKE pattern
	NameLike(ctx context.Context, pattern string, limit int) ([]domain.Candidate, error)
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

const individualCols = `id::text, name, data, urgency_score, urgency_override,
	COALESCE(photo_url, ''), photo_history, created_at, updated_at`

func scanIndividual(r store.Row) (domain.Individual, error) {
	var (
		ind        domain.Individual
		data, hist []byte
	)
	err := r.Scan(&ind.ID, &ind.Name, &data, &ind.UrgencyScore, &ind.UrgencyOverride,
		&ind.PhotoURL, &hist, &ind.CreatedAt, &ind.UpdatedAt)
	if err != nil {
		return ind, err
	}
	if err := json.Unmarshal(data, &ind.Data); err != nil {
		return ind, fmt.Errorf("individual %s data: %w", ind.ID, err)
	}
	if err := json.Unmarshal(hist, &ind.PhotoHistory); err != nil {
		return ind, fmt.Errorf("individual %s photo history: %w", ind.ID, err)
	}
	ind.Derive()
	return ind, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func encode(ind domain.Individual) (data, hist []byte, err error) {
	if data, err = json.Marshal(ind.Data); err != nil {
		return nil, nil, err
	}
	if ind.PhotoHistory == nil {
		ind.PhotoHistory = []domain.PhotoEntry{}
	}
	hist, err = json.Marshal(ind.PhotoHistory)
	return data, hist, err
}

func (r *queries) Get(ctx context.Context, id string) (domain.Individual, error) {
	return store.One(ctx, r.q, scanIndividual, `SELECT `+individualCols+` FROM individuals WHERE id = $1`, id)
}

func (r *queries) Lock(ctx context.Context, id string) (domain.Individual, error) {
	return store.One(ctx, r.q, scanIndividual,
		`SELECT `+individualCols+` FROM individuals WHERE id = $1 FOR UPDATE`, id)
}

func (r *queries) Exists(ctx context.Context, id string) (bool, error) {
	return store.Scalar[bool](ctx, r.q, `SELECT EXISTS (SELECT 1 FROM individuals WHERE id = $1)`, id)
}

func (r *queries) Insert(ctx context.Context, ind domain.Individual) (domain.Individual, error) {
	data, hist, err := encode(ind)
	if err != nil {
		return domain.Individual{}, err
	}
	const sql = `
		INSERT INTO individuals (name, data, urgency_score, urgency_override, photo_url, photo_history)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + individualCols
	return store.One(ctx, r.q, scanIndividual, sql,
		ind.Name, data, ind.UrgencyScore, ind.UrgencyOverride, nullable(ind.PhotoURL), hist)
}

func (r *queries) Update(ctx context.Context, ind domain.Individual) (domain.Individual, error) {
	data, hist, err := encode(ind)
	if err != nil {
		return domain.Individual{}, err
	}
	const sql = `
		UPDATE individuals
		SET name = $2, data = $3, urgency_score = $4, photo_url = $5, photo_history = $6, updated_at = now()
		WHERE id = $1
		RETURNING ` + individualCols
	return store.One(ctx, r.q, scanIndividual, sql,
		ind.ID, ind.Name, data, ind.UrgencyScore, nullable(ind.PhotoURL), hist)
}

func (r *queries) SetOverride(ctx context.Context, id string, value *int) (domain.OverrideResult, error) {
	const sql = `
		UPDATE individuals SET urgency_override = $2, updated_at = now()
		WHERE id = $1
		RETURNING urgency_score, urgency_override`
	return store.One(ctx, r.q, func(row store.Row) (domain.OverrideResult, error) {
		var out domain.OverrideResult
		err := row.Scan(&out.UrgencyScore, &out.UrgencyOverride)
		return out, err
	}, sql, id, value)
}

func (r *queries) LinkConsents(ctx context.Context, individualID, photoURL string) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE photo_consents SET individual_id = $1 WHERE photo_url = $2 AND individual_id IS NULL`,
		individualID, photoURL)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const interactionCols = `id::text, individual_id::text, user_id, user_name, COALESCE(transcription, ''),
	COALESCE(audio_url, ''), latitude, longitude, COALESCE(address, ''), changes, created_at`

func scanInteraction(r store.Row) (domain.Interaction, error) {
	var (
		x        domain.Interaction
		lat, lon *float64
		addr     string
		changes  []byte
	)
	err := r.Scan(&x.ID, &x.IndividualID, &x.UserID, &x.UserName, &x.Transcription,
		&x.AudioURL, &lat, &lon, &addr, &changes, &x.CreatedAt)
	if err != nil {
		return x, err
	}
	if lat != nil && lon != nil {
		x.Location = &domain.Location{Latitude: *lat, Longitude: *lon, Address: addr}
	}
	if err := json.Unmarshal(changes, &x.Changes); err != nil {
		return x, fmt.Errorf("interaction %s changes: %w", x.ID, err)
	}
	return x, nil
}

func (r *queries) InsertInteraction(ctx context.Context, x domain.Interaction) (domain.Interaction, error) {
	changes, err := json.Marshal(x.Changes)
	if err != nil {
		return domain.Interaction{}, err
	}
	var lat, lon, addr any
	if x.Location != nil {
		lat, lon, addr = x.Location.Latitude, x.Location.Longitude, x.Location.Address
	}
	const sql = `
		INSERT INTO interactions (individual_id, user_id, user_name, transcription, audio_url,
		                          latitude, longitude, address, changes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + interactionCols
	return store.One(ctx, r.q, scanInteraction, sql, x.IndividualID, x.UserID, x.UserName,
		nullable(x.Transcription), nullable(x.AudioURL), lat, lon, addr, changes)
}

func (r *queries) Interactions(ctx context.Context, individualID string, limit, offset int) ([]domain.Interaction, int, error) {
	out, err := store.Many(ctx, r.q, scanInteraction, `
		SELECT `+interactionCols+` FROM interactions
		WHERE individual_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`, individualID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := store.Scalar[int](ctx, r.q, `SELECT COUNT(*) FROM interactions WHERE individual_id = $1`, individualID)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func scanCandidate(r store.Row) (domain.Candidate, error) {
	var (
		c    domain.Candidate
		data []byte
	)
	if err := r.Scan(&c.ID, &c.Name, &data); err != nil {
		return c, err
	}
	if err := json.Unmarshal(data, &c.Data); err != nil {
		return c, fmt.Errorf("individual %s data: %w", c.ID, err)
	}
	return c, nil
}

func (r *queries) ByName(ctx context.Context, name string) ([]domain.Candidate, error) {
	return store.Many(ctx, r.q, scanCandidate,
		`SELECT id::text, name, data FROM individuals WHERE lower(name) = lower($1) ORDER BY updated_at DESC`, name)
}

func (r *queries) NameLike(ctx context.Context, pattern string, limit int) ([]domain.Candidate, error) {
	return store.Many(ctx, r.q, scanCandidate, `
		SELECT id::text, name, data FROM individuals
		WHERE name ILIKE $1 ESCAPE '\'
		ORDER BY updated_at DESC
		LIMIT $2`, pattern, limit)
}
