// Package service orchestrates individual saves, merges and interaction history
package service

import (
	"context"
	"strings"

	"outreach/internal/core/diff"
	"outreach/internal/core/schema"
	"outreach/internal/core/urgency"
	"outreach/internal/core/validate"
	"outreach/internal/modkit/repokit"
	perr "outreach/internal/platform/errors"
	"outreach/internal/platform/logger"
	"outreach/internal/platform/metrics"
	catdomain "outreach/internal/services/api/categories/domain"
	"outreach/internal/services/api/individuals/domain"
	"outreach/internal/services/api/individuals/repo"

	"github.com/google/uuid"
)

// maxLikeCandidates caps the substring fallback of the duplicate prefilter
const maxLikeCandidates = 50

// Service is the public port plus what the photo and transcription modules consume
type Service interface {
	domain.ServicePort
	domain.PhotoTarget
	domain.CandidateFinder
}

// Svc implements Service
type Svc struct {
	Repo   repo.Repo
	db     repokit.TxRunner
	binder repokit.Binder[repo.Repo]
	cats   catdomain.Registry
	log    logger.Logger
}

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], cats catdomain.Registry) *Svc {
	if db == nil {
		panic("individuals.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("individuals.Service requires a non nil Repo binder")
	}
	if cats == nil {
		panic("individuals.Service requires a category Registry")
	}
	return &Svc{Repo: binder.Bind(db), db: db, binder: binder, cats: cats, log: *logger.Named("individuals")}
}

func notFound(id string) error { return perr.NotFoundf("individual %s not found", id) }

// validID rejects ids that cannot name a row so storage never sees them
func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notFound(id)
	}
	return nil
}

// storeErr maps a storage error, keeping not found distinct
func storeErr(err error, id, msg string) error {
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return notFound(id)
	}
	return perr.FromPostgres(err, msg)
}

// Save validates, scores and persists data, then appends an interaction.
// The individual write commits on its own; a failed interaction insert is
// logged and reported as a nil interaction
func (s *Svc) Save(ctx context.Context, u domain.User, in domain.SaveInput) (domain.SaveResult, error) {
	set, err := s.cats.Set(ctx)
	if err != nil {
		return domain.SaveResult{}, err
	}
	if err := validate.Record(in.Data, set).Err(); err != nil {
		return domain.SaveResult{}, err
	}
	if in.MergeWithID != "" {
		if err := validID(in.MergeWithID); err != nil {
			return domain.SaveResult{}, err
		}
	}

	var (
		ind     domain.Individual
		changes schema.Data
		kind    = "create"
	)
	err = s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		var e error
		if in.MergeWithID != "" {
			kind = "merge"
			ind, changes, e = s.merge(ctx, r, set, in)
		} else {
			ind, e = r.Insert(ctx, domain.Individual{
				Name:         in.Data.Name(),
				Data:         in.Data,
				UrgencyScore: urgency.Score(in.Data, set),
				PhotoURL:     in.PhotoURL,
			})
			changes = in.Data.Clone()
		}
		if e != nil {
			return e
		}
		if in.PhotoURL != "" {
			if _, e := r.LinkConsents(ctx, ind.ID, in.PhotoURL); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return domain.SaveResult{}, storeErr(err, in.MergeWithID, "save individual")
	}

	out := domain.SaveResult{Individual: ind}
	x, err := s.Repo.InsertInteraction(ctx, domain.Interaction{
		IndividualID:  ind.ID,
		UserID:        u.ID,
		UserName:      u.Name,
		Transcription: strings.TrimSpace(in.Transcription),
		AudioURL:      in.AudioURL,
		Location:      in.Location,
		Changes:       changes,
	})
	if err != nil {
		metrics.Registry.Saves.WithLabelValues(kind, "failed").Inc()
		logger.C(ctx).Error().Err(err).Str("individual_id", ind.ID).Msg("interaction write failed after save")
		return out, nil
	}
	metrics.Registry.Saves.WithLabelValues(kind, "ok").Inc()
	sum := x.Summary()
	out.Interaction = &sum

	logger.C(ctx).Info().
		Str("individual_id", ind.ID).
		Str("kind", kind).
		Int("changed", len(changes)).
		Int("urgency", ind.UrgencyScore).
		Msg("individual saved")
	return out, nil
}

func (s *Svc) merge(ctx context.Context, r repo.Repo, set *schema.Set, in domain.SaveInput) (domain.Individual, schema.Data, error) {
	old, err := r.Lock(ctx, in.MergeWithID)
	if err != nil {
		return domain.Individual{}, nil, err
	}
	changes := diff.Changes(old.Data, in.Data, set)

	next := old
	next.Data = diff.Apply(old.Data, in.Data)
	if n := next.Data.Name(); n != "" {
		next.Name = n
	}
	next.UrgencyScore = urgency.Score(next.Data, set)
	next.PushPhoto(in.PhotoURL)

	ind, err := r.Update(ctx, next)
	return ind, changes, err
}

// Get returns an individual with its latest interaction summaries
func (s *Svc) Get(ctx context.Context, id string) (domain.Detail, error) {
	if err := validID(id); err != nil {
		return domain.Detail{}, err
	}
	ind, err := s.Repo.Get(ctx, id)
	if err != nil {
		return domain.Detail{}, storeErr(err, id, "get individual")
	}
	recent, _, err := s.Repo.Interactions(ctx, id, domain.RecentInteractions, 0)
	if err != nil {
		return domain.Detail{}, perr.FromPostgres(err, "list interactions")
	}
	out := domain.Detail{Individual: ind, RecentInteractions: make([]domain.InteractionSummary, len(recent))}
	for i, x := range recent {
		out.RecentInteractions[i] = x.Summary()
	}
	return out, nil
}

// SetOverride stores or clears the manual urgency. The computed score is untouched
func (s *Svc) SetOverride(ctx context.Context, id string, value *int) (domain.OverrideResult, error) {
	if err := validID(id); err != nil {
		return domain.OverrideResult{}, err
	}
	if value != nil && (*value < 0 || *value > urgency.Max) {
		return domain.OverrideResult{}, perr.Validation("urgency_override must be between 0 and 100",
			perr.FieldIssue{Field: "urgency_override", Message: "must be between 0 and 100"})
	}
	out, err := s.Repo.SetOverride(ctx, id, value)
	if err != nil {
		return domain.OverrideResult{}, storeErr(err, id, "set urgency override")
	}
	out.DisplayScore = urgency.Display(out.UrgencyScore, out.UrgencyOverride)
	logger.C(ctx).Info().Str("individual_id", id).Bool("cleared", value == nil).Msg("urgency override set")
	return out, nil
}

// Interactions lists full interactions newest first
func (s *Svc) Interactions(ctx context.Context, id string, limit, offset int) ([]domain.Interaction, int, error) {
	if err := validID(id); err != nil {
		return nil, 0, err
	}
	if limit == 0 {
		limit = domain.InteractionsDefaultLimit
	}
	var issues []perr.FieldIssue
	if limit < 1 || limit > domain.InteractionsMaxLimit {
		issues = append(issues, perr.FieldIssue{Field: "limit", Message: "must be between 1 and 100"})
	}
	if offset < 0 {
		issues = append(issues, perr.FieldIssue{Field: "offset", Message: "must not be negative"})
	}
	if len(issues) > 0 {
		return nil, 0, perr.Validation(issues[0].Field+" "+issues[0].Message, issues...)
	}

	ok, err := s.Repo.Exists(ctx, id)
	if err != nil {
		return nil, 0, perr.FromPostgres(err, "get individual")
	}
	if !ok {
		return nil, 0, notFound(id)
	}
	out, total, err := s.Repo.Interactions(ctx, id, limit, offset)
	if err != nil {
		return nil, 0, perr.FromPostgres(err, "list interactions")
	}
	return out, total, nil
}

// Exists reports whether id names an individual
func (s *Svc) Exists(ctx context.Context, id string) (bool, error) {
	if validID(id) != nil {
		return false, nil
	}
	ok, err := s.Repo.Exists(ctx, id)
	if err != nil {
		return false, perr.FromPostgres(err, "get individual")
	}
	return ok, nil
}

// ReplacePhoto makes url the current photo without recording an interaction
func (s *Svc) ReplacePhoto(ctx context.Context, id, url string) (domain.Individual, error) {
	if err := validID(id); err != nil {
		return domain.Individual{}, err
	}
	var out domain.Individual
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		ind, err := r.Lock(ctx, id)
		if err != nil {
			return err
		}
		ind.PushPhoto(url)
		out, err = r.Update(ctx, ind)
		return err
	})
	if err != nil {
		return domain.Individual{}, storeErr(err, id, "replace photo")
	}
	return out, nil
}

// Candidates returns exact case-insensitive name matches, falling back to a
// capped substring match when there are none
func (s *Svc) Candidates(ctx context.Context, name string) ([]domain.Candidate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	out, err := s.Repo.ByName(ctx, name)
	if err != nil {
		return nil, perr.FromPostgres(err, "find candidates")
	}
	if len(out) > 0 {
		return out, nil
	}
	out, err = s.Repo.NameLike(ctx, repokit.Contains(name), maxLikeCandidates)
	if err != nil {
		return nil, perr.FromPostgres(err, "find candidates")
	}
	return out, nil
}
