// Package service validates, transcodes and stores photos with their consent records
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"outreach/internal/adapters/objectstore"
	"outreach/internal/modkit/repokit"
	perr "outreach/internal/platform/errors"
	"outreach/internal/platform/logger"
	"outreach/internal/platform/metrics"
	"outreach/internal/platform/net/http/bind"
	"outreach/internal/platform/retry"
	inddomain "outreach/internal/services/api/individuals/domain"
	"outreach/internal/services/api/photos/domain"
	"outreach/internal/services/api/photos/repo"

	"github.com/google/uuid"
)

// Options control the pipeline
type Options struct {
	MaxBytes     int64
	MaxDimension int
	Quality      int
	Attempts     int
	Delays       []time.Duration
}

func (o *Options) defaults() {
	if o.MaxBytes <= 0 {
		o.MaxBytes = 5 << 20
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = 85
	}
	if o.Attempts <= 0 {
		o.Attempts = 3
	}
	if o.Delays == nil {
		o.Delays = []time.Duration{time.Second, 2 * time.Second}
	}
}

// Svc implements domain.ServicePort
type Svc struct {
	Repo        repo.Repo
	db          repokit.TxRunner
	store       objectstore.Store
	individuals inddomain.PhotoTarget
	opt         Options
	log         logger.Logger
}

var now = time.Now

// New constructs the service. A nil store leaves every upload unavailable
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], st objectstore.Store,
	individuals inddomain.PhotoTarget, opt Options,
) *Svc {
	if db == nil {
		panic("photos.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("photos.Service requires a non nil Repo binder")
	}
	if individuals == nil {
		panic("photos.Service requires an individuals PhotoTarget")
	}
	opt.defaults()
	return &Svc{
		Repo:        binder.Bind(db),
		db:          db,
		store:       st,
		individuals: individuals,
		opt:         opt,
		log:         *logger.Named("photos"),
	}
}

// Upload stores an intake photo. A given individual must exist
func (s *Svc) Upload(ctx context.Context, userID string, in domain.Upload) (domain.Result, error) {
	return s.run(ctx, userID, in, false)
}

// Replace stores a profile photo and demotes the current one into history
// without recording an interaction
func (s *Svc) Replace(ctx context.Context, userID string, in domain.Upload) (domain.Result, error) {
	if strings.TrimSpace(in.IndividualID) == "" {
		return domain.Result{}, perr.Validation("individual_id is required",
			perr.FieldIssue{Field: "individual_id", Message: "is required"})
	}
	return s.run(ctx, userID, in, true)
}

func (s *Svc) run(ctx context.Context, userID string, in domain.Upload, update bool) (domain.Result, error) {
	if s.store == nil {
		return domain.Result{}, perr.Unavailablef("photo storage is not configured")
	}
	if int64(len(in.Body)) > s.opt.MaxBytes {
		return domain.Result{}, perr.TooLargef("photo exceeds %d bytes", s.opt.MaxBytes)
	}
	if len(in.Body) == 0 {
		return domain.Result{}, perr.Validation("photo is required", perr.FieldIssue{Field: "photo", Message: "is required"})
	}
	if err := bind.Struct(in.Consent); err != nil {
		return domain.Result{}, perr.WithFieldChain(err, "consent_location")
	}
	if err := checkType(in.DeclaredType, in.Body); err != nil {
		return domain.Result{}, err
	}
	in.IndividualID = strings.TrimSpace(in.IndividualID)
	if in.IndividualID != "" {
		ok, err := s.individuals.Exists(ctx, in.IndividualID)
		if err != nil {
			return domain.Result{}, err
		}
		if !ok {
			return domain.Result{}, perr.NotFoundf("individual %s not found", in.IndividualID)
		}
	}

	jpg, err := transcode(in.Body, s.opt.MaxDimension, s.opt.Quality)
	if err != nil {
		return domain.Result{}, err
	}

	key := fmt.Sprintf("photos/%s/%d_%s.jpg", userID, now().Unix(), uuid.NewString())
	if err := s.put(ctx, key, jpg); err != nil {
		return domain.Result{}, err
	}
	url := s.store.PublicURL(key)

	consent, err := s.Repo.InsertConsent(ctx, domain.Consent{
		IndividualID: in.IndividualID,
		PhotoURL:     url,
		ConsentedBy:  userID,
		Location:     in.Consent,
		IsUpdate:     update,
	})
	if err != nil {
		s.cleanup(ctx, key)
		logger.C(ctx).Error().Err(err).Str("key", key).Msg("consent write failed, photo removed")
		return domain.Result{}, perr.Internalf("photo consent could not be recorded")
	}

	if update {
		if _, err := s.individuals.ReplacePhoto(ctx, in.IndividualID, url); err != nil {
			s.cleanup(ctx, key)
			s.dropConsent(ctx, consent.ID)
			logger.C(ctx).Error().Err(err).Str("key", key).Msg("photo replace failed, photo and consent removed")
			return domain.Result{}, err
		}
	}

	logger.C(ctx).Info().
		Str("key", key).
		Str("individual_id", in.IndividualID).
		Bool("update", update).
		Int("bytes", len(jpg)).
		Msg("photo stored")
	return domain.Result{PhotoURL: url, ConsentID: consent.ID}, nil
}

// put uploads under the retry policy. Auth failures are not retried
func (s *Svc) put(ctx context.Context, key string, body []byte) error {
	attempts, err := retry.Do(ctx, retry.Policy{
		Attempts:  s.opt.Attempts,
		Delays:    s.opt.Delays,
		Retryable: objectstore.IsTransient,
		Name:      "photo upload",
	}, func(ctx context.Context) error {
		return s.store.Put(ctx, key, "image/jpeg", body)
	})

	outcome := "ok"
	defer func() {
		metrics.Registry.UploadAttempts.WithLabelValues(outcome).Observe(float64(attempts))
		metrics.Registry.Uploads.WithLabelValues(outcome).Inc()
	}()
	if err == nil {
		return nil
	}

	log := logger.C(ctx).Error().Err(err).Str("key", key).Int("attempts", attempts)
	var ex *retry.ExhaustedError
	switch {
	case objectstore.IsAuth(err):
		outcome = "unauthorized"
		log.Msg("photo upload rejected by storage")
		return perr.Unauthorizedf("photo storage rejected the upload credentials")
	case errors.As(err, &ex):
		outcome = "exhausted"
		log.Msg("photo upload retries exhausted")
		return perr.Internalf("photo upload failed after %d attempts", ex.Attempts)
	default:
		outcome = "failed"
		log.Msg("photo upload failed")
		return perr.Internalf("photo upload failed")
	}
}

// dropConsent removes the consent of a photo that never became current, best effort
func (s *Svc) dropConsent(ctx context.Context, id string) {
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.Repo.DeleteConsent(dctx, id); err != nil {
		logger.C(ctx).Warn().Err(err).Str("consent_id", id).Msg("orphan consent delete failed")
	}
}

// cleanup removes an orphaned object, best effort
func (s *Svc) cleanup(ctx context.Context, key string) {
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.store.Delete(dctx, key); err != nil {
		logger.C(ctx).Warn().Err(err).Str("key", key).Msg("orphan photo delete failed")
	}
}
