// Package service turns a stored voice note into a reviewed draft record:
// download, transcription, extraction, validation and duplicate search
package service

import (
	"context"
	"errors"
	"time"

	"outreach/internal/adapters/llm"
	"outreach/internal/adapters/objectstore"
	"outreach/internal/core/extraction"
	"outreach/internal/core/validate"
	perr "outreach/internal/platform/errors"
	"outreach/internal/platform/logger"
	"outreach/internal/platform/net/http/bind"
	catdomain "outreach/internal/services/api/categories/domain"
	inddomain "outreach/internal/services/api/individuals/domain"
	"outreach/internal/services/api/transcribe/domain"
)

// Model is the slice of the language model client the pipeline uses
type Model interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
	Complete(ctx context.Context, in llm.Completion) (string, error)
}

// Options control the pipeline
type Options struct {
	// FetchTimeout bounds the audio download, 30s when zero
	FetchTimeout time.Duration
	// FetchLimit bounds the audio size
	FetchLimit int64
	// Parallel bounds concurrent duplicate comparisons, 4 when zero
	Parallel int
	// Threshold is the confidence a match must exceed, 30 when zero
	Threshold int
}

func (o *Options) defaults() {
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = 30 * time.Second
	}
	if o.FetchLimit <= 0 {
		o.FetchLimit = objectstore.DefaultFetchLimit
	}
	if o.Parallel <= 0 {
		o.Parallel = 4
	}
	if o.Threshold <= 0 {
		o.Threshold = 30
	}
}

// Svc implements domain.ServicePort
type Svc struct {
	store  objectstore.Store
	model  Model
	cats   catdomain.Registry
	finder inddomain.CandidateFinder
	opt    Options
	log    logger.Logger
}

// New constructs the service. A nil store or model leaves ingest unavailable
func New(st objectstore.Store, model Model, cats catdomain.Registry, finder inddomain.CandidateFinder, opt Options) *Svc {
	if cats == nil {
		panic("transcribe.Service requires a category Registry")
	}
	if finder == nil {
		panic("transcribe.Service requires a CandidateFinder")
	}
	opt.defaults()
	return &Svc{store: st, model: model, cats: cats, finder: finder, opt: opt, log: *logger.Named("transcribe")}
}

// Ingest downloads, transcribes and categorizes one voice note
func (s *Svc) Ingest(ctx context.Context, in domain.Input) (domain.Result, error) {
	if s.store == nil || s.model == nil {
		return domain.Result{}, perr.Unavailablef("transcription is not configured")
	}
	if err := bind.Struct(in); err != nil {
		return domain.Result{}, err
	}
	if !s.store.Owns(in.AudioURL) {
		return domain.Result{}, foreignURL()
	}

	audio, err := s.fetch(ctx, in.AudioURL)
	if err != nil {
		return domain.Result{}, err
	}
	ext, err := audioExt(audio)
	if err != nil {
		return domain.Result{}, err
	}

	text, err := s.model.Transcribe(ctx, "audio."+ext, audio)
	if err != nil {
		return domain.Result{}, err
	}

	set, err := s.cats.Set(ctx)
	if err != nil {
		return domain.Result{}, err
	}
	system, user := extraction.CategorizeMessages(text, set)
	reply, err := s.model.Complete(ctx, llm.Completion{
		Purpose:     "categorize",
		System:      system,
		User:        user,
		Temperature: 0.2,
		JSON:        true,
	})
	if err != nil {
		return domain.Result{}, err
	}

	raw, err := extraction.ParseObject(reply)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Int("reply_chars", len(reply)).Msg("categorization reply unusable, starting from an empty record")
		raw = map[string]any{}
	}
	data, notes := extraction.Normalize(raw, set)
	for _, n := range notes {
		logger.C(ctx).Debug().Str("field", n.Field).Str("kind", n.Kind).Msg("extraction coerced")
	}

	res := validate.Record(data, set)
	matches := s.duplicates(ctx, data)

	logger.C(ctx).Info().
		Str("format", ext).
		Int("audio_bytes", len(audio)).
		Int("fields", len(data)).
		Int("missing", len(res.MissingRequired)).
		Int("matches", len(matches)).
		Msg("voice note ingested")

	return domain.Result{
		Transcription:    text,
		CategorizedData:  data,
		MissingRequired:  res.MissingRequired,
		PotentialMatches: matches,
	}, nil
}

// fetch downloads the audio and maps storage failures onto distinct codes
func (s *Svc) fetch(ctx context.Context, url string) ([]byte, error) {
	fctx, cancel := context.WithTimeout(ctx, s.opt.FetchTimeout)
	defer cancel()

	obj, err := s.store.Fetch(fctx, url, s.opt.FetchLimit)
	switch {
	case err == nil:
	case errors.Is(err, objectstore.ErrForeignURL):
		return nil, foreignURL()
	case errors.Is(err, objectstore.ErrTooLarge):
		return nil, perr.TooLargef("audio exceeds %d bytes", s.opt.FetchLimit)
	case objectstore.IsNotFound(err):
		return nil, perr.NotFoundf("audio file not found")
	case objectstore.IsTimeout(err):
		return nil, perr.Wrap(err, perr.ErrorCodeTimeout, "audio download timed out")
	case objectstore.IsAuth(err):
		return nil, perr.Wrap(err, perr.ErrorCodeUnauthorized, "audio storage rejected the credentials")
	default:
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "audio download failed")
	}
	if len(obj.Body) == 0 {
		return nil, perr.Validation("audio file is empty", perr.FieldIssue{Field: "audio_url", Message: "points to an empty file"})
	}
	return obj.Body, nil
}

func foreignURL() error {
	return perr.Validation("audio_url is outside the storage namespace",
		perr.FieldIssue{Field: "audio_url", Message: "must point into the configured storage"})
}
