package service

import (
	"context"
	"sort"
	"strings"

	"outreach/internal/adapters/llm"
	"outreach/internal/core/extraction"
	"outreach/internal/core/schema"
	"outreach/internal/platform/logger"
	inddomain "outreach/internal/services/api/individuals/domain"
	"outreach/internal/services/api/transcribe/domain"

	"golang.org/x/sync/errgroup"
)

// duplicates scores every name candidate against data. Failed comparisons are
// skipped, never fatal
func (s *Svc) duplicates(ctx context.Context, data schema.Data) []domain.Match {
	out := []domain.Match{}
	name, _ := data[schema.FieldName].(string)
	if name = strings.TrimSpace(name); name == "" {
		return out
	}
	cands, err := s.finder.Candidates(ctx, name)
	if err != nil {
		logger.C(ctx).Warn().Err(err).Msg("duplicate prefilter failed")
		return out
	}

	scored := make([]*domain.Match, len(cands))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opt.Parallel)
	for i, c := range cands {
		g.Go(func() error {
			score, err := s.compare(gctx, data, c)
			if err != nil {
				logger.C(ctx).Warn().Err(err).Str("candidate_id", c.ID).Msg("duplicate comparison skipped")
				return nil
			}
			if score > s.opt.Threshold {
				scored[i] = &domain.Match{ID: c.ID, Name: c.Name, Confidence: score, Data: c.Data}
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, m := range scored {
		if m != nil {
			out = append(out, *m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out
}

func (s *Svc) compare(ctx context.Context, data schema.Data, c inddomain.Candidate) (int, error) {
	system, user, err := extraction.CompareMessages(data, c.Data)
	if err != nil {
		return 0, err
	}
	reply, err := s.model.Complete(ctx, llm.Completion{
		Purpose:     "duplicate",
		System:      system,
		User:        user,
		Temperature: 0.1,
		MaxTokens:   10,
	})
	if err != nil {
		return 0, err
	}
	return extraction.ParseScore(reply)
}
