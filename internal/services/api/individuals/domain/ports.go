package domain

import "context"

// ServicePort is the interface implemented by the individuals service
type ServicePort interface {
	Save(ctx context.Context, u User, in SaveInput) (SaveResult, error)
	Get(ctx context.Context, id string) (Detail, error)
	SetOverride(ctx context.Context, id string, value *int) (OverrideResult, error)
	Interactions(ctx context.Context, id string, limit, offset int) ([]Interaction, int, error)
}

// PhotoTarget lets the photo pipeline attach photos without an interaction
type PhotoTarget interface {
	Exists(ctx context.Context, id string) (bool, error)
	ReplacePhoto(ctx context.Context, id, url string) (Individual, error)
}

// CandidateFinder prefilters duplicate candidates by name
type CandidateFinder interface {
	Candidates(ctx context.Context, name string) ([]Candidate, error)
}
