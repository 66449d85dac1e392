package domain

import (
	"context"

	"outreach/internal/core/search"
)

// ServicePort is the interface implemented by the search service
type ServicePort interface {
	Basic(ctx context.Context, in BasicInput) (items []Summary, total int, err error)
	Advanced(ctx context.Context, q search.Query) (items []Hit, total int, err error)
	Filters(ctx context.Context) search.Filters
}
