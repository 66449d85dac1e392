package domain

import (
	"context"

	"outreach/internal/core/schema"
)

// ServicePort is the interface implemented by the categories service
type ServicePort interface {
	List(ctx context.Context) ([]schema.Category, error)
	Create(ctx context.Context, in CreateInput) (schema.Category, error)
}

// Registry hands other modules the current category set
// implementations may serve it from a short lived cache
type Registry interface {
	Set(ctx context.Context) (*schema.Set, error)
}
