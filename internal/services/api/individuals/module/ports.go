package module

import (
	catdomain "outreach/internal/services/api/categories/domain"
	"outreach/internal/services/api/individuals/domain"
)

// Imports is what individuals needs from other modules
type Imports struct {
	Categories catdomain.Registry
}

// Ports is what individuals offers other modules
type Ports struct {
	Photos     domain.PhotoTarget
	Candidates domain.CandidateFinder
}
