package module

import (
	"outreach/internal/adapters/objectstore"
	catdomain "outreach/internal/services/api/categories/domain"
	inddomain "outreach/internal/services/api/individuals/domain"
	transvc "outreach/internal/services/api/transcribe/service"
)

// Imports is what ingest needs from other modules and adapters.
// A nil Store or Model answers 503
type Imports struct {
	Store      objectstore.Store
	Model      transvc.Model
	Categories catdomain.Registry
	Candidates inddomain.CandidateFinder
}
