package module

import (
	"outreach/internal/adapters/objectstore"
	inddomain "outreach/internal/services/api/individuals/domain"
)

// Imports is what photos needs from other modules and adapters.
// A nil Store answers 503 on every upload
type Imports struct {
	Individuals inddomain.PhotoTarget
	Store       objectstore.Store
}
