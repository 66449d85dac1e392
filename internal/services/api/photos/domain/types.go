// Package domain holds photo upload DTOs, consent records and ports
package domain

import (
	"context"
	"time"
)

// ConsentLocation is where consent to photograph was given
type ConsentLocation struct {
	Latitude  float64 `json:"latitude"  validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
	Address   string  `json:"address"   validate:"max=500"`
}

// Upload is one parsed photo submission
type Upload struct {
	// IndividualID is optional for new intake and required for updates
	IndividualID string
	Consent      ConsentLocation
	DeclaredType string
	Body         []byte
}

// Result is returned for every stored photo
type Result struct {
	PhotoURL  string `json:"photo_url"  example:"https://storage.example.org/storage/v1/object/public/photos/photos/u1/1700000000_x.jpg"` //nolint:lll
	ConsentID string `json:"consent_id" example:"0f8fad5b-d9cb-469f-a165-70867728950e"`
}

// Consent is the legal record of one photo
type Consent struct {
	ID           string
	IndividualID string
	PhotoURL     string
	ConsentedBy  string
	Location     ConsentLocation
	IsUpdate     bool
	CreatedAt    time.Time
}

// ServicePort is the interface implemented by the photos service
type ServicePort interface {
	// Upload stores a photo for intake. The individual may not exist yet
	Upload(ctx context.Context, userID string, in Upload) (Result, error)
	// Replace stores a photo for an existing individual and rotates its history
	Replace(ctx context.Context, userID string, in Upload) (Result, error)
}
