// Package domain holds the ingest DTOs and ports for voice note transcription
package domain

import (
	"context"

	"outreach/internal/core/schema"
	inddomain "outreach/internal/services/api/individuals/domain"
)

// Input is one ingest request. audio_url must point into the configured storage
type Input struct {
	AudioURL string              `json:"audio_url"          validate:"required,url,max=2048" example:"https://storage.example.org/storage/v1/object/public/audio/u1/note.m4a"` //nolint:lll
	Location *inddomain.Location `json:"location,omitempty" validate:"omitempty"`
}

// Match is a possible earlier record of the same person
type Match struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Confidence int         `json:"confidence" example:"85"`
	Data       schema.Data `json:"data"`
}

// Result is what the client reviews before saving
type Result struct {
	Transcription    string      `json:"transcription"`
	CategorizedData  schema.Data `json:"categorized_data"`
	MissingRequired  []string    `json:"missing_required"`
	PotentialMatches []Match     `json:"potential_matches"`
}

// ServicePort is the interface implemented by the transcribe service
type ServicePort interface {
	Ingest(ctx context.Context, in Input) (Result, error)
}
