// Package domain holds individual and interaction types, DTOs and ports
package domain

import (
	"time"

	"outreach/internal/core/schema"
	"outreach/internal/core/urgency"
)

// MaxPhotoHistory bounds the demoted photos kept per individual
const MaxPhotoHistory = 3

// PhotoEntry is a demoted photo
type PhotoEntry struct {
	URL     string    `json:"url"      example:"https://storage.example.org/storage/v1/object/public/photos/photos/u1/1700000000_x.jpg"` //nolint:lll
	AddedAt time.Time `json:"added_at" example:"2025-09-03T13:00:00Z"`
}

// Individual is a person record
type Individual struct {
	ID              string       `json:"id"               example:"5b0c6a8e-3f0e-4a51-9c1e-0a3f4b6f2d11"`
	Name            string       `json:"name"             example:"John"`
	Data            schema.Data  `json:"data"`
	UrgencyScore    int          `json:"urgency_score"    example:"40"`
	UrgencyOverride *int         `json:"urgency_override" example:"80"`
	DisplayScore    int          `json:"display_score"    example:"80"`
	PhotoURL        string       `json:"photo_url,omitempty"`
	PhotoHistory    []PhotoEntry `json:"photo_history"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// Derive fills the computed display score
func (i *Individual) Derive() {
	i.DisplayScore = urgency.Display(i.UrgencyScore, i.UrgencyOverride)
	if i.PhotoHistory == nil {
		i.PhotoHistory = []PhotoEntry{}
	}
}

// PushPhoto makes url the current photo and demotes the previous one into
// history, newest first. The current photo never appears in history
func (i *Individual) PushPhoto(url string) {
	if url == "" || url == i.PhotoURL {
		return
	}
	hist := make([]PhotoEntry, 0, MaxPhotoHistory)
	if i.PhotoURL != "" {
		hist = append(hist, PhotoEntry{URL: i.PhotoURL, AddedAt: i.UpdatedAt})
	}
	for _, e := range i.PhotoHistory {
		if len(hist) == MaxPhotoHistory {
			break
		}
		if e.URL != url {
			hist = append(hist, e)
		}
	}
	i.PhotoURL = url
	i.PhotoHistory = hist
}

// Location is where an interaction happened
type Location struct {
	Latitude  float64 `json:"latitude"  validate:"min=-90,max=90"   example:"37.7749"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180" example:"-122.4194"`
	Address   string  `json:"address"   validate:"max=500"          example:"123 Market St, San Francisco, CA"`
}

// Interaction is an append-only save event
type Interaction struct {
	ID            string      `json:"id"`
	IndividualID  string      `json:"individual_id"`
	UserID        string      `json:"user_id"`
	UserName      string      `json:"user_name"`
	Transcription string      `json:"transcription,omitempty"`
	AudioURL      string      `json:"audio_url,omitempty"`
	Location      *Location   `json:"location"`
	Changes       schema.Data `json:"changes"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Summary reduces an interaction for profile views
func (x Interaction) Summary() InteractionSummary {
	return InteractionSummary{
		ID:               x.ID,
		CreatedAt:        x.CreatedAt,
		UserName:         x.UserName,
		Location:         x.Location,
		HasTranscription: x.Transcription != "",
	}
}

// InteractionSummary is the short form of an interaction
type InteractionSummary struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	UserName         string    `json:"user_name"`
	Location         *Location `json:"location"`
	HasTranscription bool      `json:"has_transcription"`
}

// Candidate is a possible duplicate offered to the matcher
type Candidate struct {
	ID   string
	Name string
	Data schema.Data
}

// User is the author of a write
type User struct {
	ID   string
	Name string
}
