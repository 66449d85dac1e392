package domain

import "outreach/internal/core/schema"

// Paging bounds for interaction lists
const (
	InteractionsMaxLimit     = 100
	InteractionsDefaultLimit = 20
	RecentInteractions       = 10
)

// SaveInput is the POST /individuals body
type SaveInput struct {
	Data          schema.Data `json:"data"                    validate:"required"`
	MergeWithID   string      `json:"merge_with_id,omitempty" example:"5b0c6a8e-3f0e-4a51-9c1e-0a3f4b6f2d11"`
	Location      *Location   `json:"location,omitempty"      validate:"omitempty"`
	Transcription string      `json:"transcription,omitempty" validate:"max=20000"`
	AudioURL      string      `json:"audio_url,omitempty"     validate:"omitempty,url,max=2048"`
	PhotoURL      string      `json:"photo_url,omitempty"     validate:"omitempty,url,max=2048"`
}

// SaveResult carries the saved individual and its interaction. Interaction is
// nil when the individual was stored but the interaction write failed
type SaveResult struct {
	Individual  Individual          `json:"individual"`
	Interaction *InteractionSummary `json:"interaction"`
}

// OverrideInput is the PUT urgency-override body. A null value clears it
type OverrideInput struct {
	UrgencyOverride *int `json:"urgency_override" validate:"omitempty,min=0,max=100" example:"80"`
}

// OverrideResult is the score triple after an override write
type OverrideResult struct {
	UrgencyScore    int  `json:"urgency_score"    example:"40"`
	UrgencyOverride *int `json:"urgency_override" example:"80"`
	DisplayScore    int  `json:"display_score"    example:"80"`
}

// Detail is an individual plus its latest interactions
type Detail struct {
	Individual
	RecentInteractions []InteractionSummary `json:"recent_interactions"`
}
