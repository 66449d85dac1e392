// Package domain holds search DTOs and ports
package domain

import (
	"time"

	"outreach/internal/core/schema"
)

// Basic search bounds
const (
	BasicMaxLimit     = 100
	BasicDefaultLimit = 20
)

// BasicInput is the GET /individuals query
type BasicInput struct {
	Search    string `json:"search"     validate:"max=200" example:"john"`
	Limit     int    `json:"limit"      validate:"min=1,max=100" example:"20"`
	Offset    int    `json:"offset"     validate:"min=0" example:"0"`
	SortBy    string `json:"sort_by"    validate:"oneof=last_seen urgency_score name" example:"last_seen"`
	SortOrder string `json:"sort_order" validate:"oneof=asc desc" example:"desc"`
}

// Defaults fills blank paging and sort values
func (in *BasicInput) Defaults() {
	if in.Limit == 0 {
		in.Limit = BasicDefaultLimit
	}
	if in.SortBy == "" {
		in.SortBy = "last_seen"
	}
	if in.SortOrder == "" {
		in.SortOrder = "desc"
		if in.SortBy == "name" {
			in.SortOrder = "asc"
		}
	}
}

// Summary is one row of the basic list. The address is abbreviated
type Summary struct {
	ID              string     `json:"id"                      example:"5b0c6a8e-3f0e-4a51-9c1e-0a3f4b6f2d11"`
	Name            string     `json:"name"                    example:"John"`
	UrgencyScore    int        `json:"urgency_score"           example:"40"`
	UrgencyOverride *int       `json:"urgency_override"        example:"80"`
	DisplayScore    int        `json:"display_score"           example:"80"`
	PhotoURL        string     `json:"photo_url,omitempty"     example:"https://storage.example.org/storage/v1/object/public/photos/photos/u1/1700000000_x.jpg"` //nolint:lll
	LastSeen        time.Time  `json:"last_seen"               example:"2025-09-03T13:00:00Z"`
	LastAddress     string     `json:"last_location,omitempty" example:"Market St"`
}

// Hit is one row of the advanced search. Photos are left to profile views
type Hit struct {
	ID            string      `json:"id"                       example:"5b0c6a8e-3f0e-4a51-9c1e-0a3f4b6f2d11"`
	Name          string      `json:"name"                     example:"John"`
	Data          schema.Data `json:"data"`
	DisplayScore  int         `json:"display_score"            example:"80"`
	HasPhoto      bool        `json:"has_photo"                example:"true"`
	LastSeen      time.Time   `json:"last_seen"                example:"2025-09-03T13:00:00Z"`
	LastAddress   string      `json:"last_location,omitempty"  example:"Market St"`
	DistanceMiles *float64    `json:"distance_miles,omitempty" example:"1.7"`
}
