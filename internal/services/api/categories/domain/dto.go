// Package domain holds category DTOs and ports shared by http, service and other modules
package domain

import "outreach/internal/core/schema"

// CreateInput is the body of POST /categories
// cross-field rules (options per type, auto trigger, weights) are checked by schema.Category.Check
type CreateInput struct {
	Name          string          `json:"name"           validate:"required,max=64" example:"has_pet"`
	Type          schema.Type     `json:"type"           validate:"required,oneof=text number single_select multi_select range date location" example:"single_select"` //nolint:lll
	IsRequired    bool            `json:"is_required"    example:"false"`
	Options       []schema.Option `json:"options"        validate:"omitempty,max=100"`
	UrgencyWeight int             `json:"urgency_weight" validate:"min=0,max=100" example:"20"`
	AutoTrigger   bool            `json:"auto_trigger"   example:"false"`
	Priority      schema.Priority `json:"priority"       validate:"omitempty,oneof=low medium high" example:"medium"`
	DisplayOrder  int             `json:"display_order"  example:"10"`
}

// Category converts the input into the schema type with defaults filled
func (in CreateInput) Category() schema.Category {
	p := in.Priority
	if p == "" {
		p = schema.PriorityMedium
	}
	return schema.Category{
		Name:          in.Name,
		Type:          in.Type,
		IsRequired:    in.IsRequired,
		Options:       in.Options,
		UrgencyWeight: in.UrgencyWeight,
		AutoTrigger:   in.AutoTrigger,
		Priority:      p,
		DisplayOrder:  in.DisplayOrder,
	}
}
