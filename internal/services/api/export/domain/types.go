// Package domain holds the export row shape and ports
package domain

import (
	"context"
	"time"
)

// Format selects the export encoding
type Format string

// Supported formats
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Columns is the fixed export header
var Columns = []string{"name", "height", "weight", "skin_color", "urgency_score", "last_seen"}

// Row is one individual flattened for export. Nil numbers export as blanks
type Row struct {
	Name         string
	Height       *float64
	Weight       *float64
	SkinColor    string
	UrgencyScore int
	// LastSeen is the newest interaction, nil when there is none
	LastSeen *time.Time
}

// ServicePort is the interface implemented by the export service
type ServicePort interface {
	Rows(ctx context.Context) ([]Row, error)
}
