package module

import "outreach/internal/services/api/categories/domain"

// Ports is what categories offers other modules
type Ports struct {
	Registry domain.Registry
}
