package module

import (
	"outreach/internal/modkit/httpkit"
	"outreach/internal/services/api/search/domain"
	searchhttp "outreach/internal/services/api/search/http"
)

// Ports is what search offers other modules
type Ports struct {
	Search domain.ServicePort
}

// IndividualRoutes mounts the list and advanced search routes on another
// module router, used as that module's register hook
func (p Ports) IndividualRoutes(r httpkit.Router) { searchhttp.RegisterIndividuals(r, p.Search) }
