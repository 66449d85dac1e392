package modkit

import (
	"outreach/internal/modkit/repokit"
	"outreach/internal/platform/config"
	"outreach/internal/platform/logger"
	"outreach/internal/platform/store"
)

// Deps are the shared backends every module constructor receives
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	// RDS is nil when redis is disabled
	RDS store.Cache
}
