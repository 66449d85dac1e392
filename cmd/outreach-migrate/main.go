// Command outreach-migrate applies schema migrations and seeds the preset categories
package main

import (
	"context"
	"flag"
	"time"

	"outreach/internal/platform/config"
	"outreach/internal/platform/logger"
	"outreach/internal/platform/store"

	catrepo "outreach/internal/services/api/categories/repo"
	catsvc "outreach/internal/services/api/categories/service"
)

func main() {
	var (
		fSeed    = flag.Bool("seed", true, "insert missing preset categories after migrating")
		fTimeout = flag.Duration("timeout", 2*time.Minute, "overall deadline")
	)
	flag.Parse()

	l := logger.Get()
	pgCfg := config.New().Prefix("SERVICE_PGSQL_")

	ctx, cancel := context.WithTimeout(context.Background(), *fTimeout)
	defer cancel()

	st, err := store.Open(ctx, store.Config{
		AppName: "outreach-migrate",
		PG: store.PGConfig{
			Enabled:  true,
			URL:      pgCfg.MustString("DBURL"),
			MaxConns: 2,
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	applied, err := store.Migrate(ctx, st.PG)
	if err != nil {
		l.Panic().Err(err).Msg("migrations failed")
	}
	l.Info().Strs("applied", applied).Msg("migrations done")

	if !*fSeed {
		return
	}
	n, err := catsvc.New(st.PG, catrepo.NewPG(), catsvc.Options{}).Seed(ctx)
	if err != nil {
		l.Panic().Err(err).Msg("preset seed failed")
	}
	l.Info().Int("presets_added", n).Msg("presets seeded")
}
