// Command outreach-api serves the field data api under /api/v1
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"outreach/internal/platform/config"
	"outreach/internal/platform/logger"
	phttp "outreach/internal/platform/net/http"
	"outreach/internal/platform/store"

	"outreach/internal/services/api"
	catrepo "outreach/internal/services/api/categories/repo"
	catsvc "outreach/internal/services/api/categories/service"
	metahttp "outreach/internal/services/api/meta/http"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	rdsCfg := root.Prefix("SERVICE_REDIS_")

	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := strings.ToLower(apiCfg.MayEnum("ENV", "production", "production", "development"))
	strict := env == "production"
	backend := root.Prefix("CORE_STORAGE_").MayEnum("BACKEND", "rest", "rest", "gcs")
	missing := root.RequireIf(strict, requiredSecrets(backend)...)
	if strict {
		apiCfg.Require("AUTH_SECRET")
	}

	st, err := store.Open(
		ctx,
		store.Config{
			AppName: "outreach-api",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 8)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
			},
			RDS: store.RedisConfig{
				Enabled:  rdsCfg.MayString("ADDR", "") != "",
				Addr:     rdsCfg.MayString("ADDR", ""),
				Password: rdsCfg.MayString("PASSWORD", ""),
				DB:       rdsCfg.MayInt("DB", 0),
				Prefix:   rdsCfg.MayString("PREFIX", "outreach:"),
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	if apiCfg.MayBool("AUTO_MIGRATE", false) {
		migrate(ctx, st)
	}

	storage := openStorage(ctx, root, backend, missing)
	if c, ok := storage.(io.Closer); ok {
		defer c.Close()
	}
	model := openModel(root, missing)
	verifier := openAuth(apiCfg)

	opt := api.Options{
		Config:         apiCfg,
		Store:          st,
		Logger:         l,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", false),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	}
	// interfaces stay nil unless the adapter exists
	if storage != nil {
		opt.Storage = storage
		opt.Checks = append(opt.Checks, metahttp.Check{Name: "storage", Pinger: storage})
	}
	if model != nil {
		opt.Model = model
	}
	if verifier != nil {
		opt.Auth = verifier
	}

	// http server (reads CORE_API_PORT and CORE_API_SHUTDOWN_GRACE)
	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Router(), opt)

	l.Info().Str("env", env).Str("storage", backend).Int("missing_secrets", len(missing)).Msg("outreach api starting")
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}

// migrate applies pending migrations and seeds the preset categories
func migrate(ctx context.Context, st *store.Store) {
	l := logger.Get()
	applied, err := store.Migrate(ctx, st.PG)
	if err != nil {
		l.Panic().Err(err).Msg("migrations failed")
	}
	n, err := catsvc.New(st.PG, catrepo.NewPG(), catsvc.Options{}).Seed(ctx)
	if err != nil {
		l.Panic().Err(err).Msg("preset seed failed")
	}
	l.Info().Strs("applied", applied).Int("presets_added", n).Msg("schema ready")
}
