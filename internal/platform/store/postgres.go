package store

import (
	"context"
	"fmt"
	"time"

	"outreach/internal/platform/logger"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// conn is what the pool and an open transaction have in common
type conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// querier runs statements on c and reports each one to trace
type querier struct {
	c     conn
	trace *tracer
}

func (q querier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	tag, err := q.c.Exec(ctx, sql, args...)
	q.trace.observe(sql, len(args), start, err)
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func (q querier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := q.c.Query(ctx, sql, args...)
	q.trace.observe(sql, len(args), start, err)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// QueryRow defers the trace until Scan, where pgx surfaces the error
func (q querier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	return tracedRow{
		row:   q.c.QueryRow(ctx, sql, args...),
		start: start,
		sql:   sql,
		nargs: len(args),
		trace: q.trace,
	}
}

type tracedRow struct {
	row   pgx.Row
	start time.Time
	sql   string
	nargs int
	trace *tracer
}

func (r tracedRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	r.trace.observe(r.sql, r.nargs, r.start, err)
	return err
}

// postgres is the pooled TxRunner handed to repositories
type postgres struct {
	querier
	pool *pgxpool.Pool
}

func (p *postgres) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(querier{c: tx, trace: p.trace}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// Ping goes straight to the pool so health checks stay out of the sql log
func (p *postgres) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

func (p *postgres) Close() error {
	p.pool.Close()
	return nil
}

var newPool = pgxpool.NewWithConfig

// openPG builds the pool and waits for the server to answer before returning it
func openPG(ctx context.Context, cfg PGConfig, log logger.Logger) (*postgres, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		// pgx echoes the dsn, password included
		return nil, fmt.Errorf("postgres: invalid connection url")
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}

	attempts := cfg.ConnectRetries
	if attempts <= 0 {
		attempts = 20
	}
	pingTimeout := cfg.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 150 * time.Millisecond
	eb.MaxInterval = 2 * time.Second
	eb.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(attempts-1)), ctx)

	ping := func() error {
		pctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return pool.Ping(pctx)
	}
	notify := func(err error, wait time.Duration) {
		log.Debug().Err(err).Dur("wait", wait).Msg("postgres not ready, retrying")
	}
	if err := backoff.RetryNotify(ping, policy, notify); err != nil {
		pool.Close()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, err)
	}

	var trace *tracer
	if cfg.LogSQL {
		trace = newTracer(log, time.Duration(cfg.SlowQueryMs)*time.Millisecond)
	}
	return &postgres{querier: querier{c: pool, trace: trace}, pool: pool}, nil
}
