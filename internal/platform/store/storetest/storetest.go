// Package storetest holds store doubles for service tests that bind fake repos
package storetest

import (
	"context"
	"errors"
	"sync"
	"time"

	"outreach/internal/platform/store"
)

// ErrNoSQL is returned when a test reaches real sql through the double
var ErrNoSQL = errors.New("storetest: sql not supported")

// DB is a TxRunner whose Tx runs fn inline on itself
// services under test bind fake repos through repokit.BindFunc so no sql runs
type DB struct {
	mu sync.Mutex
	// TxErr fails every Tx before fn runs
	TxErr error
	// Txs counts Tx calls
	Txs int
}

var _ store.TxRunner = (*DB)(nil)

// Tx runs fn on the double
func (d *DB) Tx(_ context.Context, fn func(q store.RowQuerier) error) error {
	d.mu.Lock()
	d.Txs++
	err := d.TxErr
	d.mu.Unlock()
	if err != nil {
		return err
	}
	return fn(d)
}

// Exec always fails
func (d *DB) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, ErrNoSQL }

// Query always fails
func (d *DB) Query(context.Context, string, ...any) (store.Rows, error) { return nil, ErrNoSQL }

// QueryRow returns a row whose Scan fails
func (d *DB) QueryRow(context.Context, string, ...any) store.Row { return errRow{} }

type errRow struct{}

func (errRow) Scan(...any) error { return ErrNoSQL }

// Cache is an in memory store.Cache
type Cache struct {
	mu   sync.Mutex
	m    map[string][]byte
	Gets int
	Sets int
	// Err fails every call when set
	Err error
}

var _ store.Cache = (*Cache)(nil)

// NewCache returns an empty Cache
func NewCache() *Cache { return &Cache{m: map[string][]byte{}} }

// Get returns a stored value or store.ErrCacheMiss
func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Gets++
	if c.Err != nil {
		return nil, c.Err
	}
	v, ok := c.m[key]
	if !ok {
		return nil, store.ErrCacheMiss
	}
	return v, nil
}

// Set stores val; ttl is ignored
func (c *Cache) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Sets++
	if c.Err != nil {
		return c.Err
	}
	c.m[key] = append([]byte(nil), val...)
	return nil
}

// Del removes keys
func (c *Cache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.m, k)
	}
	return c.Err
}

// Ping reports Err
func (c *Cache) Ping(context.Context) error { return c.Err }

// Close is a no op
func (c *Cache) Close() error { return nil }
