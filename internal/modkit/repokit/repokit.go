// Package repokit holds the seams every sql repo is written against
package repokit

import "outreach/internal/platform/store"

type (
	// Queryer is what a bound repo runs its statements on, the pool or a tx
	Queryer = store.RowQuerier
	// TxRunner is the pool as services see it
	TxRunner = store.TxRunner
)

// Binder attaches a repo to a Queryer. Services bind once to the pool and
// again inside each Tx
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a constructor to Binder
type BindFunc[T any] func(Queryer) T

func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }
