package uow

import (
	"context"
	"fmt"
	"sync"
)

// Transactional begins a transaction
type Transactional interface {
	Begin() (Tx, error)
}

// Tx represents an all-or-nothing transaction, by committing or rolling back
// a set of read/write operations
type Tx interface {
	Commit() error
	Rollback() error
}

// ContextProvider returns a context key
type ContextProvider interface {
	ContextKey() interface{}
}

// UnitOfWork allows to run multiple transactions as one
type UnitOfWork struct {
	repositories []Transactional

	lock *sync.Mutex
}

// NewUnitOfWork returns a new UnitOfWork with the given Transaction interfaces
func NewUnitOfWork(repositories ...Transactional) *UnitOfWork {
	return &UnitOfWork{
		repositories: repositories,
		lock:         &sync.Mutex{},
	}
}

// TxFromContext returns the transaction started by a running unit of work
// for the given key, if any.
func TxFromContext(ctx context.Context, key interface{}) (Tx, bool) {
	tx, ok := ctx.Value(key).(Tx)
	return tx, ok
}

// Run executes the given function over the current UnitOfWork. The given
// function is likely making read/write operations to different repositories in
// a transactional way. Run makes sure that all the transactions within the
// given function are either all committed to the relative storage or rolled
// back if any error occur.
// Runs are serialized, the context passed to fn carries one transaction per
// context key.
func (u *UnitOfWork) Run(
	ctx context.Context, fn func(ctx context.Context) error,
) (err error) {
	u.lock.Lock()
	defer u.lock.Unlock()

	txs := make([]Tx, 0, len(u.repositories))

	defer func() {
		if err == nil {
			return
		}
		for _, tx := range txs {
			if _err := tx.Rollback(); _err != nil {
				err = fmt.Errorf("%s, rollback failed: %w", err, _err)
				return
			}
		}
	}()

	defer func() {
		if err != nil {
			return
		}
		for _, tx := range txs {
			if _err := tx.Commit(); _err != nil {
				err = _err
				return
			}
		}
	}()

	defer func() {
		// panicking returns an error that causes txs rollback
		if rec := recover(); rec != nil {
			err = fmt.Errorf("recovered: %v", rec)
		}
	}()

	seen := make(map[interface{}]struct{})
	for _, r := range u.repositories {
		var key interface{} = r
		if cp, ok := r.(ContextProvider); ok {
			key = cp.ContextKey()
		}
		// make sure that the same context providers share the same context
		if _, ok := seen[key]; ok {
			continue
		}

		tx, err := r.Begin()
		if err != nil {
			return err
		}
		seen[key] = struct{}{}
		ctx = context.WithValue(ctx, key, tx)
		txs = append(txs, tx)
	}

	return fn(ctx)
}
