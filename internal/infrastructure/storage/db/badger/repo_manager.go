package dbbadger

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/timshannon/badgerhold/v4"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
	"github.com/tswap-network/tswap-engine/internal/core/ports"
	"github.com/tswap-network/tswap-engine/internal/storageutil/uow"
)

const storeDir = "tswap"

type repoManager struct {
	store *badgerhold.Store

	poolRepository    domain.PoolRepository
	marginRepository  domain.MarginRepository
	tradeRepository   domain.TradeRepository
	balanceRepository ports.BalanceRepository
}

// NewRepoManager opens (or creates if not exists) the badger store in the
// given datadir. An empty datadir makes the store live in memory only.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, storeDir)
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	return &repoManager{
		store:             store,
		poolRepository:    &poolRepositoryImpl{store},
		marginRepository:  &marginRepositoryImpl{store},
		tradeRepository:   &tradeRepositoryImpl{store},
		balanceRepository: &balanceRepositoryImpl{store},
	}, nil
}

func (r *repoManager) PoolRepository() domain.PoolRepository {
	return r.poolRepository
}

func (r *repoManager) MarginRepository() domain.MarginRepository {
	return r.marginRepository
}

func (r *repoManager) TradeRepository() domain.TradeRepository {
	return r.tradeRepository
}

func (r *repoManager) BalanceRepository() ports.BalanceRepository {
	return r.balanceRepository
}

// Begin opens a read-write badger transaction.
func (r *repoManager) Begin() (uow.Tx, error) {
	return &tx{r.store.Badger().NewTransaction(true)}, nil
}

// ContextKey is the key under which repositories find the transaction of a
// running unit of work.
func (r *repoManager) ContextKey() interface{} {
	return r.store
}

func (r *repoManager) Close() {
	r.store.Close()
}

type tx struct {
	*badger.Txn
}

func (t *tx) Rollback() error {
	t.Discard()
	return nil
}

// txFromContext returns the badger transaction bound to the context, or nil
// when repositories are used outside of a unit of work.
func txFromContext(ctx context.Context, store *badgerhold.Store) *badger.Txn {
	t, ok := uow.TxFromContext(ctx, store)
	if !ok {
		return nil
	}
	if bt, ok := t.(*tx); ok {
		return bt.Txn
	}
	return nil
}

func get(
	ctx context.Context, store *badgerhold.Store, key, result interface{},
) error {
	if t := txFromContext(ctx, store); t != nil {
		return store.TxGet(t, key, result)
	}
	return store.Get(key, result)
}

func insert(
	ctx context.Context, store *badgerhold.Store, key, data interface{},
) error {
	if t := txFromContext(ctx, store); t != nil {
		return store.TxInsert(t, key, data)
	}
	return store.Insert(key, data)
}

func upsert(
	ctx context.Context, store *badgerhold.Store, key, data interface{},
) error {
	if t := txFromContext(ctx, store); t != nil {
		return store.TxUpsert(t, key, data)
	}
	return store.Upsert(key, data)
}

func remove(
	ctx context.Context, store *badgerhold.Store, key, dataType interface{},
) error {
	if t := txFromContext(ctx, store); t != nil {
		return store.TxDelete(t, key, dataType)
	}
	return store.Delete(key, dataType)
}

func find(
	ctx context.Context, store *badgerhold.Store,
	result interface{}, query *badgerhold.Query,
) error {
	if t := txFromContext(ctx, store); t != nil {
		return store.TxFind(t, result, query)
	}
	return store.Find(result, query)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
