package ports

import (
	"github.com/tswap-network/tswap-engine/internal/core/domain"
	"github.com/tswap-network/tswap-engine/internal/storageutil/uow"
)

// RepoManager gives access to all the repositories sharing the same store.
// Begin starts a transaction that repositories pick up from the context of a
// running unit of work.
type RepoManager interface {
	uow.Transactional
	uow.ContextProvider

	PoolRepository() domain.PoolRepository
	MarginRepository() domain.MarginRepository
	TradeRepository() domain.TradeRepository
	BalanceRepository() BalanceRepository

	Close()
}
