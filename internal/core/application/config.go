package application

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
	"github.com/tswap-network/tswap-engine/internal/core/ports"
	"github.com/tswap-network/tswap-engine/internal/infrastructure/ledger"
	"github.com/tswap-network/tswap-engine/internal/infrastructure/royalty"
	dbbadger "github.com/tswap-network/tswap-engine/internal/infrastructure/storage/db/badger"
	"github.com/tswap-network/tswap-engine/internal/infrastructure/storage/db/inmemory"
	"github.com/tswap-network/tswap-engine/internal/infrastructure/verifier"
)

const (
	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var (
	SupportedDBType = map[string]struct{}{
		DBBadger:   {},
		DBInMemory: {},
	}
)

// Config wires the service with its infrastructure. Components are built
// lazily on first access.
type Config struct {
	DBType string
	// DBConfig is the datadir for badger.
	DBConfig interface{}

	Protocol     domain.ProtocolConfig
	ReserveFloor uint64
	Cosigner     solana.PublicKey
	Whitelists   []verifier.Whitelist
	// RoyaltyFetcher defaults to an empty registry, ie. no royalties.
	RoyaltyFetcher royalty.MetadataFetcher
	Registerer     prometheus.Registerer

	repo      ports.RepoManager
	ledger    *ledger.Ledger
	royalties ports.RoyaltyLookup
	svc       *Service
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("unsupported db type %q", c.DBType)
	}
	if c.DBType == DBBadger {
		if _, ok := c.DBConfig.(string); !ok {
			return fmt.Errorf("badger db requires a datadir")
		}
	}
	if err := c.Protocol.Validate(); err != nil {
		return err
	}
	if c.Cosigner.IsZero() {
		return fmt.Errorf("missing cosigner")
	}
	if _, err := c.service(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	repo, _ := c.repoManager()
	return repo
}

func (c *Config) Ledger() *ledger.Ledger {
	l, _ := c.ledgerService()
	return l
}

func (c *Config) Service() *Service {
	svc, _ := c.service()
	return svc
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		switch c.DBType {
		case DBBadger:
			datadir := c.DBConfig.(string)
			repoManager, err := dbbadger.NewRepoManager(datadir, log.New())
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		case DBInMemory:
			c.repo = inmemory.NewRepoManager()
		default:
			return nil, fmt.Errorf("unsupported db type %q", c.DBType)
		}
	}
	return c.repo, nil
}

func (c *Config) ledgerService() (*ledger.Ledger, error) {
	if c.ledger == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		l, err := ledger.NewLedger(repo.BalanceRepository(), c.ReserveFloor)
		if err != nil {
			return nil, err
		}
		c.ledger = l
	}
	return c.ledger, nil
}

func (c *Config) royaltyLookup() (ports.RoyaltyLookup, error) {
	if c.royalties == nil {
		fetcher := c.RoyaltyFetcher
		if fetcher == nil {
			fetcher = royalty.NewRegistry()
		}
		lookup, err := royalty.NewService(fetcher)
		if err != nil {
			return nil, err
		}
		c.royalties = lookup
	}
	return c.royalties, nil
}

func (c *Config) service() (*Service, error) {
	if c.svc == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		l, err := c.ledgerService()
		if err != nil {
			return nil, err
		}
		royalties, err := c.royaltyLookup()
		if err != nil {
			return nil, err
		}

		whitelists := verifier.NewWhitelistRegistry()
		for _, wl := range c.Whitelists {
			whitelists.AddWhitelist(wl)
		}

		svc, err := NewService(
			repo, l, royalties, whitelists,
			verifier.NewCosignerVerifier(c.Cosigner), c.Protocol, c.Registerer,
		)
		if err != nil {
			return nil, err
		}
		c.svc = svc
	}
	return c.svc, nil
}
