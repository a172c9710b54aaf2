package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tswap-network/tswap-engine/internal/core/application"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
	"github.com/tswap-network/tswap-engine/internal/infrastructure/ledger"
	"github.com/tswap-network/tswap-engine/internal/infrastructure/verifier"
)

const (
	// DatadirKey is the local data directory to store the internal state
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// TakerFeeBpsKey is the fee charged to takers on every standard trade
	TakerFeeBpsKey = "TAKER_FEE_BPS"
	// MakerRebateBpsKey is the part of the taker fee left to the pool
	MakerRebateBpsKey = "MAKER_REBATE_BPS"
	// BrokerFeePctKey is the percentage of the net taker fee paid to brokers
	BrokerFeePctKey = "BROKER_FEE_PCT"
	// SnipeFeeBpsKey is the base fee of snipe orders
	SnipeFeeBpsKey = "SNIPE_FEE_BPS"
	// SnipeMinFeeKey is the minimum base fee of snipe orders, in lamports
	SnipeMinFeeKey = "SNIPE_MIN_FEE"
	// SnipeProfitShareBpsKey is the share of the savings of a snipe order
	// charged on top of the base fee
	SnipeProfitShareBpsKey = "SNIPE_PROFIT_SHARE_BPS"
	// FeeVaultKey is the base58 account receiving protocol fees
	FeeVaultKey = "FEE_VAULT"
	// CosignerKey is the base58 key that must cosign operations on cosigned
	// pools and snipe orders
	CosignerKey = "COSIGNER"
	// ReserveFloorKey is the minimum balance in lamports of every open account
	ReserveFloorKey = "RESERVE_FLOOR"
	// WhitelistsKey is a comma separated list of verified whitelists in the
	// form <address>:<hex merkle root>
	WhitelistsKey = "WHITELISTS"

	DbLocation = "db"
)

var vip *viper.Viper
var defaultDatadir = appDataDir("tswap")

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("TSWAP")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, application.DBBadger)
	vip.SetDefault(TakerFeeBpsKey, domain.DefaultTakerFeeBps)
	vip.SetDefault(MakerRebateBpsKey, domain.DefaultMakerRebateBps)
	vip.SetDefault(BrokerFeePctKey, domain.DefaultBrokerFeePct)
	vip.SetDefault(SnipeFeeBpsKey, domain.DefaultSnipeFeeBps)
	vip.SetDefault(SnipeMinFeeKey, domain.DefaultSnipeMinFee)
	vip.SetDefault(SnipeProfitShareBpsKey, domain.DefaultSnipeProfitShareBps)
	vip.SetDefault(ReserveFloorKey, ledger.DefaultReserveFloor)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	log.SetLevel(log.Level(GetInt(LogLevelKey)))
	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetUint64(key string) uint64 {
	return vip.GetUint64(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// Set a value for the given key
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

// GetPublicKey parses the base58 key stored at the given config key.
func GetPublicKey(key string) (solana.PublicKey, error) {
	value := GetString(key)
	if value == "" {
		return solana.PublicKey{}, fmt.Errorf("missing %s", strings.ToLower(key))
	}
	pubkey, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid %s: %s", strings.ToLower(key), err)
	}
	return pubkey, nil
}

// ProtocolConfig returns the fee schedule set in the config.
func ProtocolConfig() domain.ProtocolConfig {
	feeVault, _ := GetPublicKey(FeeVaultKey)
	return domain.ProtocolConfig{
		TakerFeeBps:         uint16(GetInt(TakerFeeBpsKey)),
		MakerRebateBps:      uint16(GetInt(MakerRebateBpsKey)),
		BrokerFeePct:        uint8(GetInt(BrokerFeePctKey)),
		SnipeFeeBps:         uint16(GetInt(SnipeFeeBpsKey)),
		SnipeMinFee:         GetUint64(SnipeMinFeeKey),
		SnipeProfitShareBps: uint16(GetInt(SnipeProfitShareBpsKey)),
		FeeVault:            feeVault,
	}
}

// Whitelists returns the verified whitelists set in the config.
func Whitelists() []verifier.Whitelist {
	wls, _ := parseWhitelists(GetString(WhitelistsKey))
	return wls
}

// AppConfig returns the config of the application services.
func AppConfig() *application.Config {
	cosigner, _ := GetPublicKey(CosignerKey)
	return &application.Config{
		DBType:       GetString(DBTypeKey),
		DBConfig:     filepath.Join(GetDatadir(), DbLocation),
		Protocol:     ProtocolConfig(),
		ReserveFloor: GetUint64(ReserveFloorKey),
		Cosigner:     cosigner,
		Whitelists:   Whitelists(),
	}
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if _, ok := application.SupportedDBType[GetString(DBTypeKey)]; !ok {
		return fmt.Errorf("unsupported db type %s", GetString(DBTypeKey))
	}

	for key, max := range map[string]int{
		TakerFeeBpsKey:         10000,
		MakerRebateBpsKey:      10000,
		BrokerFeePctKey:        100,
		SnipeFeeBpsKey:         10000,
		SnipeProfitShareBpsKey: 10000,
	} {
		if v := GetInt(key); v < 0 || v > max {
			return fmt.Errorf("%s must be in range [0, %d]", key, max)
		}
	}
	if vip.GetInt64(SnipeMinFeeKey) < 0 {
		return fmt.Errorf("%s must not be negative", SnipeMinFeeKey)
	}
	if vip.GetInt64(ReserveFloorKey) < 0 {
		return fmt.Errorf("%s must not be negative", ReserveFloorKey)
	}

	if _, err := GetPublicKey(FeeVaultKey); err != nil {
		return err
	}
	if _, err := GetPublicKey(CosignerKey); err != nil {
		return err
	}
	if err := ProtocolConfig().Validate(); err != nil {
		return err
	}

	if _, err := parseWhitelists(GetString(WhitelistsKey)); err != nil {
		return err
	}
	return nil
}

func parseWhitelists(value string) ([]verifier.Whitelist, error) {
	wls := make([]verifier.Whitelist, 0)
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		parts := strings.Split(entry, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf(
				"invalid whitelist %q, must be in the form <address>:<root>", entry,
			)
		}
		address, err := solana.PublicKeyFromBase58(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid whitelist address %q: %s", parts[0], err)
		}
		root, err := hex.DecodeString(parts[1])
		if err != nil || len(root) != 32 {
			return nil, fmt.Errorf("invalid whitelist root %q", parts[1])
		}

		wl := verifier.Whitelist{Address: address, Verified: true}
		copy(wl.RootHash[:], root)
		wls = append(wls, wl)
	}
	return wls, nil
}

func initDatadir() error {
	datadir := GetDatadir()
	return makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation))
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}

func appDataDir(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + name
	}
	return filepath.Join(home, "."+name)
}
