package domain

import "github.com/gagliardetto/solana-go"

const (
	// CurrentPoolVersion is the layout version every pool must have in order to
	// be traded.
	CurrentPoolVersion = uint8(2)

	// PoolSize is the size in bytes of a persisted pool record, including the
	// reserved tail left for forward compatible field growth.
	PoolSize = 447
	// MarginAccountSize is the size in bytes of a persisted margin account.
	MarginAccountSize = 143

	// MaxDeltaBps is the max rate of an exponential curve.
	MaxDeltaBps = 9999
	// MaxMMFeeBps is the max market maker fee of a trade pool.
	MaxMMFeeBps = 9999

	// Default protocol fees.
	DefaultTakerFeeBps         = 140
	DefaultMakerRebateBps      = 25
	DefaultBrokerFeePct        = 50
	DefaultSnipeFeeBps         = 150
	DefaultSnipeMinFee         = 10_000_000
	DefaultSnipeProfitShareBps = 2000
)

var (
	// ProgramID is the namespace under which every pool, margin account and
	// escrow key is derived.
	ProgramID = solana.MustPublicKeyFromBase58(
		"TSWAPaqyCSx2KABk68Shruf4rp7CxcNi8hAsbdwmHbN",
	)

	poolEscrowSeed = []byte("sol_escrow")
	marginSeed     = []byte("margin")
)
