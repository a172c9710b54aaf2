package domain

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// PoolAddress derives the key of the pool identified by the given owner,
// whitelist and pricing parameters. Editing the config of a pool re-keys it.
func PoolAddress(
	owner, whitelist solana.PublicKey, config PoolConfig,
) (solana.PublicKey, error) {
	key, _, err := solana.FindProgramAddress(
		[][]byte{
			owner.Bytes(),
			whitelist.Bytes(),
			{byte(config.PoolType)},
			{byte(config.CurveType)},
			uint64LE(config.StartingPrice),
			uint64LE(config.Delta),
		},
		ProgramID,
	)
	return key, err
}

// SolEscrowAddress derives the key of the account holding the funds of the
// given pool.
func SolEscrowAddress(pool solana.PublicKey) (solana.PublicKey, error) {
	key, _, err := solana.FindProgramAddress(
		[][]byte{poolEscrowSeed, pool.Bytes()}, ProgramID,
	)
	return key, err
}

// MarginAddress derives the key of the nr-th margin account of owner.
func MarginAddress(owner solana.PublicKey, nr uint16) (solana.PublicKey, error) {
	tswap, err := TSwapAddress()
	if err != nil {
		return solana.PublicKey{}, err
	}

	nrLE := make([]byte, 2)
	binary.LittleEndian.PutUint16(nrLE, nr)

	key, _, err := solana.FindProgramAddress(
		[][]byte{marginSeed, tswap.Bytes(), owner.Bytes(), nrLE}, ProgramID,
	)
	return key, err
}

// TSwapAddress derives the key of the protocol wide singleton.
func TSwapAddress() (solana.PublicKey, error) {
	key, _, err := solana.FindProgramAddress([][]byte{}, ProgramID)
	return key, err
}

func uint64LE(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}
