package ports

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
)

// RoyaltyLookup returns the royalty schedule of an nft.
type RoyaltyLookup interface {
	GetRoyalty(ctx context.Context, mint solana.PublicKey) (domain.RoyaltyInfo, error)
}

// WhitelistVerifier checks collection membership of nfts.
type WhitelistVerifier interface {
	// VerifyWhitelist makes sure the whitelist exists and has been verified.
	VerifyWhitelist(ctx context.Context, whitelist solana.PublicKey) error
	// VerifyMint makes sure the mint belongs to the whitelist, either because
	// it's listed or because the given merkle proof leads to the whitelist
	// root.
	VerifyMint(
		ctx context.Context, whitelist, mint solana.PublicKey, proof [][32]byte,
	) error
}

// CosignerVerifier confirms a designated second signer approved an operation
// on a cosigned pool.
type CosignerVerifier interface {
	VerifyCosigner(ctx context.Context, signer *solana.PublicKey) error
}
