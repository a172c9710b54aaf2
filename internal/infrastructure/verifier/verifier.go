package verifier

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
	"github.com/tswap-network/tswap-engine/internal/core/ports"
)

type cosignerVerifier struct {
	cosigner solana.PublicKey
}

// NewCosignerVerifier returns a verifier accepting only the given cosigner.
func NewCosignerVerifier(cosigner solana.PublicKey) ports.CosignerVerifier {
	return &cosignerVerifier{cosigner}
}

func (v *cosignerVerifier) VerifyCosigner(
	_ context.Context, signer *solana.PublicKey,
) error {
	if signer == nil || !signer.Equals(v.cosigner) {
		return domain.ErrBadCosigner
	}
	return nil
}

// Whitelist describes a collection either by an explicit list of mints, by
// the root of a merkle tree of mints, or both.
type Whitelist struct {
	Address  solana.PublicKey
	Verified bool
	RootHash [32]byte
	Mints    []solana.PublicKey
}

type whitelistRegistry struct {
	whitelists map[solana.PublicKey]whitelistEntry
	lock       *sync.RWMutex
}

type whitelistEntry struct {
	Whitelist
	mints map[solana.PublicKey]struct{}
}

// WhitelistRegistry is a WhitelistVerifier whose whitelists can be
// registered at runtime.
type WhitelistRegistry interface {
	ports.WhitelistVerifier
	AddWhitelist(wl Whitelist)
}

// NewWhitelistRegistry returns an empty registry.
func NewWhitelistRegistry() WhitelistRegistry {
	return &whitelistRegistry{
		whitelists: map[solana.PublicKey]whitelistEntry{},
		lock:       &sync.RWMutex{},
	}
}

func (r *whitelistRegistry) AddWhitelist(wl Whitelist) {
	r.lock.Lock()
	defer r.lock.Unlock()

	mints := make(map[solana.PublicKey]struct{}, len(wl.Mints))
	for _, m := range wl.Mints {
		mints[m] = struct{}{}
	}
	r.whitelists[wl.Address] = whitelistEntry{wl, mints}
}

func (r *whitelistRegistry) VerifyWhitelist(
	_ context.Context, whitelist solana.PublicKey,
) error {
	r.lock.RLock()
	defer r.lock.RUnlock()

	_, err := r.getVerified(whitelist)
	return err
}

func (r *whitelistRegistry) VerifyMint(
	_ context.Context, whitelist, mint solana.PublicKey, proof [][32]byte,
) error {
	r.lock.RLock()
	defer r.lock.RUnlock()

	wl, err := r.getVerified(whitelist)
	if err != nil {
		return err
	}

	if _, ok := wl.mints[mint]; ok {
		return nil
	}
	if wl.RootHash == ([32]byte{}) {
		return domain.ErrBadMintProof
	}
	if !VerifyProof(proof, wl.RootHash, Leaf(mint.Bytes())) {
		return domain.ErrInvalidProof
	}
	return nil
}

func (r *whitelistRegistry) getVerified(
	whitelist solana.PublicKey,
) (whitelistEntry, error) {
	wl, ok := r.whitelists[whitelist]
	if !ok {
		return whitelistEntry{}, domain.ErrBadWhitelist
	}
	if !wl.Verified {
		return whitelistEntry{}, domain.ErrWhitelistNotVerified
	}
	return wl, nil
}
