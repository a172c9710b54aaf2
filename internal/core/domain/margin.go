package domain

import (
	"bytes"

	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-engine/pkg/mathutil"
)

// MarginAccount is a shared collateral account backing the buy side of many
// pools. Its balance lives in the settlement layer, the account only counts
// attachments.
type MarginAccount struct {
	Address       solana.PublicKey
	Owner         solana.PublicKey
	Nr            uint16
	Name          [32]byte
	CreatedAt     int64
	PoolsAttached uint32
}

// NewMarginAccount returns the nr-th margin account of the given owner. The
// name is truncated to 32 bytes.
func NewMarginAccount(
	owner solana.PublicKey, nr uint16, name string, now int64,
) (*MarginAccount, error) {
	address, err := MarginAddress(owner, nr)
	if err != nil {
		return nil, err
	}

	m := &MarginAccount{
		Address:   address,
		Owner:     owner,
		Nr:        nr,
		CreatedAt: now,
	}
	copy(m.Name[:], name)
	return m, nil
}

// NameString returns the name of the account without padding.
func (m *MarginAccount) NameString() string {
	return string(bytes.TrimRight(m.Name[:], "\x00"))
}

// ValidateClose makes sure no pool is backed by the account anymore.
func (m *MarginAccount) ValidateClose() error {
	if m.PoolsAttached > 0 {
		return ErrMarginInUse
	}
	return nil
}

// AttachMargin makes the given margin account back the pool. Moving the
// funds of the pool escrow into the margin account is up to the caller.
func (p *Pool) AttachMargin(m *MarginAccount) error {
	if p.Version != CurrentPoolVersion {
		return ErrWrongPoolVersion
	}
	if p.Config.PoolType == PoolTypeNFT {
		return ErrWrongPoolType
	}
	if !m.Owner.Equals(p.Owner) {
		return ErrBadOwner
	}
	if p.IsMarginated() {
		return ErrPoolMarginated
	}
	if p.IsFrozen() {
		return ErrPoolFrozen
	}

	attached, err := mathutil.AddUint32(m.PoolsAttached, 1)
	if err != nil {
		return err
	}

	address := m.Address
	p.Margin = &address
	m.PoolsAttached = attached
	// The cap may have been left behind by trades made while detached.
	p.AdjustMaxTakerSellCount()
	return nil
}

// DetachMargin releases the pool from the given margin account.
func (p *Pool) DetachMargin(m *MarginAccount) error {
	if !p.IsMarginated() {
		return ErrPoolNotMarginated
	}
	if !p.Margin.Equals(m.Address) {
		return ErrBadMargin
	}
	if p.IsFrozen() {
		return ErrPoolFrozen
	}

	attached, err := mathutil.SubUint32(m.PoolsAttached, 1)
	if err != nil {
		return err
	}

	p.Margin = nil
	m.PoolsAttached = attached
	return nil
}
