package main

import (
	"github.com/shopspring/decimal"
	"github.com/tswap-network/tswap-engine/internal/core/application"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
	"github.com/tswap-network/tswap-engine/pkg/mathutil"
)

type poolView struct {
	Address           string           `json:"address"`
	Owner             string           `json:"owner"`
	Whitelist         string           `json:"whitelist"`
	SolEscrow         string           `json:"sol_escrow"`
	Version           uint8            `json:"version"`
	PoolType          string           `json:"pool_type"`
	CurveType         string           `json:"curve_type"`
	StartingPrice     decimal.Decimal  `json:"starting_price"`
	Delta             uint64           `json:"delta"`
	MMFeeBps          *uint16          `json:"mm_fee_bps,omitempty"`
	MMCompoundFees    bool             `json:"mm_compound_fees"`
	TakerSellCount    uint32           `json:"taker_sell_count"`
	TakerBuyCount     uint32           `json:"taker_buy_count"`
	NftsHeld          uint32           `json:"nfts_held"`
	Stats             domain.PoolStats `json:"stats"`
	Margin            string           `json:"margin,omitempty"`
	IsCosigned        bool             `json:"is_cosigned"`
	Sniping           bool             `json:"sniping"`
	Frozen            *domain.Frozen   `json:"frozen,omitempty"`
	MaxTakerSellCount uint32           `json:"max_taker_sell_count"`
}

func newPoolView(p *domain.Pool) poolView {
	v := poolView{
		Address:           p.Address.String(),
		Owner:             p.Owner.String(),
		Whitelist:         p.Whitelist.String(),
		SolEscrow:         p.SolEscrow.String(),
		Version:           p.Version,
		PoolType:          p.Config.PoolType.String(),
		CurveType:         p.Config.CurveType.String(),
		StartingPrice:     mathutil.ToSol(p.Config.StartingPrice),
		Delta:             p.Config.Delta,
		MMFeeBps:          p.Config.MMFeeBps,
		MMCompoundFees:    p.Config.MMCompoundFees,
		TakerSellCount:    p.TakerSellCount,
		TakerBuyCount:     p.TakerBuyCount,
		NftsHeld:          p.NftsHeld,
		Stats:             p.Stats,
		IsCosigned:        p.IsCosigned,
		Sniping:           p.IsSniping(),
		Frozen:            p.Frozen,
		MaxTakerSellCount: p.MaxTakerSellCount,
	}
	if p.Margin != nil {
		v.Margin = p.Margin.String()
	}
	return v
}

type marginView struct {
	Address       string `json:"address"`
	Owner         string `json:"owner"`
	Nr            uint16 `json:"nr"`
	Name          string `json:"name"`
	PoolsAttached uint32 `json:"pools_attached"`
}

func newMarginView(m *domain.MarginAccount) marginView {
	return marginView{
		Address:       m.Address.String(),
		Owner:         m.Owner.String(),
		Nr:            m.Nr,
		Name:          m.NameString(),
		PoolsAttached: m.PoolsAttached,
	}
}

type tradeView struct {
	ID        string          `json:"id"`
	Pool      string          `json:"pool"`
	Side      string          `json:"side"`
	Taker     string          `json:"taker"`
	Price     decimal.Decimal `json:"price"`
	Fees      domain.Fees     `json:"fees"`
	Royalty   uint64          `json:"royalty"`
	MMFee     uint64          `json:"mm_fee"`
	SnipeFee  uint64          `json:"snipe_fee"`
	Timestamp int64           `json:"timestamp"`
}

func newTradeView(t *domain.Trade) tradeView {
	return tradeView{
		ID:        t.ID.String(),
		Pool:      t.Pool.String(),
		Side:      t.Side.String(),
		Taker:     t.Taker.String(),
		Price:     mathutil.ToSol(t.Price),
		Fees:      t.Fees,
		Royalty:   t.Royalty,
		MMFee:     t.MMFee,
		SnipeFee:  t.SnipeFee,
		Timestamp: t.Timestamp,
	}
}

type quoteView struct {
	Pool  string          `json:"pool"`
	Side  string          `json:"side"`
	Price decimal.Decimal `json:"price"`
	Fees  domain.Fees     `json:"fees"`
	MMFee uint64          `json:"mm_fee"`
}

func newQuoteView(q *application.Quote) quoteView {
	return quoteView{
		Pool:  q.Pool.String(),
		Side:  q.Side.String(),
		Price: q.PriceSol,
		Fees:  q.Fees,
		MMFee: q.MMFee,
	}
}
