package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
)

type metrics struct {
	trades      *prometheus.CounterVec
	fees        *prometheus.CounterVec
	frozenPools prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		trades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tswap",
			Name:      "trades_total",
			Help:      "Number of settled trades.",
		}, []string{"side", "pool_type"}),
		fees: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tswap",
			Name:      "fees_collected_lamports_total",
			Help:      "Lamports collected by kind of fee.",
		}, []string{"kind"}),
		frozenPools: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tswap",
			Name:      "frozen_pools",
			Help:      "Number of pools currently frozen.",
		}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.trades, m.fees, m.frozenPools} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// seedFrozenPools sets the frozen pools gauge from the stored pools.
func (m *metrics) seedFrozenPools(pools []*domain.Pool) {
	frozen := 0
	for _, p := range pools {
		if p.IsFrozen() {
			frozen++
		}
	}
	m.frozenPools.Set(float64(frozen))
}

func (m *metrics) observeTrade(pool *domain.Pool, trade *domain.Trade) {
	m.trades.WithLabelValues(
		trade.Side.String(), pool.Config.PoolType.String(),
	).Inc()

	m.fees.WithLabelValues("protocol").Add(float64(trade.Fees.ProtocolFee))
	m.fees.WithLabelValues("broker").Add(float64(trade.Fees.BrokerFee))
	m.fees.WithLabelValues("maker_rebate").Add(float64(trade.Fees.MakerRebate))
	m.fees.WithLabelValues("royalty").Add(float64(trade.Royalty))
	m.fees.WithLabelValues("mm").Add(float64(trade.MMFee))
	m.fees.WithLabelValues("snipe").Add(float64(trade.SnipeFee))
}
