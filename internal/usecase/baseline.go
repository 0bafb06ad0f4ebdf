package usecase

import (
	"time"

	"github.com/vitos/trade_pnl/internal/domain"
)

// Baseline is the carried-forward state from trades settled strictly
// before a display window: the realized PnL booked before the window
// and the per-asset cost basis the in-window replay starts from.
type Baseline struct {
	RealizedPnl float64
	Seed        map[string]domain.PositionSeed
}

// BaselineComputer splits a trade log at a window boundary so a
// windowed query can cost in-window sells against purchases made
// before the window without re-scanning all time twice.
type BaselineComputer struct {
	accountant *Accountant
}

func NewBaselineComputer(accountant *Accountant) *BaselineComputer {
	return &BaselineComputer{accountant: accountant}
}

// ComputeBaseline replays every trade settled before windowStart. The
// exported seed keeps only forward-looking state (cost basis and the
// inventory on hand at the boundary); realized and sold totals are
// reset, they are reported separately as RealizedPnl.
// A zero windowStart ("all time") yields an empty baseline.
func (b *BaselineComputer) ComputeBaseline(trades []*domain.TradeRecord, windowStart time.Time) Baseline {
	base := Baseline{Seed: make(map[string]domain.PositionSeed)}
	if windowStart.IsZero() {
		return base
	}

	var before []*domain.TradeRecord
	for _, tr := range trades {
		if tr.EffectiveTime().Before(windowStart) {
			before = append(before, tr)
		}
	}

	for mint, pos := range b.accountant.Replay(before, nil, nil) {
		base.RealizedPnl += pos.RealizedPnl
		base.Seed[mint] = domain.PositionSeed{
			AvgBuyPrice:  pos.AvgBuyPrice,
			TotalBought:  pos.TotalBought,
			TotalBuyCost: pos.TotalBuyCost,
			PoolUnits:    pos.PoolUnits,
			PoolCost:     pos.PoolCost,
			Balance:      pos.CurrentBalance,
		}
	}
	return base
}
