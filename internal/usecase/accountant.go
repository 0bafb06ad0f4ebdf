package usecase

import (
	"sort"

	"github.com/vitos/trade_pnl/internal/domain"
	"go.uber.org/zap"
)

// Fill is the outcome of applying one trade during a replay.
type Fill struct {
	Trade       *domain.TradeRecord
	Direction   domain.Direction
	BaseAmount  float64 // base-asset leg in display units
	TokenAmount float64 // counter-asset leg in display units
	RealizedPnl float64 // zero for buys
}

// Accountant replays an account's swap log into per-asset cost-basis
// positions. A replay is a pure pass over its input; the Accountant
// keeps no state between calls, so concurrent replays are safe.
type Accountant struct {
	baseMint string
	costing  CostingStrategy
	logger   *zap.Logger
}

func NewAccountant(baseMint string, costing CostingStrategy, logger *zap.Logger) *Accountant {
	if baseMint == "" {
		baseMint = domain.BaseMintSOL
	}
	if costing == nil {
		costing = LifetimeAverage{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Accountant{baseMint: baseMint, costing: costing, logger: logger}
}

func (a *Accountant) BaseMint() string { return a.baseMint }

// Replay processes trades in ascending settlement order (ties broken
// by record ID, since reordering equal-timestamp fills changes the
// cost basis seen by later sells) and returns one Position per counter
// asset. seed pre-loads per-asset cost basis from an earlier replay
// and may be nil. observer, when non-nil, is invoked once per applied
// trade. Malformed records are skipped with a warning. Sells larger
// than tracked holdings are allowed and drive the balance negative;
// partial trade logs depend on that tolerance.
func (a *Accountant) Replay(trades []*domain.TradeRecord, seed map[string]domain.PositionSeed, observer func(Fill)) map[string]*domain.Position {
	ordered := make([]*domain.TradeRecord, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		ti, tj := ordered[i].EffectiveTime(), ordered[j].EffectiveTime()
		if ti.Equal(tj) {
			return ordered[i].ID < ordered[j].ID
		}
		return ti.Before(tj)
	})

	positions := make(map[string]*domain.Position)
	for _, tr := range ordered {
		dir, err := tr.TradeDirection(a.baseMint)
		if err != nil {
			a.logger.Warn("skipping malformed trade",
				zap.String("trade_id", tr.ID),
				zap.String("input_mint", tr.InputMint),
				zap.String("output_mint", tr.OutputMint),
				zap.Error(err))
			continue
		}

		mint := tr.CounterMint(a.baseMint)
		pos := positions[mint]
		if pos == nil {
			pos = seededPosition(mint, tr.CounterSymbol, seed[mint])
			positions[mint] = pos
		}

		baseUi := tr.BaseAmount(a.baseMint).UiAmount()
		tokenUi := tr.CounterAmount(a.baseMint).UiAmount()

		var pnl float64
		if dir == domain.DirectionBuy {
			a.costing.OnBuy(pos, tokenUi, baseUi)
		} else {
			pnl = a.costing.OnSell(pos, tokenUi, baseUi)
		}

		pos.Trades++
		if ts := tr.EffectiveTime(); ts.After(pos.LastTradeAt) {
			pos.LastTradeAt = ts
		}

		if observer != nil {
			observer(Fill{
				Trade:       tr,
				Direction:   dir,
				BaseAmount:  baseUi,
				TokenAmount: tokenUi,
				RealizedPnl: pnl,
			})
		}
	}
	return positions
}

func seededPosition(mint, symbol string, s domain.PositionSeed) *domain.Position {
	return &domain.Position{
		Mint:           mint,
		Symbol:         symbol,
		AvgBuyPrice:    s.AvgBuyPrice,
		TotalBought:    s.TotalBought,
		TotalBuyCost:   s.TotalBuyCost,
		CurrentBalance: s.Balance,
		PoolUnits:      s.PoolUnits,
		PoolCost:       s.PoolCost,
	}
}
