package usecase

import "github.com/vitos/trade_pnl/internal/domain"

// CostingStrategy decides how a position's cost-basis pool reacts to
// fills. Implementations mutate the Position accumulators in place;
// OnSell returns the realized PnL of that sell.
type CostingStrategy interface {
	Name() string
	OnBuy(p *domain.Position, tokenAmount, baseCost float64)
	OnSell(p *domain.Position, tokenAmount, baseRevenue float64) float64
}

// NewCostingStrategy maps a config value to a strategy. Unknown values
// fall back to lifetime, the historical default.
func NewCostingStrategy(name string) CostingStrategy {
	if name == "remaining" {
		return RemainingInventoryAverage{}
	}
	return LifetimeAverage{}
}

// LifetimeAverage reproduces the ledger's historical behavior:
// avgBuyPrice is a weighted average over every buy ever seen and does
// not shrink as inventory is sold off. Once an asset is fully sold and
// repurchased, the old buys still dilute the new cost basis. Kept as
// the default so reported numbers stay stable across versions.
type LifetimeAverage struct{}

func (LifetimeAverage) Name() string { return "lifetime" }

func (LifetimeAverage) OnBuy(p *domain.Position, tokenAmount, baseCost float64) {
	p.TotalBought += tokenAmount
	p.TotalBuyCost += baseCost
	p.CurrentBalance += tokenAmount
	p.PoolUnits = p.TotalBought
	p.PoolCost = p.TotalBuyCost
	if p.TotalBought > 0 {
		p.AvgBuyPrice = p.TotalBuyCost / p.TotalBought
	}
}

func (LifetimeAverage) OnSell(p *domain.Position, tokenAmount, baseRevenue float64) float64 {
	costBasis := p.AvgBuyPrice * tokenAmount
	pnl := baseRevenue - costBasis
	p.RealizedPnl += pnl
	p.TotalSold += tokenAmount
	p.TotalSellRevenue += baseRevenue
	p.CurrentBalance -= tokenAmount
	if p.TotalSold > 0 {
		p.AvgSellPrice = p.TotalSellRevenue / p.TotalSold
	}
	return pnl
}

// RemainingInventoryAverage is true weighted-average costing: every
// sell removes the proportional cost from the pool, so a position that
// is fully closed and re-entered starts from a fresh cost basis.
type RemainingInventoryAverage struct{}

func (RemainingInventoryAverage) Name() string { return "remaining" }

func (RemainingInventoryAverage) OnBuy(p *domain.Position, tokenAmount, baseCost float64) {
	p.TotalBought += tokenAmount
	p.TotalBuyCost += baseCost
	p.CurrentBalance += tokenAmount
	p.PoolUnits += tokenAmount
	p.PoolCost += baseCost
	if p.PoolUnits > 0 {
		p.AvgBuyPrice = p.PoolCost / p.PoolUnits
	}
}

func (RemainingInventoryAverage) OnSell(p *domain.Position, tokenAmount, baseRevenue float64) float64 {
	costBasis := p.AvgBuyPrice * tokenAmount
	pnl := baseRevenue - costBasis
	p.RealizedPnl += pnl
	p.TotalSold += tokenAmount
	p.TotalSellRevenue += baseRevenue
	p.CurrentBalance -= tokenAmount
	if p.TotalSold > 0 {
		p.AvgSellPrice = p.TotalSellRevenue / p.TotalSold
	}

	p.PoolUnits -= tokenAmount
	p.PoolCost -= costBasis
	if p.PoolUnits <= domain.DustThreshold {
		// Oversold or emptied pool: next buy starts a fresh basis.
		p.PoolUnits = 0
		p.PoolCost = 0
		p.AvgBuyPrice = 0
	} else {
		p.AvgBuyPrice = p.PoolCost / p.PoolUnits
	}
	return pnl
}
