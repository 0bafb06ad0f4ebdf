package domain

import "time"

// DustThreshold is the balance below which a position counts as fully
// closed even if not exactly zero. Swap rounding routinely leaves a
// few minor units behind.
const DustThreshold = 1e-6

// Position is the per-asset cost-basis accumulator rebuilt on every
// report computation. It is never persisted.
type Position struct {
	Mint             string    `json:"mint"`
	Symbol           string    `json:"symbol"`
	Name             string    `json:"name,omitempty"`
	LogoURI          string    `json:"logoURI,omitempty"`
	TotalBought      float64   `json:"totalBought"`
	TotalSold        float64   `json:"totalSold"`
	AvgBuyPrice      float64   `json:"avgBuyPrice"`
	AvgSellPrice     float64   `json:"avgSellPrice"`
	TotalBuyCost     float64   `json:"totalBuyCost"`
	TotalSellRevenue float64   `json:"totalSellRevenue"`
	CurrentBalance   float64   `json:"currentBalance"`
	RealizedPnl      float64   `json:"realizedPnl"`
	UnrealizedPnl    float64   `json:"unrealizedPnl"`
	Trades           int       `json:"trades"`
	LastTradeAt      time.Time `json:"lastTradeAt"`
	IsOpen           bool      `json:"isOpen"`

	// Inventory pool consumed by the costing strategy. For the
	// lifetime strategy it mirrors TotalBought/TotalBuyCost; the
	// remaining-inventory strategy shrinks it on every sell.
	PoolUnits float64 `json:"-"`
	PoolCost  float64 `json:"-"`
}

// Open reports whether the position still holds more than dust.
func (p *Position) Open() bool {
	return p.CurrentBalance > DustThreshold
}

// PositionSeed carries forward-looking cost-basis state from a
// pre-window replay into a window-local one. Realized totals are
// deliberately absent; those are reported as the window baseline.
type PositionSeed struct {
	AvgBuyPrice  float64
	TotalBought  float64
	TotalBuyCost float64
	PoolUnits    float64
	PoolCost     float64
	Balance      float64 // inventory on hand at the window boundary
}

// DailyEntry is one calendar day (UTC) of the ledger.
type DailyEntry struct {
	Date   string  `json:"date"`
	Pnl    float64 `json:"pnl"`
	Trades int     `json:"trades"`
	Volume float64 `json:"volume"`
}

// Summary holds the window-scoped aggregate totals and streaks.
type Summary struct {
	TotalRealizedPnl float64 `json:"totalRealizedPnl"`
	TotalVolume      float64 `json:"totalVolume"`
	TotalTrades      int     `json:"totalTrades"`
	CurrentStreak    int     `json:"currentStreak"`
	BestStreak       int     `json:"bestStreak"`
	WinRate          float64 `json:"winRate"`
}

// Report is the assembled PnL response for one account and window.
type Report struct {
	Period                string                `json:"period"`
	StartDate             string                `json:"startDate"`
	EndDate               string                `json:"endDate"`
	CumulativePnLBaseline float64               `json:"cumulativePnLBaseline"`
	Summary               Summary               `json:"summary"`
	DailyPnL              []DailyEntry          `json:"dailyPnL"`
	CalendarData          map[string]DailyEntry `json:"calendarData,omitempty"`
	Positions             []*Position           `json:"positions"`
	ActivePositions       []*Position           `json:"activePositions"`
	ClosedPositions       []*Position           `json:"closedPositions"`
}
