package usecase

import (
	"sort"

	"github.com/vitos/trade_pnl/internal/domain"
)

const dateLayout = "2006-01-02"

// DailyLedger buckets in-window fills into per-day realized PnL, trade
// count and base-asset volume, keyed by UTC calendar date.
type DailyLedger struct {
	accountant *Accountant
}

func NewDailyLedger(accountant *Accountant) *DailyLedger {
	return &DailyLedger{accountant: accountant}
}

// Aggregate replays the in-window trades seeded by the pre-window
// baseline. Buys contribute volume and count but never PnL; PnL is
// realized only on sells.
func (d *DailyLedger) Aggregate(trades []*domain.TradeRecord, seed map[string]domain.PositionSeed) map[string]*domain.DailyEntry {
	days := make(map[string]*domain.DailyEntry)
	d.accountant.Replay(trades, seed, func(f Fill) {
		key := f.Trade.EffectiveTime().UTC().Format(dateLayout)
		entry := days[key]
		if entry == nil {
			entry = &domain.DailyEntry{Date: key}
			days[key] = entry
		}
		entry.Trades++
		entry.Volume += f.BaseAmount
		if f.Direction == domain.DirectionSell {
			entry.Pnl += f.RealizedPnl
		}
	})
	return days
}

// SortedDaily flattens the day map into a series ascending by date.
// The YYYY-MM-DD key sorts lexicographically in date order.
func SortedDaily(days map[string]*domain.DailyEntry) []domain.DailyEntry {
	out := make([]domain.DailyEntry, 0, len(days))
	for _, e := range days {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
