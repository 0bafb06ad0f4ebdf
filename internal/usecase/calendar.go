package usecase

import (
	"time"

	"github.com/vitos/trade_pnl/internal/domain"
)

// FillMonth expands the sparse day map into one entry per calendar day
// of the given month, zero-filling days without trades. Month length
// follows the calendar, including leap years. Used only for the
// "calendar" period selector.
func FillMonth(days map[string]*domain.DailyEntry, year int, month time.Month) map[string]domain.DailyEntry {
	out := make(map[string]domain.DailyEntry)
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		if e, ok := days[key]; ok {
			out[key] = *e
		} else {
			out[key] = domain.DailyEntry{Date: key}
		}
	}
	return out
}
