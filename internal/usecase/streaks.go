package usecase

import "github.com/vitos/trade_pnl/internal/domain"

// StreakStats summarizes consecutive-positive-day runs over a daily
// series.
type StreakStats struct {
	CurrentStreak int
	BestStreak    int
	WinRate       float64
}

// AnalyzeStreaks derives streaks and win rate from a daily series
// sorted ascending by date. A day with pnl <= 0 breaks a run; days
// without trades are absent from the sparse series and excluded from
// the win-rate denominator. Callers must not densify first.
func AnalyzeStreaks(days []domain.DailyEntry) StreakStats {
	var stats StreakStats
	run := 0
	wins := 0
	for _, d := range days {
		if d.Pnl > 0 {
			run++
			wins++
			if run > stats.BestStreak {
				stats.BestStreak = run
			}
		} else {
			run = 0
		}
	}

	for i := len(days) - 1; i >= 0; i-- {
		if days[i].Pnl <= 0 {
			break
		}
		stats.CurrentStreak++
	}

	total := len(days)
	if total < 1 {
		total = 1
	}
	stats.WinRate = float64(wins) / float64(total)
	return stats
}
