package usecase_test

import (
	"testing"
	"time"

	"github.com/vitos/trade_pnl/internal/domain"
	"github.com/vitos/trade_pnl/internal/usecase"
)

func TestDailyAggregateBucketsByUTCDate(t *testing.T) {
	day1 := time.Date(2025, 3, 1, 23, 50, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 2, 0, 10, 0, 0, time.UTC)

	trades := []*domain.TradeRecord{
		buyTrade("t1", day1, testTokenMint, 100, 1),
		sellTrade("t2", day2, testTokenMint, 50, 2),
		sellTrade("t3", day2.Add(time.Hour), testTokenMint, 50, 1),
	}

	ledger := usecase.NewDailyLedger(newTestAccountant())
	days := ledger.Aggregate(trades, nil)

	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}

	d1 := days["2025-03-01"]
	if d1 == nil || d1.Trades != 1 || !floatEquals(d1.Volume, 1) {
		t.Errorf("day1 = %+v, want 1 trade, volume 1", d1)
	}
	// Buys never contribute PnL.
	if !floatEquals(d1.Pnl, 0) {
		t.Errorf("day1 pnl = %v, want 0", d1.Pnl)
	}

	d2 := days["2025-03-02"]
	if d2 == nil || d2.Trades != 2 || !floatEquals(d2.Volume, 3) {
		t.Errorf("day2 = %+v, want 2 trades, volume 3", d2)
	}
	// Sells at avg 0.01: (2 - 0.5) + (1 - 0.5) = 2.
	if !floatEquals(d2.Pnl, 2) {
		t.Errorf("day2 pnl = %v, want 2", d2.Pnl)
	}
}

// A window-local replay must cost sells against the pre-window seed.
func TestDailyAggregateUsesSeed(t *testing.T) {
	sellDay := time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)
	trades := []*domain.TradeRecord{
		sellTrade("t1", sellDay, testTokenMint, 150, 6),
	}
	seed := map[string]domain.PositionSeed{
		testTokenMint: {AvgBuyPrice: 0.02, TotalBought: 200, TotalBuyCost: 4, PoolUnits: 200, PoolCost: 4, Balance: 200},
	}

	days := usecase.NewDailyLedger(newTestAccountant()).Aggregate(trades, seed)
	d := days["2025-04-10"]
	if d == nil {
		t.Fatal("expected an entry for 2025-04-10")
	}
	if !floatEquals(d.Pnl, 3) {
		t.Errorf("pnl = %v, want 3 (6 revenue - 0.02*150 basis)", d.Pnl)
	}
}

// ConfirmedAt, when set, wins over CreatedAt for bucketing.
func TestDailyAggregateUsesConfirmationTime(t *testing.T) {
	created := time.Date(2025, 5, 1, 23, 59, 0, 0, time.UTC)
	confirmed := time.Date(2025, 5, 2, 0, 1, 0, 0, time.UTC)

	tr := buyTrade("t1", created, testTokenMint, 10, 1)
	tr.ConfirmedAt = &confirmed

	days := usecase.NewDailyLedger(newTestAccountant()).Aggregate([]*domain.TradeRecord{tr}, nil)
	if days["2025-05-02"] == nil {
		t.Fatal("trade should bucket under its confirmation date")
	}
	if days["2025-05-01"] != nil {
		t.Error("trade must not also appear under its creation date")
	}
}

func TestSortedDailyAscending(t *testing.T) {
	days := map[string]*domain.DailyEntry{
		"2025-03-03": {Date: "2025-03-03"},
		"2025-03-01": {Date: "2025-03-01"},
		"2025-03-02": {Date: "2025-03-02"},
	}
	series := usecase.SortedDaily(days)
	want := []string{"2025-03-01", "2025-03-02", "2025-03-03"}
	for i, d := range series {
		if d.Date != want[i] {
			t.Errorf("series[%d] = %s, want %s", i, d.Date, want[i])
		}
	}
}
