package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vitos/trade_pnl/internal/infrastructure/storage"
	"github.com/vitos/trade_pnl/internal/usecase"
)

func main() {
	dbPath := flag.String("db", "trades.db", "path to the sqlite trade ledger")
	account := flag.String("account", "", "account to analyze")
	period := flag.String("period", "all", "1d | 7d | 30d | calendar | all")
	year := flag.Int("year", 0, "year for calendar period")
	month := flag.Int("month", 0, "month for calendar period")
	costing := flag.String("costing", "lifetime", "lifetime | remaining")
	flag.Parse()

	if *account == "" {
		fmt.Println("Usage: analyzer -account <pubkey> [-db trades.db] [-period 7d]")
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStore(*dbPath)
	if err != nil {
		fmt.Printf("Error opening db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	accountant := usecase.NewAccountant("", usecase.NewCostingStrategy(*costing), nil)
	service := usecase.NewReportService(store, nil, nil, accountant, nil)

	report, err := service.Compute(context.Background(), usecase.ReportQuery{
		Account: *account,
		Period:  usecase.Period(*period),
		Year:    *year,
		Month:   time.Month(*month),
	})
	if err != nil {
		fmt.Printf("Error computing report: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Account: %s  Period: %s (%s .. %s)\n", *account, report.Period, report.StartDate, report.EndDate)
	fmt.Printf("Baseline PnL (pre-window): %+.6f\n", report.CumulativePnLBaseline)
	fmt.Printf("Realized PnL: %+.6f | Volume: %.6f | Trades: %d\n",
		report.Summary.TotalRealizedPnl, report.Summary.TotalVolume, report.Summary.TotalTrades)
	fmt.Printf("Streak: current %d, best %d | Win rate: %.1f%%\n",
		report.Summary.CurrentStreak, report.Summary.BestStreak, report.Summary.WinRate*100)

	if len(report.DailyPnL) > 0 {
		fmt.Printf("\n%-12s | %-12s | %-7s | %s\n", "Date", "PnL", "Trades", "Volume")
		fmt.Println("------------------------------------------------")
		for _, d := range report.DailyPnL {
			fmt.Printf("%-12s | %+-12.6f | %-7d | %.6f\n", d.Date, d.Pnl, d.Trades, d.Volume)
		}
	}

	if len(report.Positions) > 0 {
		fmt.Printf("\n%-10s | %-6s | %-12s | %-12s | %-12s | %s\n",
			"Symbol", "Open", "Balance", "AvgBuy", "Realized", "LastTrade")
		fmt.Println("--------------------------------------------------------------------------")
		for _, p := range report.Positions {
			open := ""
			if p.IsOpen {
				open = "YES"
			}
			fmt.Printf("%-10s | %-6s | %-12.6f | %-12.6f | %+-12.6f | %s\n",
				p.Symbol, open, p.CurrentBalance, p.AvgBuyPrice, p.RealizedPnl,
				p.LastTradeAt.UTC().Format("2006-01-02 15:04"))
		}
	}
}
