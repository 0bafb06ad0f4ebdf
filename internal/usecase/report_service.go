package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vitos/trade_pnl/internal/domain"
	"go.uber.org/zap"
)

// ErrInvalidQuery marks report queries rejected before any data is
// touched, so transports can answer with a client error instead of a
// server one.
var ErrInvalidQuery = errors.New("invalid report query")

type Period string

const (
	PeriodDay      Period = "1d"
	PeriodWeek     Period = "7d"
	PeriodMonth    Period = "30d"
	PeriodCalendar Period = "calendar"
	PeriodAll      Period = "all"
)

// metadataWait bounds how long report assembly waits for best-effort
// token metadata lookups.
const metadataWait = 3 * time.Second

// ReportQuery selects an account and a display window.
type ReportQuery struct {
	Account string
	Period  Period
	Year    int
	Month   time.Month
}

// Window resolves the period selector to a [start, end] pair. A zero
// start means unbounded ("all time").
func (q ReportQuery) Window(now time.Time) (time.Time, time.Time, error) {
	switch q.Period {
	case PeriodAll, "":
		return time.Time{}, now, nil
	case PeriodDay:
		return now.AddDate(0, 0, -1), now, nil
	case PeriodWeek:
		return now.AddDate(0, 0, -7), now, nil
	case PeriodMonth:
		return now.AddDate(0, 0, -30), now, nil
	case PeriodCalendar:
		if q.Year <= 0 || q.Month < time.January || q.Month > time.December {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: calendar period requires year and month, got year=%d month=%d", ErrInvalidQuery, q.Year, int(q.Month))
		}
		start := time.Date(q.Year, q.Month, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
		return start, end, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown period %q", ErrInvalidQuery, q.Period)
	}
}

// ReportService turns an account's settled trade log into the PnL
// report: all-time positions, window-relative daily ledger, streaks
// and the pre-window baseline.
type ReportService struct {
	repo       domain.TradeRepository
	prices     domain.PriceProvider         // optional
	metadata   domain.TokenMetadataProvider // optional
	accountant *Accountant
	baseline   *BaselineComputer
	daily      *DailyLedger
	logger     *zap.Logger
	now        func() time.Time
}

func NewReportService(
	repo domain.TradeRepository,
	prices domain.PriceProvider,
	metadata domain.TokenMetadataProvider,
	accountant *Accountant,
	logger *zap.Logger,
) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		repo:       repo,
		prices:     prices,
		metadata:   metadata,
		accountant: accountant,
		baseline:   NewBaselineComputer(accountant),
		daily:      NewDailyLedger(accountant),
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the time source. Tests use it for stable windows.
func (s *ReportService) SetClock(now func() time.Time) {
	s.now = now
}

// Compute builds the report for one query. The trade log is loaded
// once and replayed twice: all time for the portfolio view, and
// baseline+window for the daily series.
func (s *ReportService) Compute(ctx context.Context, q ReportQuery) (*domain.Report, error) {
	start, end, err := q.Window(s.now())
	if err != nil {
		return nil, err
	}

	trades, err := s.repo.LoadSettledTrades(ctx, q.Account)
	if err != nil {
		return nil, fmt.Errorf("load settled trades: %w", err)
	}

	// Portfolio view is always all-time so positions never vanish
	// just because their trades fall outside the chart window.
	allPositions := s.accountant.Replay(trades, nil, nil)

	base := s.baseline.ComputeBaseline(trades, start)

	var within []*domain.TradeRecord
	for _, tr := range trades {
		ts := tr.EffectiveTime()
		if !start.IsZero() && ts.Before(start) {
			continue
		}
		if ts.After(end) {
			continue
		}
		within = append(within, tr)
	}

	days := s.daily.Aggregate(within, base.Seed)
	series := SortedDaily(days)
	streaks := AnalyzeStreaks(series)

	var summary domain.Summary
	summary.CurrentStreak = streaks.CurrentStreak
	summary.BestStreak = streaks.BestStreak
	summary.WinRate = streaks.WinRate
	for _, d := range series {
		summary.TotalRealizedPnl += d.Pnl
		summary.TotalVolume += d.Volume
		summary.TotalTrades += d.Trades
	}

	positions := s.assemblePositions(ctx, allPositions)

	report := &domain.Report{
		Period:                string(q.Period),
		StartDate:             s.startDate(start, trades),
		EndDate:               end.Format(dateLayout),
		CumulativePnLBaseline: base.RealizedPnl,
		Summary:               summary,
		DailyPnL:              series,
		Positions:             positions,
		ActivePositions:       make([]*domain.Position, 0),
		ClosedPositions:       make([]*domain.Position, 0),
	}

	for _, p := range positions {
		switch {
		case p.IsOpen:
			report.ActivePositions = append(report.ActivePositions, p)
		case p.TotalSold > 0:
			report.ClosedPositions = append(report.ClosedPositions, p)
		}
		// Zero-activity positions stay in the full array only.
	}

	if q.Period == PeriodCalendar {
		report.CalendarData = FillMonth(days, q.Year, q.Month)
	}

	return report, nil
}

func (s *ReportService) assemblePositions(ctx context.Context, byMint map[string]*domain.Position) []*domain.Position {
	positions := make([]*domain.Position, 0, len(byMint))
	for _, p := range byMint {
		p.IsOpen = p.Open()
		if s.prices != nil && p.IsOpen {
			if price, ok := s.prices.GetPrice(ctx, p.Mint); ok {
				p.UnrealizedPnl = p.CurrentBalance * (price - p.AvgBuyPrice)
			}
		}
		positions = append(positions, p)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].LastTradeAt.Equal(positions[j].LastTradeAt) {
			return positions[i].Mint < positions[j].Mint
		}
		return positions[i].LastTradeAt.After(positions[j].LastTradeAt)
	})
	s.enrichPositions(ctx, positions)
	return positions
}

// enrichPositions fetches display metadata for each mint, one request
// per asset, bounded by metadataWait. Failures are logged at debug and
// otherwise ignored; the numeric report never depends on this.
func (s *ReportService) enrichPositions(ctx context.Context, positions []*domain.Position) {
	if s.metadata == nil || len(positions) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, metadataWait)
	defer cancel()

	var wg sync.WaitGroup
	for _, p := range positions {
		wg.Add(1)
		go func(p *domain.Position) {
			defer wg.Done()
			meta, err := s.metadata.GetTokenMeta(ctx, p.Mint)
			if err != nil || meta == nil {
				if err != nil {
					s.logger.Debug("token metadata lookup failed", zap.String("mint", p.Mint), zap.Error(err))
				}
				return
			}
			p.Name = meta.Name
			p.LogoURI = meta.LogoURI
			if p.Symbol == "" {
				p.Symbol = meta.Symbol
			}
		}(p)
	}
	wg.Wait()
}

func (s *ReportService) startDate(start time.Time, trades []*domain.TradeRecord) string {
	if !start.IsZero() {
		return start.Format(dateLayout)
	}
	// All time: report the first trade's settlement date, if any.
	var first time.Time
	for _, tr := range trades {
		if ts := tr.EffectiveTime(); first.IsZero() || ts.Before(first) {
			first = ts
		}
	}
	if first.IsZero() {
		return ""
	}
	return first.UTC().Format(dateLayout)
}
