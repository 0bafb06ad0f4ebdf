package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/trade_pnl/internal/domain"
	"github.com/vitos/trade_pnl/internal/usecase"
	"github.com/vitos/trade_pnl/internal/web"
	"go.uber.org/zap"
)

type memRepo struct {
	trades []*domain.TradeRecord
}

func (m *memRepo) SaveTrade(ctx context.Context, trade *domain.TradeRecord) error {
	m.trades = append(m.trades, trade)
	return nil
}

func (m *memRepo) LoadSettledTrades(ctx context.Context, account string) ([]*domain.TradeRecord, error) {
	var out []*domain.TradeRecord
	for _, tr := range m.trades {
		if tr.Account == account && tr.Status == domain.TradeStatusConfirmed {
			out = append(out, tr)
		}
	}
	return out, nil
}

func (m *memRepo) CountTrades(ctx context.Context, account string) (int, error) {
	return len(m.trades), nil
}

func newTestServer(repo domain.TradeRepository) *httptest.Server {
	logger := zap.NewNop()
	accountant := usecase.NewAccountant("", usecase.LifetimeAverage{}, logger)
	service := usecase.NewReportService(repo, nil, nil, accountant, logger)
	hub := web.NewWSHub(logger)
	go hub.Run()
	srv := web.NewServer(0, repo, service, hub, logger)
	return httptest.NewServer(srv.Handler())
}

func seededRepo() *memRepo {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	token := "TokenMint1111111111111111111111111111111111"
	return &memRepo{trades: []*domain.TradeRecord{
		{
			ID: "t1", Account: "acct-1",
			InputMint: domain.BaseMintSOL, OutputMint: token,
			InputAmount:  domain.Amount{Raw: 1_000_000_000, Decimals: 9},
			OutputAmount: domain.Amount{Raw: 100_000_000, Decimals: 6},
			CounterSymbol: "TOKEN", Status: domain.TradeStatusConfirmed, CreatedAt: t0,
		},
		{
			ID: "t2", Account: "acct-1",
			InputMint: token, OutputMint: domain.BaseMintSOL,
			InputAmount:  domain.Amount{Raw: 50_000_000, Decimals: 6},
			OutputAmount: domain.Amount{Raw: 2_000_000_000, Decimals: 9},
			CounterSymbol: "TOKEN", Status: domain.TradeStatusConfirmed, CreatedAt: t0.Add(time.Hour),
		},
	}}
}

func TestHandleReport(t *testing.T) {
	ts := newTestServer(seededRepo())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/pnl?account=acct-1&period=all")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report domain.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))

	assert.Equal(t, "all", report.Period)
	// Sell of 50 at avg 0.01: pnl = 2 - 0.5 = 1.5.
	assert.InDelta(t, 1.5, report.Summary.TotalRealizedPnl, 1e-9)
	assert.Len(t, report.Positions, 1)
	assert.True(t, report.Positions[0].IsOpen)
}

func TestHandleReportRequiresAccount(t *testing.T) {
	ts := newTestServer(&memRepo{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/pnl")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleReportRejectsBadPeriod(t *testing.T) {
	ts := newTestServer(seededRepo())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/pnl?account=acct-1&period=90d")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type failingRepo struct {
	memRepo
}

func (f *failingRepo) LoadSettledTrades(ctx context.Context, account string) ([]*domain.TradeRecord, error) {
	return nil, errors.New("ledger unavailable")
}

// Storage failures are the server's fault, not the caller's.
func TestHandleReportStorageFailureIs500(t *testing.T) {
	ts := newTestServer(&failingRepo{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/pnl?account=acct-1&period=7d")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHandlePositions(t *testing.T) {
	ts := newTestServer(seededRepo())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/positions?account=acct-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Positions       []*domain.Position `json:"positions"`
		ActivePositions []*domain.Position `json:"activePositions"`
		ClosedPositions []*domain.Position `json:"closedPositions"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Positions, 1)
	assert.Len(t, body.ActivePositions, 1)
	assert.Empty(t, body.ClosedPositions)
}

func TestHandleIngestTrade(t *testing.T) {
	repo := &memRepo{}
	ts := newTestServer(repo)
	defer ts.Close()

	payload, err := json.Marshal(domain.TradeRecord{
		ID:           "t1",
		Account:      "acct-1",
		InputMint:    domain.BaseMintSOL,
		OutputMint:   "TokenMint1111111111111111111111111111111111",
		InputAmount:  domain.Amount{Raw: 1_000_000_000, Decimals: 9},
		OutputAmount: domain.Amount{Raw: 100_000_000, Decimals: 6},
	})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/api/trades", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.Len(t, repo.trades, 1)
	saved := repo.trades[0]
	// Ingestion defaults: confirmed status, server-side timestamp.
	assert.Equal(t, domain.TradeStatusConfirmed, saved.Status)
	assert.False(t, saved.CreatedAt.IsZero())
}

func TestHandleIngestTradeValidation(t *testing.T) {
	ts := newTestServer(&memRepo{})
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/trades", "application/json", bytes.NewBufferString(`{"id":""}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleStatus(t *testing.T) {
	ts := newTestServer(&memRepo{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
