package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/vitos/trade_pnl/internal/domain"
	"github.com/vitos/trade_pnl/internal/usecase"
	"go.uber.org/zap"
)

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	account := query.Get("account")
	if account == "" {
		http.Error(w, "account is required", http.StatusBadRequest)
		return
	}

	period := usecase.Period(query.Get("period"))
	if period == "" {
		period = usecase.PeriodWeek
	}

	year, _ := strconv.Atoi(query.Get("year"))
	month, _ := strconv.Atoi(query.Get("month"))

	report, err := s.service.Compute(r.Context(), usecase.ReportQuery{
		Account: account,
		Period:  period,
		Year:    year,
		Month:   time.Month(month),
	})
	if err != nil {
		s.logger.Error("Failed to compute report", zap.String("account", account), zap.Error(err))
		if errors.Is(err, usecase.ErrInvalidQuery) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, "failed to compute report", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, s.logger, report)
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	if account == "" {
		http.Error(w, "account is required", http.StatusBadRequest)
		return
	}

	report, err := s.service.Compute(r.Context(), usecase.ReportQuery{
		Account: account,
		Period:  usecase.PeriodAll,
	})
	if err != nil {
		s.logger.Error("Failed to compute positions", zap.String("account", account), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, s.logger, map[string]any{
		"positions":       report.Positions,
		"activePositions": report.ActivePositions,
		"closedPositions": report.ClosedPositions,
	})
}

func (s *Server) handleIngestTrade(w http.ResponseWriter, r *http.Request) {
	var trade domain.TradeRecord
	if err := json.NewDecoder(r.Body).Decode(&trade); err != nil {
		http.Error(w, "invalid trade payload", http.StatusBadRequest)
		return
	}
	if trade.ID == "" || trade.Account == "" {
		http.Error(w, "trade id and account are required", http.StatusBadRequest)
		return
	}
	if trade.CreatedAt.IsZero() {
		trade.CreatedAt = time.Now().UTC()
	}
	if trade.Status == "" {
		trade.Status = domain.TradeStatusConfirmed
	}

	if err := s.tradeRepo.SaveTrade(r.Context(), &trade); err != nil {
		s.logger.Error("Failed to save trade", zap.String("trade_id", trade.ID), zap.Error(err))
		http.Error(w, "failed to save trade", http.StatusInternalServerError)
		return
	}

	// Tell connected dashboards the ledger changed so they refetch.
	s.hub.Broadcast(WSMessage{
		Type:    "trade_ingested",
		Account: trade.Account,
		TradeID: trade.ID,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]string{"id": trade.ID}); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}
