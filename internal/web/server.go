package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vitos/trade_pnl/internal/domain"
	"github.com/vitos/trade_pnl/internal/usecase"
	"go.uber.org/zap"
)

type Server struct {
	router    *http.ServeMux
	server    *http.Server
	tradeRepo domain.TradeRepository
	service   *usecase.ReportService
	hub       *WSHub
	logger    *zap.Logger
}

func NewServer(
	port int,
	tradeRepo domain.TradeRepository,
	service *usecase.ReportService,
	hub *WSHub,
	logger *zap.Logger,
) *Server {
	s := &Server{
		router:    http.NewServeMux(),
		tradeRepo: tradeRepo,
		service:   service,
		hub:       hub,
		logger:    logger,
	}
	s.routes()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	return s
}

func (s *Server) routes() {
	// PnL report
	s.router.HandleFunc("GET /api/pnl", s.handleReport)

	// Positions only (all-time portfolio view)
	s.router.HandleFunc("GET /api/positions", s.handlePositions)

	// Trade ingestion
	s.router.HandleFunc("POST /api/trades", s.handleIngestTrade)

	// Live report updates
	s.router.HandleFunc("GET /ws", s.hub.HandleWS)

	// Status
	s.router.HandleFunc("GET /status", s.handleStatus)
}

// Handler exposes the route table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("Starting web server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
