package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vitos/trade_pnl/internal/domain"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			id TEXT PRIMARY KEY,
			account TEXT NOT NULL,
			input_mint TEXT NOT NULL,
			output_mint TEXT NOT NULL,
			input_amount INTEGER NOT NULL,
			input_decimals INTEGER NOT NULL,
			output_amount INTEGER NOT NULL,
			output_decimals INTEGER NOT NULL,
			counter_symbol TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			confirmed_at DATETIME
		);`,
		`CREATE INDEX IF NOT EXISTS idx_trades_account_status ON trades(account, status);`,
		`CREATE INDEX IF NOT EXISTS idx_trades_settled_at ON trades(account, COALESCE(confirmed_at, created_at));`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to exec query %s: %w", q, err)
		}
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// TradeRepository Implementation

func (s *SQLiteStore) SaveTrade(ctx context.Context, trade *domain.TradeRecord) error {
	query := `INSERT INTO trades (id, account, input_mint, output_mint, input_amount, input_decimals, output_amount, output_decimals, counter_symbol, status, created_at, confirmed_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON CONFLICT(id) DO UPDATE SET
			  status=excluded.status,
			  confirmed_at=excluded.confirmed_at`
	var confirmedAt any
	if trade.ConfirmedAt != nil {
		confirmedAt = *trade.ConfirmedAt
	}
	_, err := s.db.ExecContext(ctx, query,
		trade.ID, trade.Account, trade.InputMint, trade.OutputMint,
		trade.InputAmount.Raw, trade.InputAmount.Decimals,
		trade.OutputAmount.Raw, trade.OutputAmount.Decimals,
		trade.CounterSymbol, trade.Status, trade.CreatedAt, confirmedAt)
	return err
}

// LoadSettledTrades returns confirmed trades ordered ascending by
// settlement time (confirmation time when present, else creation
// time), with the record ID as a stable tie-break.
func (s *SQLiteStore) LoadSettledTrades(ctx context.Context, account string) ([]*domain.TradeRecord, error) {
	query := `SELECT id, account, input_mint, output_mint, input_amount, input_decimals, output_amount, output_decimals, counter_symbol, status, created_at, confirmed_at
			  FROM trades
			  WHERE account = ? AND status = ?
			  ORDER BY COALESCE(confirmed_at, created_at) ASC, id ASC`
	rows, err := s.db.QueryContext(ctx, query, account, domain.TradeStatusConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []*domain.TradeRecord
	for rows.Next() {
		var t domain.TradeRecord
		var confirmedAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.Account, &t.InputMint, &t.OutputMint,
			&t.InputAmount.Raw, &t.InputAmount.Decimals,
			&t.OutputAmount.Raw, &t.OutputAmount.Decimals,
			&t.CounterSymbol, &t.Status, &t.CreatedAt, &confirmedAt); err != nil {
			return nil, err
		}
		if confirmedAt.Valid {
			ts := confirmedAt.Time
			t.ConfirmedAt = &ts
		}
		trades = append(trades, &t)
	}
	return trades, rows.Err()
}

func (s *SQLiteStore) CountTrades(ctx context.Context, account string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trades WHERE account = ?`, account).Scan(&count)
	return count, err
}
