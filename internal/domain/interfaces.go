package domain

import "context"

// TradeRepository defines storage operations for swap executions.
type TradeRepository interface {
	SaveTrade(ctx context.Context, trade *TradeRecord) error
	// LoadSettledTrades returns every confirmed trade for the account
	// ordered ascending by settlement time.
	LoadSettledTrades(ctx context.Context, account string) ([]*TradeRecord, error)
	CountTrades(ctx context.Context, account string) (int, error)
}

// PriceProvider supplies a current base-asset price per counter asset
// for unrealized PnL. The second return is false when no price is
// known; the report then leaves unrealizedPnl at zero.
type PriceProvider interface {
	GetPrice(ctx context.Context, mint string) (float64, bool)
}

// TokenMeta is display metadata for a counter asset.
type TokenMeta struct {
	Mint    string `json:"mint"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	LogoURI string `json:"logoURI"`
}

// TokenMetadataProvider enriches positions with name/logo. Best
// effort: failures must never affect the numeric report.
type TokenMetadataProvider interface {
	GetTokenMeta(ctx context.Context, mint string) (*TokenMeta, error)
}
