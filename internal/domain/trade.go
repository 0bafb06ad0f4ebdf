package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// BaseMintSOL is wrapped SOL, the default settlement currency. Every
// cost and revenue figure in a report is denominated in the base asset.
const BaseMintSOL = "So11111111111111111111111111111111111111112"

type TradeStatus string

const (
	TradeStatusPending   TradeStatus = "pending"
	TradeStatusConfirmed TradeStatus = "confirmed"
	TradeStatusFailed    TradeStatus = "failed"
)

type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// ErrMalformedTrade marks a swap where the base asset is on both legs
// or on neither. Such records are skipped, never fatal.
var ErrMalformedTrade = errors.New("trade does not have exactly one base-asset leg")

// Amount is a raw integer amount in an asset's minor unit together
// with the asset's decimal scale (e.g. 9 for lamports).
type Amount struct {
	Raw      int64 `json:"raw"`
	Decimals int32 `json:"decimals"`
}

// UiAmount converts the raw amount to display units. The scaling is
// exact; only the final float64 conversion can round.
func (a Amount) UiAmount() float64 {
	f, _ := decimal.New(a.Raw, -a.Decimals).Float64()
	return f
}

// TradeRecord is one swap execution as stored by the ledger. Records
// reaching the accounting engine must already be settled; the engine
// does not re-check Status.
type TradeRecord struct {
	ID            string      `json:"id"`
	Account       string      `json:"account"`
	InputMint     string      `json:"inputMint"`
	OutputMint    string      `json:"outputMint"`
	InputAmount   Amount      `json:"inputAmount"`
	OutputAmount  Amount      `json:"outputAmount"`
	CounterSymbol string      `json:"counterSymbol"`
	Status        TradeStatus `json:"status"`
	CreatedAt     time.Time   `json:"createdAt"`
	ConfirmedAt   *time.Time  `json:"confirmedAt,omitempty"`
}

// EffectiveTime is the settlement time used for ordering and day
// bucketing: confirmation time when present, otherwise creation time.
func (t *TradeRecord) EffectiveTime() time.Time {
	if t.ConfirmedAt != nil && !t.ConfirmedAt.IsZero() {
		return *t.ConfirmedAt
	}
	return t.CreatedAt
}

// TradeDirection classifies the swap relative to baseMint: a buy of
// the counter asset when the base asset is the input leg, a sell when
// it is the output leg.
func (t *TradeRecord) TradeDirection(baseMint string) (Direction, error) {
	in := t.InputMint == baseMint
	out := t.OutputMint == baseMint
	switch {
	case in == out:
		return "", ErrMalformedTrade
	case in:
		return DirectionBuy, nil
	default:
		return DirectionSell, nil
	}
}

// CounterMint returns the mint of the non-base leg.
func (t *TradeRecord) CounterMint(baseMint string) string {
	if t.InputMint == baseMint {
		return t.OutputMint
	}
	return t.InputMint
}

// BaseAmount returns the base-asset leg of the swap.
func (t *TradeRecord) BaseAmount(baseMint string) Amount {
	if t.InputMint == baseMint {
		return t.InputAmount
	}
	return t.OutputAmount
}

// CounterAmount returns the counter-asset leg of the swap.
func (t *TradeRecord) CounterAmount(baseMint string) Amount {
	if t.InputMint == baseMint {
		return t.OutputAmount
	}
	return t.InputAmount
}
