package metadata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/vitos/trade_pnl/internal/domain"
	"go.uber.org/zap"
)

// Client fetches token display metadata from an HTTP registry. It is
// strictly best effort: callers treat every error as "no metadata".
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(endpoint, "/")).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second)

	return &Client{http: client, logger: logger}
}

func (c *Client) GetTokenMeta(ctx context.Context, mint string) (*domain.TokenMeta, error) {
	var meta domain.TokenMeta
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&meta).
		SetPathParam("mint", mint).
		Get("/tokens/{mint}")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("token metadata request for %s failed: %s", mint, resp.Status())
	}
	if meta.Mint == "" {
		meta.Mint = mint
	}
	return &meta, nil
}
