package backtest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/newthinker/btview/internal/core"
	"github.com/newthinker/btview/internal/metrics"
	"go.uber.org/zap"
)

const maxResponseBytes = 64 << 20

// Engine is the external backtest service
type Engine interface {
	Run(ctx context.Context, req Request) (*Decoded, error)
	Strategies(ctx context.Context) (json.RawMessage, error)
	SearchStocks(ctx context.Context, keyword string) (json.RawMessage, error)
}

// Client talks to the engine over HTTP
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates an engine client. baseURL includes the API prefix,
// e.g. http://localhost:8000/api/v1
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Run validates req, submits it and decodes the engine's reply.
// A reply with success=false is returned as ErrEngineFailed carrying the
// engine's message.
func (c *Client) Run(ctx context.Context, req Request) (*Decoded, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, "/backtest", body)
	if err != nil {
		return nil, err
	}

	decoded, err := DecodeResponse(data)
	if err != nil {
		return nil, err
	}
	if !decoded.Success {
		return nil, core.WrapError(core.ErrEngineFailed, errors.New(decoded.Error))
	}
	if decoded.Result == nil {
		return nil, core.WrapError(core.ErrNoData, nil)
	}
	if len(decoded.Dropped) > 0 {
		c.logger.Warn("engine result has malformed fields",
			zap.String("symbol", req.Symbol),
			zap.Strings("dropped", decoded.Dropped),
		)
	}

	return decoded, nil
}

// Strategies returns the engine's strategy catalog untouched
func (c *Client) Strategies(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/strategies", nil)
}

// SearchStocks forwards a symbol search to the engine
func (c *Client) SearchStocks(ctx context.Context, keyword string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("keyword", keyword)
	return c.do(ctx, http.MethodGet, "/stocks/search?"+q.Encode(), nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := metrics.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, core.WrapError(core.ErrEngineTimeout, err)
		}
		return nil, core.WrapError(core.ErrEngineFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, core.WrapError(core.ErrEngineFailed, fmt.Errorf("reading response: %w", err))
	}

	c.logger.Debug("engine request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrEngineFailed,
			fmt.Errorf("engine returned status %d: %s", resp.StatusCode, truncate(data, 256)))
	}

	return data, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
