package rewardservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/SpinWheel_Go/internal/domain"
	"github.com/osse101/SpinWheel_Go/internal/logger"
)

// Client talks to the authority over its HTTP API
type Client struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

var _ Service = (*Client)(nil)

// NewClient creates a new authority client. A zero timeout uses DefaultTimeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: timeout},
	}
}

// do performs one request and decodes a 2xx body into out
func (c *Client) do(ctx context.Context, method, path, userID string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(HeaderContentType, ContentTypeJSON)
	if c.APIKey != "" {
		req.Header.Set(HeaderAPIKey, c.APIKey)
	}
	if userID != "" {
		req.Header.Set(HeaderUserID, userID)
	}

	log := logger.FromContext(ctx)
	resp, err := c.Client.Do(req)
	if err != nil {
		log.Warn(LogMsgRequestFailed, "method", method, "path", path, "error", err)
		return transportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp ErrorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&errResp)
		log.Debug(LogMsgErrorResponse, "method", method, "path", path, "status", resp.StatusCode, "code", errResp.Code)
		return errorFromResponse(resp.StatusCode, errResp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", domain.ErrServiceUnavailable, err)
	}
	return nil
}

// GetConfig fetches the stored wheel configuration
func (c *Client) GetConfig(ctx context.Context) (domain.Config, error) {
	var cfg domain.Config
	if err := c.do(ctx, http.MethodGet, PathConfig, "", nil, &cfg); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// UpdateConfig replaces the stored configuration and returns it with its validation report
func (c *Client) UpdateConfig(ctx context.Context, cfg domain.Config) (domain.UpdateConfigResult, error) {
	var res domain.UpdateConfigResult
	if err := c.do(ctx, http.MethodPut, PathConfig, "", cfg, &res); err != nil {
		return domain.UpdateConfigResult{}, err
	}
	return res, nil
}

// ValidateConfig validates the stored configuration
func (c *Client) ValidateConfig(ctx context.Context) (domain.ValidationResult, error) {
	var res domain.ValidationResult
	if err := c.do(ctx, http.MethodPost, PathConfigValidate, "", nil, &res); err != nil {
		return domain.ValidationResult{}, err
	}
	return res, nil
}

// GetSpinState fetches the user's eligibility summary
func (c *Client) GetSpinState(ctx context.Context, userID string) (domain.SpinStateView, error) {
	var view domain.SpinStateView
	if err := c.do(ctx, http.MethodGet, PathState, userID, nil, &view); err != nil {
		return domain.SpinStateView{}, err
	}
	return view, nil
}

// RequestSpin asks the authority for an outcome
func (c *Client) RequestSpin(ctx context.Context, userID string, spinCtx domain.SpinContext) (domain.SpinResponse, error) {
	var res domain.SpinResponse
	if err := c.do(ctx, http.MethodPost, PathSpin, userID, spinCtx, &res); err != nil {
		return domain.SpinResponse{}, err
	}
	return res, nil
}

// ClaimSpin finalizes an outcome
func (c *Client) ClaimSpin(ctx context.Context, userID, spinID string) (domain.ClaimAck, error) {
	if spinID == "" {
		return domain.ClaimAck{}, domain.ErrNotClaimable
	}
	var ack domain.ClaimAck
	path := fmt.Sprintf(PathClaimFmt, url.PathEscape(spinID))
	if err := c.do(ctx, http.MethodPost, path, userID, nil, &ack); err != nil {
		return domain.ClaimAck{}, err
	}
	return ack, nil
}

// RecordSpend reports spend toward the threshold trigger
func (c *Client) RecordSpend(ctx context.Context, userID string, amount decimal.Decimal) (domain.SpendResult, error) {
	var res domain.SpendResult
	if err := c.do(ctx, http.MethodPost, PathSpend, userID, domain.SpendRequest{Amount: amount}, &res); err != nil {
		return domain.SpendResult{}, err
	}
	return res, nil
}

// GetWallet fetches the user's balances
func (c *Client) GetWallet(ctx context.Context, userID string) (domain.Balances, error) {
	var b domain.Balances
	if err := c.do(ctx, http.MethodGet, PathWallet, userID, nil, &b); err != nil {
		return domain.Balances{}, err
	}
	return b, nil
}
