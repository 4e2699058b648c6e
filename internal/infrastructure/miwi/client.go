package miwi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"watchfleet/internal/shared/config"
	"watchfleet/internal/shared/logger"
)

// offlineCode is the vendor status for a command sent to a powered-off or
// unreachable device.
const offlineCode = 1800

// TokenProvider supplies a valid access token for outgoing requests.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// Client talks to the tracker platform's HTTP API. All endpoints are POST
// with JSON bodies; responses come in two envelope shapes (Code-keyed and
// State-keyed) which the client normalizes into errors from this package.
type Client struct {
	cfg        config.VendorConfig
	httpClient *http.Client
	tokens     TokenProvider
	logger     logger.Interface
}

// NewClient creates a vendor API client. Per-request timeouts are applied
// via context, so the underlying http.Client carries none.
func NewClient(cfg config.VendorConfig, tokens TokenProvider, log logger.Interface) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
		tokens:     tokens,
		logger:     log.Named("miwi-client"),
	}
}

// codeEnvelope is the response wrapper used by the token, device list and
// command endpoints. Code 0 means success.
type codeEnvelope struct {
	Code    int             `json:"Code"`
	Message string          `json:"Message"`
	Result  json.RawMessage `json:"Result"`
}

// stateEnvelope is the wrapper used by the group management endpoints.
// State 0 means success.
type stateEnvelope struct {
	State   int             `json:"State"`
	Message string          `json:"Message"`
	Result  json.RawMessage `json:"Result"`
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Op: path, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIEndpoint+path, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Op: path, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var raw bytes.Buffer
	if _, err := raw.ReadFrom(resp.Body); err != nil {
		return nil, &TransportError{Op: path, Err: fmt.Errorf("read response: %w", err)}
	}
	return raw.Bytes(), nil
}

// postCode sends a request to a Code-enveloped endpoint and returns the raw
// Result on success.
func (c *Client) postCode(ctx context.Context, path string, payload interface{}, timeout time.Duration) (json.RawMessage, error) {
	raw, err := c.post(ctx, path, payload, timeout)
	if err != nil {
		return nil, err
	}

	var envelope codeEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &TransportError{Op: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	switch envelope.Code {
	case 0:
		return envelope.Result, nil
	case offlineCode:
		return nil, ErrDeviceOffline
	default:
		return nil, &RequestError{Code: envelope.Code, Message: envelope.Message}
	}
}

// postState sends a request to a State-enveloped endpoint and returns the
// raw Result on success.
func (c *Client) postState(ctx context.Context, path string, payload interface{}, timeout time.Duration) (json.RawMessage, error) {
	raw, err := c.post(ctx, path, payload, timeout)
	if err != nil {
		return nil, err
	}

	var envelope stateEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &TransportError{Op: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	if envelope.State != 0 {
		return nil, &RequestError{Code: envelope.State, Message: envelope.Message}
	}
	return envelope.Result, nil
}

func (c *Client) commandTimeout() time.Duration {
	return time.Duration(c.cfg.CommandTimeout) * time.Second
}

func (c *Client) listTimeout() time.Duration {
	return time.Duration(c.cfg.ListTimeout) * time.Second
}

type commandRequest struct {
	IMEI         string `json:"Imei"`
	CommandCode  string `json:"CommandCode"`
	CommandValue string `json:"CommandValue"`
	Time         int64  `json:"Time"`
}

// SendCommand issues a single device command. A zero timeout falls back to
// the configured default. Returns ErrDeviceOffline when the device cannot
// be reached.
func (c *Client) SendCommand(ctx context.Context, imei, code, value string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = c.commandTimeout()
	}

	payload := commandRequest{
		IMEI:         imei,
		CommandCode:  code,
		CommandValue: value,
		Time:         time.Now().UnixMilli(),
	}

	c.logger.Debugw("sending device command", "imei", imei, "code", code)
	_, err := c.postCode(ctx, "/api/command/sendcommand", payload, timeout)
	return err
}
