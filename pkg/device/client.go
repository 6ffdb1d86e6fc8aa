package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"votehub.xyz/votecollector-service/pkg/common"
)

// Result is the device-side running tally of a yes/no/abstain voting.
type Result struct {
	Yes      int `json:"yes"`
	No       int `json:"no"`
	Abstain  int `json:"abstain"`
	NotVoted int `json:"not_voted"`
}

// Client is the wire protocol to the collector hardware. Pure
// request/response; callers decide about retries.
type Client interface {
	DeviceStatus(ctx context.Context) (string, error)
	PrepareVoting(ctx context.Context, mode string, callbackURL string, keypadIDs []int) (int, error)
	StartVoting(ctx context.Context) (int, error)
	StopVoting(ctx context.Context) error
	VotingStatus(ctx context.Context) (elapsedSeconds int, votesReceived int, err error)
	VotingResult(ctx context.Context) (Result, error)
}

// HTTPClient talks JSON over HTTP to the collector's base URL.
type HTTPClient struct {
	BaseURL string
	HTTP    *http.Client
}

const defaultTimeout = 5 * time.Second

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: defaultTimeout},
	}
}

func (c *HTTPClient) endpoint(name string) (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: base url %q", ErrConfiguration, c.BaseURL)
	}
	return u.JoinPath(name).String(), nil
}

func (c *HTTPClient) call(ctx context.Context, method, name string, body any, out any) error {
	endpoint, err := c.endpoint(name)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", name, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d", ErrConnection, name, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", ErrConnection, name, err)
	}
	return nil
}

// ensureReachable is the lightweight connectivity pre-check run before any
// stateful command, so a dead device fails fast instead of mid-transition.
func (c *HTTPClient) ensureReachable(ctx context.Context) error {
	_, err := c.DeviceStatus(ctx)
	return err
}

func (c *HTTPClient) DeviceStatus(ctx context.Context) (string, error) {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.call(ctx, http.MethodGet, "getDeviceStatus", nil, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

type prepareVotingRequest struct {
	Mode        string `json:"mode"`
	CallbackURL string `json:"callback_url"`
	KeypadIDs   []int  `json:"keypad_ids"`
}

type countResponse struct {
	Count int `json:"count"`
}

func (c *HTTPClient) PrepareVoting(ctx context.Context, mode string, callbackURL string, keypadIDs []int) (int, error) {
	if err := c.ensureReachable(ctx); err != nil {
		return 0, err
	}

	logger := common.GetLoggerWith(common.LoggerNameDeviceClient)
	logger.Info("Preparing voting on device",
		zap.String("mode", mode),
		zap.Int("keypads", len(keypadIDs)))

	var out countResponse
	req := prepareVotingRequest{Mode: mode, CallbackURL: callbackURL, KeypadIDs: keypadIDs}
	if err := c.call(ctx, http.MethodPost, "prepareVoting", req, &out); err != nil {
		return 0, err
	}
	if err := AsProtocolError(out.Count); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *HTTPClient) StartVoting(ctx context.Context) (int, error) {
	if err := c.ensureReachable(ctx); err != nil {
		return 0, err
	}

	var out countResponse
	if err := c.call(ctx, http.MethodPost, "startVoting", nil, &out); err != nil {
		return 0, err
	}
	if err := AsProtocolError(out.Count); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *HTTPClient) StopVoting(ctx context.Context) error {
	if err := c.ensureReachable(ctx); err != nil {
		return err
	}
	return c.call(ctx, http.MethodPost, "stopVoting", nil, nil)
}

func (c *HTTPClient) VotingStatus(ctx context.Context) (int, int, error) {
	var out struct {
		Elapsed int `json:"elapsed"`
		Votes   int `json:"votes"`
	}
	if err := c.call(ctx, http.MethodGet, "getVotingStatus", nil, &out); err != nil {
		return 0, 0, err
	}
	return out.Elapsed, out.Votes, nil
}

func (c *HTTPClient) VotingResult(ctx context.Context) (Result, error) {
	var out Result
	if err := c.call(ctx, http.MethodGet, "getVotingResult", nil, &out); err != nil {
		return Result{}, err
	}
	return out, nil
}
