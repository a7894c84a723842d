package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"liwamenu-be/internal/logger"
	"liwamenu-be/internal/metrics"

	"go.uber.org/zap"
)

const DefaultTimeout = 15 * time.Second

// maxErrorBody bounds how much of a failed response ends up in logs.
const maxErrorBody = 2048

// Observer receives one sample per call.
type Observer interface {
	ObserveUpstream(target, outcome string, d time.Duration)
}

// Client posts JSON to one external endpoint (order, reservation, waiter
// notification).
type Client struct {
	target     string
	url        string
	httpClient *http.Client
	observer   Observer
}

// New returns a client for url. target names the endpoint in logs and
// metrics. observer may be nil.
func New(target, url string, timeout time.Duration, observer Observer) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if url == "" {
		logger.L().Warn("upstream endpoint is empty", zap.String("target", target))
	}
	return &Client{
		target:     target,
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		observer:   observer,
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.url != ""
}

func (c *Client) Target() string {
	return c.target
}

// PostJSON sends body and decodes a 2xx response into out. out may be nil
// when the response body is not needed.
func (c *Client) PostJSON(ctx context.Context, body, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "upstream"),
		zap.String("target", c.target),
	)

	timer := metrics.StartTimer()
	outcome := "error"
	defer func() {
		if c.observer != nil {
			c.observer.ObserveUpstream(c.target, outcome, timer.Duration())
		}
	}()

	jsonBody, err := json.Marshal(body)
	if err != nil {
		log.Error("failed to marshal request", zap.Error(err))
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(jsonBody))
	if err != nil {
		log.Error("failed creating request", zap.Error(err))
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if reqID := logger.RequestIDFrom(ctx); reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}

	log.Debug("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("request failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed to read response body", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(bodyBytes) > maxErrorBody {
			bodyBytes = bodyBytes[:maxErrorBody]
		}
		log.Error("non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return &StatusError{Target: c.target, StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	if out != nil && len(bytes.TrimSpace(bodyBytes)) > 0 {
		if err := json.Unmarshal(bodyBytes, out); err != nil {
			log.Error("failed decoding response", zap.Error(err))
			return fmt.Errorf("%w: %v", ErrDecodeResponse, err)
		}
	}

	outcome = "ok"
	log.Info("request succeeded", zap.Int("status", resp.StatusCode))
	return nil
}
