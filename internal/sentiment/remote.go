package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	MAX_RETRIES     = 3
	INITIAL_BACKOFF = 250 * time.Millisecond
	USER_AGENT      = "reviewsentiment-client/1.0 (+https://github.com/spacesedan/reviewsentiment)"
)

type remoteScoreRequest struct {
	Text string `json:"text"`
}

type remoteScoreResponse struct {
	Score *float64 `json:"score"`
}

// RemoteScorer delegates scoring to an external sentiment service that
// accepts {"text": ...} and answers {"score": <float>}.
type RemoteScorer struct {
	Client         *http.Client
	endpoint       string
	maxRetries     int
	initialBackoff time.Duration
}

type RemoteOption func(*RemoteScorer)

func WithRetries(maxRetries int, initialBackoff time.Duration) RemoteOption {
	return func(r *RemoteScorer) {
		r.maxRetries = maxRetries
		r.initialBackoff = initialBackoff
	}
}

func WithHTTPClient(client *http.Client) RemoteOption {
	return func(r *RemoteScorer) {
		r.Client = client
	}
}

func NewRemoteScorer(endpoint string, timeout time.Duration, opts ...RemoteOption) *RemoteScorer {
	r := &RemoteScorer{
		Client:         &http.Client{Timeout: timeout},
		endpoint:       endpoint,
		maxRetries:     MAX_RETRIES,
		initialBackoff: INITIAL_BACKOFF,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.maxRetries < 1 {
		r.maxRetries = 1
	}

	slog.Info("[RemoteScorer] Initializing Client",
		slog.String("endpoint", endpoint),
		slog.Duration("timeout", timeout))
	return r
}

func (r *RemoteScorer) Polarity(ctx context.Context, text string) (float64, error) {
	start := time.Now()

	body, err := json.Marshal(remoteScoreRequest{Text: text})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal input: %w", err)
	}

	resp, err := r.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", USER_AGENT)
		return req, nil
	})
	if err != nil {
		slog.Error("[RemoteScorer] Failed request after retries",
			slog.String("endpoint", r.endpoint),
			slog.String("error", err.Error()))
		return 0, fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("[RemoteScorer] Unexpected status",
			slog.Int("status", resp.StatusCode),
			getPreview(respBody))
		return 0, fmt.Errorf("sentiment service returned status %d", resp.StatusCode)
	}

	var out remoteScoreResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		slog.Error("[RemoteScorer] Failed to unmarshal response",
			slog.String("error", err.Error()),
			getPreview(respBody))
		return 0, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if out.Score == nil {
		return 0, fmt.Errorf("sentiment service response has no score")
	}

	slog.Debug("[RemoteScorer] Scoring request successful",
		slog.Duration("elapsed", time.Since(start)))

	return *out.Score, nil
}

// Ping reports whether the service answers below 500. It backs the
// readiness check.
func (r *RemoteScorer) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("sentiment service unreachable: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 500 {
		return fmt.Errorf("sentiment service unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func (r *RemoteScorer) doWithRetry(ctx context.Context, newRequest func() (*http.Request, error)) (*http.Response, error) {
	var resp *http.Response
	var err error
	backoff := r.initialBackoff

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		var req *http.Request
		req, err = newRequest()
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}

		resp, err = r.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		slog.Warn("[RemoteScorer] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", errMsg(err, resp)))

		if resp != nil {
			resp.Body.Close()
		}
		if err == nil {
			err = fmt.Errorf("status code %d", resp.StatusCode)
		}
		resp = nil

		if attempt == r.maxRetries-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, err
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
