package sentiment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRemoteScorer(t *testing.T, handler http.HandlerFunc) (*RemoteScorer, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRemoteScorer(srv.URL, time.Second, WithRetries(3, time.Millisecond)), srv
}

func TestRemoteScorer_Polarity(t *testing.T) {
	var got remoteScoreRequest
	scorer, _ := newTestRemoteScorer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, USER_AGENT, r.Header.Get("User-Agent"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"score": -0.4215}`))
	})

	score, err := scorer.Polarity(context.Background(), "not great")

	require.NoError(t, err)
	assert.Equal(t, -0.4215, score)
	assert.Equal(t, "not great", got.Text)
}

func TestRemoteScorer_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	scorer, _ := newTestRemoteScorer(t, func(w http.ResponseWriter, r *http.Request) {
		var req remoteScoreRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "retry me", req.Text, "body is resent on every attempt")

		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"score": 0.25}`))
	})

	score, err := scorer.Polarity(context.Background(), "retry me")

	require.NoError(t, err)
	assert.Equal(t, 0.25, score)
	assert.Equal(t, int32(3), calls.Load())
}

func TestRemoteScorer_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	scorer, _ := newTestRemoteScorer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := scorer.Polarity(context.Background(), "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed after retries")
	assert.Equal(t, int32(3), calls.Load())
}

func TestRemoteScorer_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	scorer, _ := newTestRemoteScorer(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := scorer.Polarity(context.Background(), "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Equal(t, int32(1), calls.Load())
}

func TestRemoteScorer_BadResponses(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "not json", body: `<html>oops</html>`, wantErr: "failed to unmarshal response"},
		{name: "missing score", body: `{"label": "positive"}`, wantErr: "no score"},
		{name: "wrong type", body: `{"score": "high"}`, wantErr: "failed to unmarshal response"},
		{name: "nan literal", body: `{"score": NaN}`, wantErr: "failed to unmarshal response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer, _ := newTestRemoteScorer(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := scorer.Polarity(context.Background(), "text")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRemoteScorer_ZeroScoreIsValid(t *testing.T) {
	scorer, _ := newTestRemoteScorer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"score": 0}`))
	})

	score, err := scorer.Polarity(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestRemoteScorer_ContextCanceledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	scorer := NewRemoteScorer(srv.URL, time.Second, WithRetries(5, time.Hour))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := scorer.Polarity(ctx, "text")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRemoteScorer_Ping(t *testing.T) {
	healthy, _ := newTestRemoteScorer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
	assert.NoError(t, healthy.Ping(context.Background()))

	unhealthy, _ := newTestRemoteScorer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	err := unhealthy.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	down := NewRemoteScorer(url, time.Second)
	err = down.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
}

func TestScorerFunc(t *testing.T) {
	var s Scorer = ScorerFunc(func(_ context.Context, text string) (float64, error) {
		return float64(len(text)), nil
	})

	score, err := s.Polarity(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, 3.0, score)
}
