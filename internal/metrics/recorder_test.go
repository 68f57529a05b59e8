package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/linkverify-server/internal/model"
)

func TestRecorder_ObserveOutcome(t *testing.T) {
	r := NewRecorder()

	r.ObserveOutcome(model.OutcomeConfirmed)
	r.ObserveOutcome(model.OutcomeConfirmed)
	r.ObserveOutcome(model.OutcomeAlreadyUsed)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.outcomes.WithLabelValues(string(model.OutcomeConfirmed))))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.outcomes.WithLabelValues(string(model.OutcomeAlreadyUsed))))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.outcomes.WithLabelValues(string(model.OutcomeRedirected))))
}

func TestRecorder_ObserveShorten(t *testing.T) {
	r := NewRecorder()

	r.ObserveShorten(120*time.Millisecond, nil)
	r.ObserveShorten(15*time.Second, errors.New("timeout"))

	assert.Equal(t, 2, testutil.CollectAndCount(r.shorten))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.ObserveOutcome(model.OutcomeRedirected)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `linkverify_verification_requests_total{outcome="redirected"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
