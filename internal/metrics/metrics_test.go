package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewCollector()
	b := NewCollector()

	a.Analyses.WithLabelValues("ok").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Analyses.WithLabelValues("ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Analyses.WithLabelValues("ok")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector()
	c.Searches.WithLabelValues("found").Inc()
	c.PersistenceFailures.Inc()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `wordlens_searches_total{outcome="found"} 1`)
	assert.Contains(t, string(body), "wordlens_persistence_failures_total 1")
}
