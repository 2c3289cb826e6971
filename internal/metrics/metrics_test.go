package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	m := &dto.Metric{}
	if err := cv.WithLabelValues(labels...).Write(m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func TestRecordCache(t *testing.T) {
	before := getCounterValue(CacheRequestsTotal, "test-cache", ResultHit)

	RecordCache("test-cache", ResultHit)
	RecordCache("test-cache", ResultHit)
	RecordCache("test-cache", ResultMiss)

	assert.Equal(t, before+2, getCounterValue(CacheRequestsTotal, "test-cache", ResultHit))
	assert.GreaterOrEqual(t, getCounterValue(CacheRequestsTotal, "test-cache", ResultMiss), 1.0)
}

func TestRecordLogin(t *testing.T) {
	before := getCounterValue(LoginsTotal, LoginFailure)
	RecordLogin(LoginFailure)
	assert.Equal(t, before+1, getCounterValue(LoginsTotal, LoginFailure))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	RecordLogin(LoginSuccess)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "gophauth_logins_total")
}
