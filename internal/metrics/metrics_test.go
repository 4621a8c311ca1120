package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twofa/internal/services"
)

func TestKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{fmt.Errorf("%w: boom", services.ErrPrivateKey), "private_key"},
		{services.ErrCiphertextEncoding, "ciphertext_encoding"},
		{fmt.Errorf("%w: x", services.ErrDecryption), "decryption"},
		{services.ErrSeedEncoding, "seed_encoding"},
		{services.ErrInvalidSeed, "invalid_seed"},
		{services.ErrSeedStorage, "storage"},
		{services.ErrSeedNotReady, "not_ready"},
		{services.ErrSeedCorrupt, "corrupt_seed"},
		{services.ErrMissingCode, "missing_code"},
		{errors.New("other"), "internal"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Kind(tt.err))
	}
}

func TestMetrics_Counters(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveDecrypt(nil)
	m.ObserveDecrypt(services.ErrDecryption)
	m.ObserveGenerate(services.ErrSeedNotReady)
	m.ObserveVerify(true, nil)
	m.ObserveVerify(false, nil)
	m.ObserveVerify(false, nil)
	m.ObserveRequest(http.MethodGet, "/generate-2fa", http.StatusOK, 3*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.decrypts.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decrypts.WithLabelValues("decryption")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generations.WithLabelValues("not_ready")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifications.WithLabelValues("valid")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.verifications.WithLabelValues("invalid")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "twofa_seed_decrypt_total")
	assert.Contains(t, rec.Body.String(), `twofa_http_requests_total{method="GET",route="/generate-2fa",status="200"} 1`)
}

func TestMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveDecrypt(nil)
		m.ObserveGenerate(nil)
		m.ObserveVerify(true, nil)
		m.ObserveRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	})
	assert.Nil(t, m.Registry())
}
