package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"twofa/internal/services"
)

const namespace = "twofa"

// Metrics держит собственный registry, чтобы тесты могли создавать
// сколько угодно экземпляров без конфликтов регистрации.
// Все методы безопасны для nil-получателя.
type Metrics struct {
	registry *prometheus.Registry

	decrypts      *prometheus.CounterVec
	generations   *prometheus.CounterVec
	verifications *prometheus.CounterVec
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		decrypts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seed_decrypt_total",
			Help:      "Seed decrypt attempts by result kind.",
		}, []string{"result"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "codes_generated_total",
			Help:      "TOTP generation requests by result kind.",
		}, []string{"result"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "code_verifications_total",
			Help:      "TOTP verification requests by outcome.",
		}, []string{"result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		m.decrypts, m.generations, m.verifications, m.requests, m.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveDecrypt(err error) {
	if m == nil {
		return
	}
	m.decrypts.WithLabelValues(Kind(err)).Inc()
}

func (m *Metrics) ObserveGenerate(err error) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(Kind(err)).Inc()
}

func (m *Metrics) ObserveVerify(valid bool, err error) {
	if m == nil {
		return
	}
	result := "invalid"
	switch {
	case err != nil:
		result = Kind(err)
	case valid:
		result = "valid"
	}
	m.verifications.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Kind: короткое имя вида ошибки для меток и логов.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, services.ErrPrivateKey):
		return "private_key"
	case errors.Is(err, services.ErrCiphertextEncoding):
		return "ciphertext_encoding"
	case errors.Is(err, services.ErrDecryption):
		return "decryption"
	case errors.Is(err, services.ErrSeedEncoding):
		return "seed_encoding"
	case errors.Is(err, services.ErrInvalidSeed):
		return "invalid_seed"
	case errors.Is(err, services.ErrSeedStorage):
		return "storage"
	case errors.Is(err, services.ErrSeedNotReady):
		return "not_ready"
	case errors.Is(err, services.ErrSeedCorrupt):
		return "corrupt_seed"
	case errors.Is(err, services.ErrMissingCode):
		return "missing_code"
	default:
		return "internal"
	}
}
