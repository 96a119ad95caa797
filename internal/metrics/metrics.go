package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const prefix = "estatehub"

// Metrics - набор коллекторов сервиса
type Metrics struct {
	registry prometheus.Gatherer

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	BidsSubmitted        *prometheus.CounterVec
	NotificationFailures prometheus.Counter
	FavoriteToggles      *prometheus.CounterVec
}

// New регистрирует коллекторы в отдельном реестре
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		BidsSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_bids_submitted_total",
				Help: "Total number of accepted bid submissions",
			},
			[]string{"kind"},
		),
		NotificationFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_notification_failures_total",
				Help: "Total number of notifications that could not be written",
			},
		),
		FavoriteToggles: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_favorite_toggles_total",
				Help: "Total number of favorite toggles",
			},
			[]string{"result"},
		),
	}
}

// RecordBid считает принятое предложение: created или updated
func (m *Metrics) RecordBid(updated bool) {
	if m == nil {
		return
	}
	kind := "created"
	if updated {
		kind = "updated"
	}
	m.BidsSubmitted.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordNotificationFailure() {
	if m == nil {
		return
	}
	m.NotificationFailures.Inc()
}

func (m *Metrics) RecordFavoriteToggle(liked bool) {
	if m == nil {
		return
	}
	result := "removed"
	if liked {
		result = "added"
	}
	m.FavoriteToggles.WithLabelValues(result).Inc()
}

// Handler отдает метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware считает запросы по шаблону маршрута chi, а не по сырому пути
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		code := strconv.Itoa(status)

		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, code).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path, code).Observe(time.Since(start).Seconds())
	})
}
