package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nvkalinin/bangla-calendar/bangla"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const metricsNamespace = "bangla_calendar"

type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics(cache *bangla.Cache) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.registerCache(cache)

	return m
}

func (m *metrics) registerCache(cache *bangla.Cache) {
	counter := func(name, help string, val func(bangla.CacheStats) uint64) prometheus.Collector {
		return prometheus.NewCounterFunc(
			prometheus.CounterOpts{Namespace: metricsNamespace, Subsystem: "cache", Name: name, Help: help},
			func() float64 { return float64(val(cache.Stats())) },
		)
	}
	gauge := func(name, help string, val func(bangla.CacheStats) int) prometheus.Collector {
		return prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Namespace: metricsNamespace, Subsystem: "cache", Name: name, Help: help},
			func() float64 { return float64(val(cache.Stats())) },
		)
	}

	m.registry.MustRegister(
		counter("date_hits_total", "Bangla date cache hits", func(s bangla.CacheStats) uint64 { return s.DateHits }),
		counter("date_misses_total", "Bangla date cache misses", func(s bangla.CacheStats) uint64 { return s.DateMisses }),
		counter("grid_hits_total", "Month grid cache hits", func(s bangla.CacheStats) uint64 { return s.GridHits }),
		counter("grid_misses_total", "Month grid cache misses", func(s bangla.CacheStats) uint64 { return s.GridMisses }),
		gauge("dates", "Bangla dates currently cached", func(s bangla.CacheStats) int { return s.Dates }),
		gauge("grids", "Month grids currently cached", func(s bangla.CacheStats) int { return s.Grids }),
	)
}

func (m *metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		// Шаблон маршрута вместо пути, чтобы не плодить метки на каждую дату.
		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requests.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
