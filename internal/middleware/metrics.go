package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// MetricsConfig metrics ayarları
type MetricsConfig struct {
	SlowRequestThreshold time.Duration
	MaxStoredResponse    int // route başına saklanan süre sayısı
}

// DefaultMetricsConfig varsayılan metrics ayarları
func DefaultMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		SlowRequestThreshold: 2 * time.Second,
		MaxStoredResponse:    200,
	}
}

// Metrics süreç içi istek sayaçları. Route'lar mux şablonuyla gruplanır (/deposits/{id}).
type Metrics struct {
	config *MetricsConfig

	mu               sync.Mutex
	totalRequests    int64
	activeRequests   int64
	slowRequests     int64
	statusCodeCounts map[int]int64
	routeTimes       map[string][]time.Duration
	started          time.Time
}

// MetricsSnapshot /metrics yanıtı
type MetricsSnapshot struct {
	TotalRequests    int64                       `json:"total_requests"`
	ActiveRequests   int64                       `json:"active_requests"`
	SlowRequests     int64                       `json:"slow_requests"`
	StatusCodeCounts map[int]int64               `json:"status_code_counts"`
	Routes           map[string]ResponseTimeStat `json:"routes"`
	MemoryAllocBytes uint64                      `json:"memory_alloc_bytes"`
	Goroutines       int                         `json:"goroutines"`
	Uptime           string                      `json:"uptime"`
}

// ResponseTimeStat route başına süre özeti (milisaniye)
type ResponseTimeStat struct {
	Count int     `json:"count"`
	AvgMs float64 `json:"avg_ms"`
	MaxMs float64 `json:"max_ms"`
	P95Ms float64 `json:"p95_ms"`
}

type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (mrw *metricsResponseWriter) WriteHeader(code int) {
	mrw.statusCode = code
	mrw.ResponseWriter.WriteHeader(code)
}

// NewMetrics yeni metrics toplayıcı
func NewMetrics(config *MetricsConfig) *Metrics {
	if config == nil {
		config = DefaultMetricsConfig()
	}
	return &Metrics{
		config:           config,
		statusCodeCounts: make(map[int]int64),
		routeTimes:       make(map[string][]time.Duration),
		started:          time.Now(),
	}
}

// Middleware istek sayılarını ve sürelerini toplar
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.mu.Lock()
		m.totalRequests++
		m.activeRequests++
		m.mu.Unlock()

		wrapped := &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		defer func() {
			m.record(r, wrapped.statusCode, time.Since(start))
		}()

		next.ServeHTTP(wrapped, r)
	})
}

func (m *Metrics) record(r *http.Request, statusCode int, elapsed time.Duration) {
	route := r.URL.Path
	if current := mux.CurrentRoute(r); current != nil {
		if tmpl, err := current.GetPathTemplate(); err == nil {
			route = tmpl
		}
	}
	key := r.Method + " " + route

	m.mu.Lock()
	defer m.mu.Unlock()

	m.activeRequests--
	m.statusCodeCounts[statusCode]++

	times := append(m.routeTimes[key], elapsed)
	if len(times) > m.config.MaxStoredResponse {
		times = times[len(times)-m.config.MaxStoredResponse:]
	}
	m.routeTimes[key] = times

	if elapsed > m.config.SlowRequestThreshold {
		m.slowRequests++
		log.Warn().Str("route", key).Dur("response_time", elapsed).Msg("🐢 Yavaş istek")
	}
}

// Snapshot anlık metrikleri döner
func (m *Metrics) Snapshot() *MetricsSnapshot {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	m.mu.Lock()
	defer m.mu.Unlock()

	routes := make(map[string]ResponseTimeStat, len(m.routeTimes))
	for key, times := range m.routeTimes {
		if len(times) == 0 {
			continue
		}
		routes[key] = summarize(times)
	}

	counts := make(map[int]int64, len(m.statusCodeCounts))
	for code, n := range m.statusCodeCounts {
		counts[code] = n
	}

	return &MetricsSnapshot{
		TotalRequests:    m.totalRequests,
		ActiveRequests:   m.activeRequests,
		SlowRequests:     m.slowRequests,
		StatusCodeCounts: counts,
		Routes:           routes,
		MemoryAllocBytes: mem.Alloc,
		Goroutines:       runtime.NumGoroutine(),
		Uptime:           time.Since(m.started).Round(time.Second).String(),
	}
}

// Handler metrikleri JSON olarak yazar
func (m *Metrics) Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(m.Snapshot()); err != nil {
		log.Error().Err(err).Msg("Metrics encode edilemedi")
	}
}

func summarize(times []time.Duration) ResponseTimeStat {
	sorted := slices.Clone(times)
	slices.Sort(sorted)

	var total time.Duration
	for _, t := range sorted {
		total += t
	}

	idx := int(float64(len(sorted))*0.95+0.5) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}

	ms := func(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
	return ResponseTimeStat{
		Count: len(sorted),
		AvgMs: ms(total / time.Duration(len(sorted))),
		MaxMs: ms(sorted[len(sorted)-1]),
		P95Ms: ms(sorted[idx]),
	}
}
