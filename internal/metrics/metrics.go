// Package metrics keeps in-process request counters for the health endpoint.
package metrics

import (
	"net/http"
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// HTTP counts requests by outcome and accumulates their latency.
type HTTP struct {
	started time.Time

	Requests     Counter
	ClientErrors Counter
	ServerErrors Counter
	RateLimited  Counter
	latencyMicro Counter
}

func NewHTTP() *HTTP {
	return &HTTP{started: time.Now()}
}

// Observe records one finished request.
func (m *HTTP) Observe(status int, took time.Duration) {
	m.Requests.Inc()
	m.latencyMicro.Add(uint64(took.Microseconds()))
	switch {
	case status == http.StatusTooManyRequests:
		m.RateLimited.Inc()
		m.ClientErrors.Inc()
	case status >= 500:
		m.ServerErrors.Inc()
	case status >= 400:
		m.ClientErrors.Inc()
	}
}

type Snapshot struct {
	Uptime       string  `json:"uptime"`
	Requests     uint64  `json:"requests"`
	ClientErrors uint64  `json:"clientErrors"`
	ServerErrors uint64  `json:"serverErrors"`
	RateLimited  uint64  `json:"rateLimited"`
	AvgLatencyMS float64 `json:"avgLatencyMs"`
}

func (m *HTTP) Snapshot() Snapshot {
	s := Snapshot{
		Uptime:       time.Since(m.started).Round(time.Second).String(),
		Requests:     m.Requests.Load(),
		ClientErrors: m.ClientErrors.Load(),
		ServerErrors: m.ServerErrors.Load(),
		RateLimited:  m.RateLimited.Load(),
	}
	if s.Requests > 0 {
		s.AvgLatencyMS = float64(m.latencyMicro.Load()) / float64(s.Requests) / 1000
	}
	return s
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware observes every request that passes through next.
func (m *HTTP) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := StartTimer()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		m.Observe(sw.status, t.Duration())
	})
}
