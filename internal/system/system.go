// Package system builds the system status page: headline metrics and a
// short activity log.
package system

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"farmer-market-web/internal/apiclient"
	"farmer-market-web/internal/logger"

	"go.uber.org/zap"
)

// SampleLogs are the activity lines the page draws from.
var SampleLogs = []string{
	"Farmer John registered a new crop listing.",
	"Buyer Jane placed an order for 20kg tomatoes.",
	"System backup completed successfully.",
	"New buyer account created: Mike.",
	"Order #1234 marked as delivered.",
	"Farmer Alice updated her crop prices.",
	"Buyer Sam canceled an order.",
	"Logistics team dispatched a delivery van.",
	"Admin reviewed system performance metrics.",
}

const LogLines = 5

type MetricsSource interface {
	SystemMetrics(ctx context.Context) (*apiclient.Metrics, error)
}

type Snapshot struct {
	Metrics apiclient.Metrics `json:"metrics"`
	Logs    []string          `json:"logs"`
	// Simulated is true when the metrics were generated locally.
	Simulated bool `json:"simulated"`
}

// Service is safe for concurrent use. rnd is only touched under mu.
type Service struct {
	src MetricsSource

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewService reads metrics from src. A nil src always simulates.
func NewService(src MetricsSource, rnd *rand.Rand) *Service {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Service{src: src, rnd: rnd}
}

func (s *Service) Snapshot(ctx context.Context) Snapshot {
	snap := Snapshot{Logs: s.logs()}

	if s.src != nil {
		m, err := s.src.SystemMetrics(ctx)
		if err == nil {
			snap.Metrics = *m
			return snap
		}
		logger.FromCtx(ctx).Info("system metrics unavailable, using simulated values", zap.Error(err))
	}

	snap.Metrics = s.mockMetrics()
	snap.Simulated = true
	return snap
}

func (s *Service) mockMetrics() apiclient.Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return apiclient.Metrics{
		TotalUsers:    s.rnd.IntN(1000) + 500,
		ActiveFarmers: s.rnd.IntN(300) + 100,
		ActiveBuyers:  s.rnd.IntN(300) + 100,
		OrdersToday:   s.rnd.IntN(50) + 10,
	}
}

func (s *Service) logs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, LogLines)
	for i := range out {
		hour := s.rnd.IntN(12) + 1
		minute := s.rnd.IntN(60)
		period := "AM"
		if s.rnd.Float64() > 0.5 {
			period = "PM"
		}
		out[i] = fmt.Sprintf("%d:%02d %s - %s", hour, minute, period, SampleLogs[s.rnd.IntN(len(SampleLogs))])
	}
	return out
}
