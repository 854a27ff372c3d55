package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-service/internal/service"
)

// SLASweeper periodically runs the full SLA breach sweep.
type SLASweeper struct {
	monitor  *service.SLAMonitor
	interval time.Duration
	logger   *zap.Logger
}

// NewSLASweeper constructs the sweeper.
func NewSLASweeper(monitor *service.SLAMonitor, interval time.Duration, logger *zap.Logger) *SLASweeper {
	return &SLASweeper{monitor: monitor, interval: interval, logger: logger}
}

// Run sweeps on a fixed interval until the context is cancelled. One
// sweep runs immediately on start.
func (s *SLASweeper) Run(ctx context.Context) {
	s.logger.Info("sla sweeper started", zap.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sla sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *SLASweeper) sweep(ctx context.Context) {
	if _, err := s.monitor.Sweep(ctx); err != nil {
		s.logger.Warn("sla sweep failed", zap.Error(err))
	}
}
