package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/status-im/crypto-converter/config"
	"github.com/status-im/crypto-converter/scheduler"
)

// PurgeService periodically removes long-expired entries so stale fallbacks
// do not keep dead identifiers around forever
type PurgeService struct {
	caches    *Caches
	retention time.Duration
	interval  time.Duration
	scheduler *scheduler.Scheduler
}

// NewPurgeService creates a purge service for caches
func NewPurgeService(caches *Caches, cfg config.CacheConfig) *PurgeService {
	return &PurgeService{
		caches:    caches,
		retention: cfg.StaleRetention,
		interval:  cfg.PurgeInterval,
	}
}

// Start implements core.Interface
func (s *PurgeService) Start(ctx context.Context) error {
	if s.caches == nil {
		return fmt.Errorf("cache purge service not properly initialized")
	}
	if s.interval <= 0 {
		log.Printf("CachePurge: purge interval not set, retention purge disabled")
		return nil
	}

	s.scheduler = scheduler.New("cache-purge", s.interval, func(ctx context.Context) error {
		s.purge()
		return nil
	})
	s.scheduler.Start(ctx, false)
	return nil
}

// Stop implements core.Interface
func (s *PurgeService) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *PurgeService) purge() int {
	removed := s.caches.PurgeOlderThan(s.retention)
	if removed > 0 {
		log.Printf("CachePurge: removed %d entries expired more than %s ago", removed, s.retention)
	}
	return removed
}
