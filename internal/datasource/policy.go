// Package datasource decides whether views read live backend data or the
// bundled demo dataset. A connectivity probe flips the policy; views consult
// it in one place instead of wrapping every query in its own failure handling.
package datasource

import (
	"context"
	"sync"
	"time"

	"github.com/mahdyhasan/augmind/internal/backend"
	"github.com/mahdyhasan/augmind/internal/pkg/logger"
)

// Mode names which dataset the application is serving.
type Mode string

const (
	ModeLive     Mode = "live"
	ModeFallback Mode = "fallback"
)

const defaultProbeInterval = 30 * time.Second

// Policy tracks backend reachability. It starts in fallback and promotes to
// live on the first successful probe, so a cold start against a dead backend
// still serves something.
type Policy struct {
	client       backend.Client
	log          logger.ILogger
	probeTimeout time.Duration
	interval     time.Duration

	mu        sync.RWMutex
	mode      Mode
	lastProbe time.Time
	lastErr   error
}

func NewPolicy(client backend.Client, log logger.ILogger, probeTimeout time.Duration) *Policy {
	if probeTimeout <= 0 {
		probeTimeout = 3 * time.Second
	}
	return &Policy{
		client:       client,
		log:          log,
		probeTimeout: probeTimeout,
		interval:     defaultProbeInterval,
		mode:         ModeFallback,
	}
}

// Mode returns the current policy decision.
func (p *Policy) Mode() Mode {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mode
}

func (p *Policy) Live() bool { return p.Mode() == ModeLive }

// Status reports the last probe outcome for the health surface.
func (p *Policy) Status() (Mode, time.Time, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mode, p.lastProbe, p.lastErr
}

// Probe checks backend reachability once and updates the mode. It is safe to
// call on demand; the health endpoint and the periodic loop both use it.
func (p *Policy) Probe(ctx context.Context) Mode {
	ctx, cancel := context.WithTimeout(ctx, p.probeTimeout)
	defer cancel()

	err := p.client.Probe(ctx)

	p.mu.Lock()
	previous := p.mode
	p.lastProbe = time.Now()
	p.lastErr = err
	if err != nil {
		p.mode = ModeFallback
	} else {
		p.mode = ModeLive
	}
	current := p.mode
	p.mu.Unlock()

	if current != previous {
		if current == ModeLive {
			p.log.Info("datasource", "Backend reachable, serving live data", nil)
		} else {
			p.log.Warn("datasource", "Backend unreachable, serving demo data", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return current
}

// Run probes periodically until the context is cancelled.
func (p *Policy) Run(ctx context.Context) {
	p.Probe(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Probe(ctx)
		}
	}
}
