package resilience

import (
	"context"
	"net"
	"sync"
	"time"
)

// ProberConfig configures the background health prober.
type ProberConfig struct {
	// Interval between probes.
	Interval time.Duration
	// Timeout bounds a single probe.
	Timeout time.Duration
}

// DefaultProberConfig returns sensible defaults.
func DefaultProberConfig() ProberConfig {
	return ProberConfig{
		Interval: 30 * time.Second,
		Timeout:  5 * time.Second,
	}
}

// Probe checks reachability of a backend. A nil return means healthy.
type Probe func(timeout time.Duration) error

// TCPProbe probes a backend by opening and closing a TCP connection.
func TCPProbe(addr string) Probe {
	return func(timeout time.Duration) error {
		conn, err := net.DialTimeout("tcp", addr, timeout)
		if err != nil {
			return err
		}
		return conn.Close()
	}
}

// Prober periodically probes a backend and feeds the outcome into a circuit
// breaker. With a prober attached, the breaker opens when the backend goes
// down even while no creations are being attempted, and a recovered backend
// closes it again without burning real dials on probing.
type Prober struct {
	name    string
	config  ProberConfig
	breaker *CircuitBreaker
	probe   Probe

	mu          sync.Mutex
	running     bool
	cancel      context.CancelFunc
	lastCheck   time.Time
	lastHealthy time.Time
	healthy     bool

	wg sync.WaitGroup
}

// NewProber creates a prober feeding the given breaker.
func NewProber(name string, breaker *CircuitBreaker, probe Probe, cfg ProberConfig) *Prober {
	defaults := DefaultProberConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = defaults.Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	return &Prober{
		name:    name,
		config:  cfg,
		breaker: breaker,
		probe:   probe,
		healthy: true,
	}
}

// Start begins probing in the background. Idempotent.
func (p *Prober) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.mu.Unlock()

	log.WithField("prober", p.name).WithField("interval", p.config.Interval).Debug("health prober started")
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.loop(ctx)
	}()
}

// Stop halts probing and waits for the probe loop to exit.
func (p *Prober) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.cancel()
	p.mu.Unlock()

	p.wg.Wait()
	log.WithField("prober", p.name).Debug("health prober stopped")
}

func (p *Prober) loop(ctx context.Context) {
	p.Check()

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Check()
		}
	}
}

// Check runs one probe immediately and records the outcome.
func (p *Prober) Check() {
	err := p.probe(p.config.Timeout)

	p.mu.Lock()
	now := time.Now()
	p.lastCheck = now
	wasHealthy := p.healthy
	p.healthy = err == nil
	if err == nil {
		p.lastHealthy = now
	}
	p.mu.Unlock()

	if err == nil {
		p.breaker.RecordSuccess()
		if !wasHealthy {
			log.WithField("prober", p.name).Info("backend recovered")
		}
		return
	}
	p.breaker.RecordFailure()
	if wasHealthy {
		log.WithError(err).WithField("prober", p.name).Warn("backend unhealthy")
	}
}

// IsHealthy reports whether the last probe succeeded.
func (p *Prober) IsHealthy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.healthy
}

// LastCheck returns the time of the most recent probe.
func (p *Prober) LastCheck() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastCheck
}

// LastHealthy returns the time of the most recent successful probe.
func (p *Prober) LastHealthy() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastHealthy
}
