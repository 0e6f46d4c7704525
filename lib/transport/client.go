package transport

import (
	"context"
	"fmt"
	"time"

	"github.com/go-i2p/connpool/lib/metrics"
	"github.com/go-i2p/connpool/lib/pool"
	"github.com/go-i2p/connpool/lib/ratelimit"
	"github.com/go-i2p/connpool/lib/resilience"
)

// Client is a request/response client over a bounded async connection pool.
// Requests and responses are newline-framed byte payloads; anything richer
// belongs to the protocol layered on top.
type Client struct {
	pool    *pool.Pool[*Conn]
	dialer  Dialer
	prober  *resilience.Prober
	timeout time.Duration
}

// NewClient builds the dialer/lifecycle/pool stack described by cfg and
// starts the pool.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dialer := cfg.dialer()

	var opts []LifecycleOption
	if cfg.Pool.MaxConnAge > 0 {
		opts = append(opts, WithMaxConnAge(cfg.Pool.MaxConnAge))
	}
	var prober *resilience.Prober
	if cfg.Pool.BreakerEnabled {
		breaker := resilience.NewCircuitBreaker(cfg.Target, resilience.DefaultCircuitBreakerConfig())
		opts = append(opts, WithBreaker(breaker))
		if cfg.Pool.HealthCheckInterval > 0 {
			// For I2P the reachable endpoint is the SAM bridge, not the
			// remote destination.
			probeAddr := cfg.Target
			if cfg.I2P.Enabled {
				probeAddr = cfg.I2P.SAMAddress
			}
			prober = resilience.NewProber(cfg.Target, breaker, resilience.TCPProbe(probeAddr), resilience.ProberConfig{
				Interval: cfg.Pool.HealthCheckInterval,
			})
		}
	}

	var lc pool.Lifecycle[*Conn] = NewConnLifecycle(dialer, opts...)
	if cfg.Pool.CreateRate > 0 {
		burst := cfg.Pool.CreateBurst
		if burst <= 0 {
			burst = cfg.Pool.MaxSize
		}
		lc = pool.RateLimited(lc, ratelimit.New(cfg.Pool.CreateRate, burst))
	}

	p := pool.New(lc, pool.Config{
		Name:        "transport " + cfg.Target,
		MaxSize:     cfg.Pool.MaxSize,
		IdleTimeout: cfg.Pool.IdleTimeout,
	})
	if err := p.Start(); err != nil {
		dialer.Close()
		return nil, err
	}
	if prober != nil {
		prober.Start()
	}

	log.WithField("target", cfg.Target).WithField("poolSize", cfg.Pool.MaxSize).Debug("transport client created")
	return &Client{
		pool:    p,
		dialer:  dialer,
		prober:  prober,
		timeout: cfg.RequestTimeout,
	}, nil
}

// Do sends one framed request and reads one framed response using a pooled
// connection. The connection returns to the pool on success and is discarded
// on any transport error.
func (c *Client) Do(ctx context.Context, payload []byte) ([]byte, error) {
	if c.timeout > 0 {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
	}

	timer := metrics.NewTimer(pool.AcquireLatency)
	conn, err := c.pool.AcquireContext(ctx)
	timer.ObserveDuration()
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	success := false
	defer func() {
		if success {
			c.pool.Release(conn)
		} else {
			c.pool.Discard(conn)
		}
	}()

	deadline, ok := ctx.Deadline()
	if ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, fmt.Errorf("set deadline: %w", err)
		}
	}

	if err := conn.WriteFrame(payload); err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}
	resp, err := conn.ReadFrame()
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if ok {
		if err := conn.SetDeadline(time.Time{}); err != nil {
			return nil, fmt.Errorf("clear deadline: %w", err)
		}
	}
	success = true
	return resp, nil
}

// Stats returns pool statistics.
func (c *Client) Stats() pool.Stats {
	return c.pool.Stats()
}

// Healthy reports the outcome of the most recent background probe. Always
// true when health probing is not configured.
func (c *Client) Healthy() bool {
	if c.prober == nil {
		return true
	}
	return c.prober.IsHealthy()
}

// Close shuts the pool down and waits for every checked-out connection to
// come home, up to ctx. The shared dialing state is released afterwards, so
// a forced close (expired ctx) also tears down connections still in flight.
func (c *Client) Close(ctx context.Context) error {
	if c.prober != nil {
		c.prober.Stop()
	}
	done := make(chan error, 1)
	c.pool.Shutdown(func(err error) {
		done <- err
	})

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	if cerr := c.dialer.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
