package pool

// Stats is a point-in-time snapshot of pool occupancy and counters.
type Stats struct {
	// MaxSize is the configured capacity bound.
	MaxSize int
	// PoolSize counts every object the pool is responsible for: idle,
	// checked out, and creations/destructions in flight.
	PoolSize int
	// IdleCount is the number of objects currently idle.
	IdleCount int
	// OutstandingCount is PoolSize minus IdleCount: objects checked out or
	// in flight.
	OutstandingCount int
	// WaiterCount is the number of acquires currently waiting.
	WaiterCount int
	// TotalCreated is the number of successful creations.
	TotalCreated int
	// TotalDestroyed is the number of successful destructions.
	TotalDestroyed int
	// CreateErrors is the number of failed creation attempts.
	CreateErrors int
	// DestroyErrors is the number of failed destructions.
	DestroyErrors int
	// LastCreateError is the most recent creation failure, if any.
	// Diagnostic only.
	LastCreateError error
}

// Stats returns current pool statistics.
func (p *Pool[T]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		MaxSize:          p.maxSize,
		PoolSize:         p.poolSize,
		IdleCount:        p.idle.len(),
		OutstandingCount: p.poolSize - p.idle.len(),
		WaiterCount:      p.waiters.len(),
		TotalCreated:     p.totalCreated,
		TotalDestroyed:   p.totalDestroyed,
		CreateErrors:     p.createErrors,
		DestroyErrors:    p.destroyErrors,
		LastCreateError:  p.lastCreateErr,
	}
}
