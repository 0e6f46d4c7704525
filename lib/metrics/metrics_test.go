package metrics

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCounter(t *testing.T) {
	c := NewCounter("test_counter_total", "A test counter")

	c.Inc()
	c.Inc()
	c.Add(3)

	if c.Value() != 5 {
		t.Errorf("expected 5, got %d", c.Value())
	}
}

func TestGauge(t *testing.T) {
	g := NewGauge("test_gauge", "A test gauge")

	g.Set(10)
	g.Inc()
	g.Dec()
	g.Add(-3)

	if g.Value() != 7 {
		t.Errorf("expected 7, got %d", g.Value())
	}
}

func TestHistogram(t *testing.T) {
	h := NewHistogram("test_histogram_seconds", "A test histogram", []float64{0.1, 1, 10})

	h.Observe(0.05)
	h.Observe(0.5)
	h.Observe(5)
	h.Observe(50)

	if h.Count() != 4 {
		t.Errorf("expected 4 observations, got %d", h.Count())
	}

	out := defaultRegistry.Expose()
	if !strings.Contains(out, `test_histogram_seconds_bucket{le="0.1"} 1`) {
		t.Error("first bucket should contain one observation")
	}
	if !strings.Contains(out, `test_histogram_seconds_bucket{le="10"} 3`) {
		t.Error("last finite bucket should contain three observations")
	}
	if !strings.Contains(out, `test_histogram_seconds_count 4`) {
		t.Error("count line missing")
	}
}

func TestTimer(t *testing.T) {
	h := NewHistogram("test_timer_seconds", "Timer histogram", DefaultLatencyBuckets)

	timer := NewTimer(h)
	time.Sleep(time.Millisecond)
	timer.ObserveDuration()

	if h.Count() != 1 {
		t.Errorf("expected 1 observation, got %d", h.Count())
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := NewCounter("test_concurrent_total", "Concurrency test counter")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()

	if c.Value() != 1000 {
		t.Errorf("expected 1000, got %d", c.Value())
	}
}

func TestHandler(t *testing.T) {
	NewCounter("test_handler_total", "Handler test counter").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "# TYPE test_handler_total counter") {
		t.Error("exposition should include TYPE line")
	}
	if !strings.Contains(body, "test_handler_total 1") {
		t.Error("exposition should include counter value")
	}
}
