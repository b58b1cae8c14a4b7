package searcherator

import (
	"net/http"
	"sync"
	"testing"
	"time"
)

func TestSessionPoolLazyCreate(t *testing.T) {
	pool := NewSessionPool()

	if pool.client != nil {
		t.Error("Expected no client before first Acquire")
	}

	client := pool.Acquire(10 * time.Second)
	if client == nil {
		t.Fatal("Acquire() returned nil")
	}

	if client.Timeout != 10*time.Second {
		t.Errorf("Expected timeout=10s, got %v", client.Timeout)
	}

	transport, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("Expected *http.Transport, got %T", client.Transport)
	}
	if transport.MaxIdleConns != poolMaxIdleConns {
		t.Errorf("Expected MaxIdleConns=%d, got %d", poolMaxIdleConns, transport.MaxIdleConns)
	}
	if transport.MaxIdleConnsPerHost != poolMaxIdleConnsPerHost {
		t.Errorf("Expected MaxIdleConnsPerHost=%d, got %d", poolMaxIdleConnsPerHost, transport.MaxIdleConnsPerHost)
	}
}

func TestSessionPoolReusesClient(t *testing.T) {
	pool := NewSessionPool()

	first := pool.Acquire(time.Second)
	second := pool.Acquire(2 * time.Second)

	if first != second {
		t.Error("Expected the same client from consecutive Acquires")
	}

	// The first creation pins the timeout.
	if second.Timeout != time.Second {
		t.Errorf("Expected timeout=1s from first creation, got %v", second.Timeout)
	}
}

func TestSessionPoolShutdownIdempotent(t *testing.T) {
	pool := NewSessionPool()

	// Shutdown before any Acquire is a no-op.
	pool.Shutdown()

	pool.Acquire(time.Second)
	pool.Shutdown()
	pool.Shutdown()

	if pool.client != nil {
		t.Error("Expected no client after Shutdown")
	}
}

func TestSessionPoolRecreateAfterShutdown(t *testing.T) {
	pool := NewSessionPool()

	first := pool.Acquire(time.Second)
	pool.Shutdown()

	second := pool.Acquire(time.Second)
	if second == nil {
		t.Fatal("Acquire() after Shutdown returned nil")
	}
	if first == second {
		t.Error("Expected a fresh client after Shutdown")
	}
}

func TestSessionPoolConcurrentFirstUse(t *testing.T) {
	pool := NewSessionPool()

	const goroutines = 32
	clients := make([]*http.Client, goroutines)
	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			clients[i] = pool.Acquire(time.Second)
		}(i)
	}

	wg.Wait()

	for i := 1; i < goroutines; i++ {
		if clients[i] != clients[0] {
			t.Fatalf("Goroutine %d got a different client; two pools were built", i)
		}
	}
}
