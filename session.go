package searcherator

import (
	"net/http"
	"sync"
	"time"
)

// Transport sizing for the shared session. The client talks to a single
// host, so the per-host idle pool matches the total.
const (
	poolMaxIdleConns        = 100
	poolMaxIdleConnsPerHost = 100
	poolIdleConnTimeout     = 90 * time.Second
)

// SessionPool owns the shared *http.Client reused across logical searches.
// The underlying connection pool is created on first use and torn down by
// Shutdown; one SessionPool can back any number of clients when injected
// via WithSessionPool.
type SessionPool struct {
	mu     sync.Mutex
	client *http.Client
}

// NewSessionPool creates an empty pool. No connections are opened until
// the first Acquire.
func NewSessionPool() *SessionPool {
	return &SessionPool{}
}

// Acquire returns the shared HTTP client, creating it on first use or after
// a Shutdown. The lock is the single point deciding whether a client
// exists, so two concurrent first uses never build two pools. The timeout
// is applied when the client is built and kept for its lifetime;
// per-request deadlines come from the caller's context.
func (p *SessionPool) Acquire(timeout time.Duration) *http.Client {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil {
		p.client = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        poolMaxIdleConns,
				MaxIdleConnsPerHost: poolMaxIdleConnsPerHost,
				IdleConnTimeout:     poolIdleConnTimeout,
			},
		}
	}

	return p.client
}

// Shutdown closes idle connections and drops the shared client. Calling it
// twice, or before any Acquire, is a no-op. The next Acquire recreates the
// pool.
func (p *SessionPool) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil {
		return
	}

	p.client.CloseIdleConnections()
	p.client = nil
}
