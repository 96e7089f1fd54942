package connectivity

import (
	"context"
	"sync"
	"time"
)

// ProbeHook polls a Pinger and reports the result as capabilities. The first
// probe runs right after Register.
type ProbeHook struct {
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewProbeHook(p Pinger, interval, timeout time.Duration) *ProbeHook {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &ProbeHook{pinger: p, interval: interval, timeout: timeout}
}

func (h *ProbeHook) Register(cb Callbacks) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		return ErrAlreadyRegistered
	}

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.done = make(chan struct{})

	go h.watch(ctx, cb, h.done)
	return nil
}

func (h *ProbeHook) watch(ctx context.Context, cb Callbacks, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		ok := h.probe(ctx)
		if ctx.Err() != nil {
			return
		}
		cb.OnCapabilitiesChanged(ok, ok)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

func (h *ProbeHook) probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return h.pinger.Ping(ctx) == nil
}

// Unregister stops polling and waits for an in-flight probe to finish.
func (h *ProbeHook) Unregister() error {
	h.mu.Lock()
	cancel, done := h.cancel, h.done
	h.cancel, h.done = nil, nil
	h.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}
