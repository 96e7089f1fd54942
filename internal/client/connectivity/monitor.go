package connectivity

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophnotes/internal/logging"
)

// Monitor folds platform callbacks into an online level and a reconnect
// edge.
//
// The first callback sets the baseline without raising an edge. After that,
// every false->true transition sends one value on Reconnected (buffered,
// coalescing) and latches WasDisconnected until ResetDisconnectedFlag.
type Monitor struct {
	hook PlatformHook
	log  logging.Logger

	mu              sync.Mutex
	known           bool
	online          bool
	wasDisconnected bool
	registered      bool

	reconnected chan struct{}
}

func NewMonitor(hook PlatformHook, log logging.Logger) *Monitor {
	if log == nil {
		log = logging.Discard()
	}
	return &Monitor{
		hook:        hook,
		log:         log.With("component", "connectivity"),
		reconnected: make(chan struct{}, 1),
	}
}

// Start registers with the hook. The registration is dropped when ctx is
// done or Cleanup is called, whichever comes first.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.registered {
		m.mu.Unlock()
		return ErrAlreadyRegistered
	}
	m.registered = true
	m.mu.Unlock()

	if err := m.hook.Register(m); err != nil {
		m.mu.Lock()
		m.registered = false
		m.mu.Unlock()
		return err
	}

	go func() {
		<-ctx.Done()
		m.Cleanup()
	}()
	return nil
}

// Cleanup unregisters from the hook. Safe to call any number of times.
func (m *Monitor) Cleanup() {
	m.mu.Lock()
	if !m.registered {
		m.mu.Unlock()
		return
	}
	m.registered = false
	m.mu.Unlock()

	if err := m.hook.Unregister(); err != nil {
		m.log.Warn(context.Background(), "failed to unregister connectivity hook", "error", err)
	}
}

func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Reconnected delivers one value per offline->online transition. Edges that
// arrive while a previous one is still unread are merged.
func (m *Monitor) Reconnected() <-chan struct{} {
	return m.reconnected
}

func (m *Monitor) WasDisconnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wasDisconnected
}

func (m *Monitor) ResetDisconnectedFlag() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wasDisconnected = false
}

// OnAvailable treats a new default network as reachable until a
// capabilities report says otherwise.
func (m *Monitor) OnAvailable() {
	m.update(true)
}

func (m *Monitor) OnLost() {
	m.update(false)
}

func (m *Monitor) OnCapabilitiesChanged(hasInternet, validated bool) {
	m.update(hasInternet && validated)
}

func (m *Monitor) update(online bool) {
	m.mu.Lock()
	prev, known := m.online, m.known
	m.online, m.known = online, true
	edge := known && online && !prev
	if edge {
		m.wasDisconnected = true
	}
	m.mu.Unlock()

	if known && prev == online {
		return
	}

	ctx := context.Background()
	if !online {
		m.log.Info(ctx, "connection lost")
		return
	}
	if !edge {
		m.log.Info(ctx, "online")
		return
	}

	m.log.Info(ctx, "connection restored")
	select {
	case m.reconnected <- struct{}{}:
	default:
	}
}
