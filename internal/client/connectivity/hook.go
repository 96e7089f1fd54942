// Package connectivity tracks whether the remote store is reachable and
// signals each offline to online transition exactly once.
package connectivity

import (
	"context"
	"errors"
)

// ErrUnsupported is returned by hooks that cannot run on this platform.
var ErrUnsupported = errors.New("connectivity hook not supported on this platform")

var ErrAlreadyRegistered = errors.New("connectivity hook already registered")

// Callbacks receives platform network events.
type Callbacks interface {
	OnAvailable()
	OnLost()
	OnCapabilitiesChanged(hasInternet, validated bool)
}

// PlatformHook is a source of network events. Unregister must be safe to
// call when nothing is registered.
type PlatformHook interface {
	Register(cb Callbacks) error
	Unregister() error
}

// Pinger checks actual reachability of the remote store.
type Pinger interface {
	Ping(ctx context.Context) error
}
