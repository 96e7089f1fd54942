//go:build !linux

package connectivity

import "time"

type NetlinkHook struct{}

func NewNetlinkHook(Pinger, time.Duration) (*NetlinkHook, error) {
	return nil, ErrUnsupported
}

func (*NetlinkHook) Register(Callbacks) error { return ErrUnsupported }

func (*NetlinkHook) Unregister() error { return nil }
