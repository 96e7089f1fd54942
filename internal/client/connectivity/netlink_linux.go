//go:build linux

package connectivity

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

const netlinkGroups = unix.RTMGRP_LINK | unix.RTMGRP_IPV4_IFADDR | unix.RTMGRP_IPV6_IFADDR

// NetlinkHook listens for rtnetlink link and address changes. Each change
// (and registration itself) triggers a reachability check through the
// Pinger: success reports available and validated, failure reports lost.
type NetlinkHook struct {
	pinger  Pinger
	timeout time.Duration

	mu   sync.Mutex
	fd   int
	stop chan struct{}
	done chan struct{}
}

func NewNetlinkHook(p Pinger, timeout time.Duration) (*NetlinkHook, error) {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &NetlinkHook{pinger: p, timeout: timeout, fd: -1}, nil
}

func (h *NetlinkHook) Register(cb Callbacks) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stop != nil {
		return ErrAlreadyRegistered
	}

	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_RAW|unix.SOCK_CLOEXEC, unix.NETLINK_ROUTE)
	if err != nil {
		return err
	}
	if err := unix.Bind(fd, &unix.SockaddrNetlink{Family: unix.AF_NETLINK, Groups: netlinkGroups}); err != nil {
		_ = unix.Close(fd)
		return err
	}
	// Bounded reads let the loop notice Unregister.
	tv := unix.NsecToTimeval((500 * time.Millisecond).Nanoseconds())
	if err := unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		_ = unix.Close(fd)
		return err
	}

	h.fd = fd
	h.stop = make(chan struct{})
	h.done = make(chan struct{})
	go h.listen(fd, cb, h.stop, h.done)
	return nil
}

func (h *NetlinkHook) listen(fd int, cb Callbacks, stop, done chan struct{}) {
	defer close(done)
	defer unix.Close(fd)

	h.evaluate(cb)

	buf := make([]byte, 1<<16)
	for {
		select {
		case <-stop:
			return
		default:
		}

		n, _, err := unix.Recvfrom(fd, buf, 0)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EINTR) {
				continue
			}
			return
		}
		if routeChanged(buf[:n]) {
			h.evaluate(cb)
		}
	}
}

func (h *NetlinkHook) evaluate(cb Callbacks) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		cb.OnLost()
		return
	}
	cb.OnAvailable()
	cb.OnCapabilitiesChanged(true, true)
}

func (h *NetlinkHook) Unregister() error {
	h.mu.Lock()
	stop, done := h.stop, h.done
	h.stop, h.done, h.fd = nil, nil, -1
	h.mu.Unlock()

	if stop == nil {
		return nil
	}
	close(stop)
	<-done
	return nil
}

// routeChanged reports whether a netlink datagram carries a link or
// address event.
func routeChanged(b []byte) bool {
	for len(b) >= unix.SizeofNlMsghdr {
		l := binary.NativeEndian.Uint32(b[0:4])
		typ := binary.NativeEndian.Uint16(b[4:6])
		if l < unix.SizeofNlMsghdr || int(l) > len(b) {
			return false
		}
		switch typ {
		case unix.RTM_NEWLINK, unix.RTM_DELLINK, unix.RTM_NEWADDR, unix.RTM_DELADDR:
			return true
		}
		// messages are 4-byte aligned
		next := (int(l) + unix.NLMSG_ALIGNTO - 1) &^ (unix.NLMSG_ALIGNTO - 1)
		if next > len(b) {
			return false
		}
		b = b[next:]
	}
	return false
}
