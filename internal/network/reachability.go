// Package network answers whether a usable network path exists before the
// shortening API is called.
package network

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

var errReachable = errors.New("reachable")

// InterfaceLister returns the host's network interfaces.
type InterfaceLister func() ([]Interface, error)

// DialFunc opens a connection, as net.Dialer.DialContext does.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Interface is the subset of net.Interface the probe looks at.
type Interface struct {
	Name     string
	Up       bool
	Loopback bool
	Addrs    int
}

// Probe checks connectivity in two stages: an interface must be connected,
// and one of the targets must accept a TCP connection.
type Probe struct {
	targets    []string
	timeout    time.Duration
	interfaces InterfaceLister
	dial       DialFunc
	logger     *slog.Logger
}

// NewProbe creates a Probe using the host's interfaces and a real dialer.
func NewProbe(targets []string, timeout time.Duration, logger *slog.Logger) *Probe {
	dialer := &net.Dialer{}
	return &Probe{
		targets:    targets,
		timeout:    timeout,
		interfaces: SystemInterfaces,
		dial:       dialer.DialContext,
		logger:     logger,
	}
}

// WithInterfaces replaces the interface source.
func (p *Probe) WithInterfaces(fn InterfaceLister) *Probe {
	p.interfaces = fn
	return p
}

// WithDialer replaces the dialer used for targets.
func (p *Probe) WithDialer(fn DialFunc) *Probe {
	p.dial = fn
	return p
}

// Available reports whether the network can be used. It never fails:
// anything that cannot be determined counts as unavailable. A connected
// interface with no reachable target is also unavailable.
func (p *Probe) Available(ctx context.Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("reachability check panicked", "panic", r)
			ok = false
		}
	}()

	if !p.connected() {
		p.logger.Info("no connected network interface")
		return false
	}

	if len(p.targets) == 0 {
		return true
	}

	if !p.reachable(ctx) {
		p.logger.Info("network connected but not available", "targets", p.targets)
		return false
	}
	return true
}

func (p *Probe) connected() bool {
	ifaces, err := p.interfaces()
	if err != nil {
		p.logger.Warn("failed to list network interfaces", "error", err)
		return false
	}

	for _, iface := range ifaces {
		if iface.Up && !iface.Loopback && iface.Addrs > 0 {
			p.logger.Debug("connected interface found", "interface", iface.Name)
			return true
		}
	}
	return false
}

func (p *Probe) reachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var found atomic.Bool
	g, gctx := errgroup.WithContext(ctx)

	for _, target := range p.targets {
		target := target
		g.Go(func() error {
			conn, err := p.dial(gctx, "tcp", target)
			if err != nil {
				p.logger.Debug("probe target unreachable", "target", target, "error", err)
				return nil
			}
			_ = conn.Close()
			found.Store(true)
			// cancels the remaining dials
			return errReachable
		})
	}

	_ = g.Wait()
	return found.Load()
}

// SystemInterfaces lists the host's interfaces with their address counts.
func SystemInterfaces() ([]Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	out := make([]Interface, 0, len(ifaces))
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		out = append(out, Interface{
			Name:     iface.Name,
			Up:       iface.Flags&net.FlagUp != 0,
			Loopback: iface.Flags&net.FlagLoopback != 0,
			Addrs:    len(addrs),
		})
	}
	return out, nil
}
