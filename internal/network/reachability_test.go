package network

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func interfaces(list ...Interface) InterfaceLister {
	return func() ([]Interface, error) { return list, nil }
}

var wlan = Interface{Name: "wlan0", Up: true, Addrs: 2}

func dialOK(ctx context.Context, network, address string) (net.Conn, error) {
	client, server := net.Pipe()
	_ = server.Close()
	return client, nil
}

func dialFail(ctx context.Context, network, address string) (net.Conn, error) {
	return nil, errors.New("connection refused")
}

func TestProbe_Available(t *testing.T) {
	tests := []struct {
		name    string
		ifaces  InterfaceLister
		targets []string
		dial    DialFunc
		want    bool
	}{
		{
			name:    "connected and reachable",
			ifaces:  interfaces(wlan),
			targets: []string{"tinyurl.com:443"},
			dial:    dialOK,
			want:    true,
		},
		{
			name:    "connected without targets",
			ifaces:  interfaces(wlan),
			targets: nil,
			dial:    dialFail,
			want:    true,
		},
		{
			name:    "connected but not available",
			ifaces:  interfaces(wlan),
			targets: []string{"tinyurl.com:443"},
			dial:    dialFail,
			want:    false,
		},
		{
			name:    "only loopback",
			ifaces:  interfaces(Interface{Name: "lo", Up: true, Loopback: true, Addrs: 1}),
			targets: []string{"tinyurl.com:443"},
			dial:    dialOK,
			want:    false,
		},
		{
			name:    "interface down",
			ifaces:  interfaces(Interface{Name: "eth0", Up: false, Addrs: 1}),
			targets: []string{"tinyurl.com:443"},
			dial:    dialOK,
			want:    false,
		},
		{
			name:    "interface without address",
			ifaces:  interfaces(Interface{Name: "eth0", Up: true}),
			targets: nil,
			dial:    dialOK,
			want:    false,
		},
		{
			name: "interfaces cannot be listed",
			ifaces: func() ([]Interface, error) {
				return nil, errors.New("permission denied")
			},
			targets: nil,
			dial:    dialOK,
			want:    false,
		},
		{
			name: "lister panics",
			ifaces: func() ([]Interface, error) {
				panic("no service")
			},
			targets: nil,
			dial:    dialOK,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProbe(tt.targets, time.Second, newTestLogger()).
				WithInterfaces(tt.ifaces).
				WithDialer(tt.dial)

			assert.Equal(t, tt.want, p.Available(context.Background()))
		})
	}
}

func TestProbe_AnyTargetIsEnough(t *testing.T) {
	var dials atomic.Int32
	dial := func(ctx context.Context, network, address string) (net.Conn, error) {
		dials.Add(1)
		if address == "good:443" {
			return dialOK(ctx, network, address)
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}

	p := NewProbe([]string{"slow:443", "good:443", "slower:443"}, 5*time.Second, newTestLogger()).
		WithInterfaces(interfaces(wlan)).
		WithDialer(dial)

	start := time.Now()
	assert.True(t, p.Available(context.Background()))
	assert.Less(t, time.Since(start), 2*time.Second, "a reachable target must cancel the other dials")
	assert.Equal(t, int32(3), dials.Load())
}

func TestProbe_TimeoutCountsAsUnavailable(t *testing.T) {
	dial := func(ctx context.Context, network, address string) (net.Conn, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	p := NewProbe([]string{"tinyurl.com:443"}, 20*time.Millisecond, newTestLogger()).
		WithInterfaces(interfaces(wlan)).
		WithDialer(dial)

	assert.False(t, p.Available(context.Background()))
}

func TestSystemInterfaces(t *testing.T) {
	ifaces, err := SystemInterfaces()
	if err != nil {
		t.Skipf("interfaces unavailable: %v", err)
	}
	for _, iface := range ifaces {
		assert.NotEmpty(t, iface.Name)
	}
}
