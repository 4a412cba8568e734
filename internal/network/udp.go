package network

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"time"
)

// UDPSocket defines an interface for UDP socket operations.
// This abstraction enables unit testing without real network connections.
type UDPSocket interface {
	ReadFromUDP(b []byte) (n int, addr *net.UDPAddr, err error)
	SetReadBuffer(bytes int) error
	SetReadDeadline(t time.Time) error
	Close() error
	LocalAddr() net.Addr
}

// UDPSocketFactory creates sockets for the listener.
type UDPSocketFactory interface {
	ListenUDP(network string, laddr *net.UDPAddr) (UDPSocket, error)
}

// RealUDPSocketFactory implements UDPSocketFactory using net.ListenUDP.
type RealUDPSocketFactory struct{}

// ListenUDP creates a new UDP socket.
func (RealUDPSocketFactory) ListenUDP(network string, laddr *net.UDPAddr) (UDPSocket, error) {
	conn, err := net.ListenUDP(network, laddr)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// maxDatagram bounds one frame; the simulator never sends more than 8 KiB.
const maxDatagram = 8192

// UDPListenerConfig contains configuration options for the UDP listener.
type UDPListenerConfig struct {
	Address string
	RcvBuf  int
	Sink    FrameSink
	Factory UDPSocketFactory // nil uses RealUDPSocketFactory
	// PollInterval bounds how long a read blocks before checking ctx.
	PollInterval time.Duration
}

// UDPListener receives frames from a UDP socket and forwards them to a sink.
type UDPListener struct {
	cfg   UDPListenerConfig
	stats Stats
}

// NewUDPListener creates a new UDP listener with the provided configuration.
func NewUDPListener(cfg UDPListenerConfig) *UDPListener {
	if cfg.Factory == nil {
		cfg.Factory = RealUDPSocketFactory{}
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 100 * time.Millisecond
	}
	return &UDPListener{cfg: cfg}
}

// Stats returns the listener counters.
func (l *UDPListener) Stats() StatsSnapshot { return l.stats.Snapshot() }

// Start listens until ctx is done or the socket fails permanently.
func (l *UDPListener) Start(ctx context.Context) error {
	if l.cfg.Sink == nil {
		return errors.New("udp listener: no frame sink")
	}
	addr, err := net.ResolveUDPAddr("udp", l.cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address: %w", err)
	}
	conn, err := l.cfg.Factory.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on UDP address: %w", err)
	}
	defer conn.Close()

	if l.cfg.RcvBuf > 0 {
		if err := conn.SetReadBuffer(l.cfg.RcvBuf); err != nil {
			log.Printf("Warning: Failed to set UDP receive buffer size to %d: %v", l.cfg.RcvBuf, err)
		}
	}
	log.Printf("UDP listener started on %s", conn.LocalAddr())

	buffer := make([]byte, maxDatagram)
	for {
		select {
		case <-ctx.Done():
			log.Print("UDP listener stopping due to context cancellation")
			return ctx.Err()
		default:
		}

		conn.SetReadDeadline(time.Now().Add(l.cfg.PollInterval))
		n, _, err := conn.ReadFromUDP(buffer)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			log.Printf("UDP read error: %v", err)
			continue
		}
		// The sink runs synchronously, so the buffer can be reused.
		deliver(buffer[:n], l.cfg.Sink, &l.stats)
	}
}
