package network

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldsense/perception/internal/world"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

type mockSocket struct {
	mu       sync.Mutex
	packets  [][]byte
	idx      int
	closed   bool
	rcvBuf   int
	deadline time.Time
}

func (m *mockSocket) ReadFromUDP(b []byte) (int, *net.UDPAddr, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.idx < len(m.packets) {
		n := copy(b, m.packets[m.idx])
		m.idx++
		return n, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 6000}, nil
	}
	time.Sleep(time.Millisecond)
	return 0, nil, timeoutErr{}
}

func (m *mockSocket) SetReadBuffer(bytes int) error { m.rcvBuf = bytes; return nil }

func (m *mockSocket) SetReadDeadline(t time.Time) error { m.deadline = t; return nil }

func (m *mockSocket) Close() error { m.closed = true; return nil }

func (m *mockSocket) LocalAddr() net.Addr { return &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)} }

type mockFactory struct {
	sock *mockSocket
	err  error
}

func (f *mockFactory) ListenUDP(network string, laddr *net.UDPAddr) (UDPSocket, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sock, nil
}

type recordingSink struct {
	frames []world.Frame
	reject map[int]bool
	onDone func()
	want   int
}

func (s *recordingSink) HandleFrame(f world.Frame) error {
	defer func() {
		if len(s.frames) >= s.want && s.onDone != nil {
			s.onDone()
		}
	}()
	if s.reject[f.Cycle] {
		return errors.New("stale")
	}
	s.frames = append(s.frames, f)
	return nil
}

func TestDecodeFrame(t *testing.T) {
	t.Parallel()

	f, err := DecodeFrame([]byte(`{"cycle": 7, "effects": {"dash_power": 50}}`))
	require.NoError(t, err)
	assert.Equal(t, 7, f.Cycle)
	assert.Equal(t, 50.0, f.Effects.DashPower)

	_, err = DecodeFrame([]byte("(see 7 ((b) 10 0))"))
	assert.Error(t, err)
}

func TestUDPListenerDeliversFrames(t *testing.T) {
	t.Parallel()

	sock := &mockSocket{packets: [][]byte{
		[]byte(`{"cycle": 1}`),
		[]byte(`garbage`),
		[]byte(`{"cycle": 2}`),
		[]byte(`{"cycle": 3}`),
	}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sink := &recordingSink{reject: map[int]bool{2: true}, want: 2, onDone: cancel}

	l := NewUDPListener(UDPListenerConfig{
		Address:      "127.0.0.1:0",
		RcvBuf:       1 << 16,
		Sink:         sink,
		Factory:      &mockFactory{sock: sock},
		PollInterval: time.Millisecond,
	})
	err := l.Start(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	require.Len(t, sink.frames, 2)
	assert.Equal(t, 1, sink.frames[0].Cycle)
	assert.Equal(t, 3, sink.frames[1].Cycle)
	assert.True(t, sock.closed)
	assert.Equal(t, 1<<16, sock.rcvBuf)

	s := l.Stats()
	assert.Equal(t, int64(4), s.Packets)
	assert.Equal(t, int64(2), s.Frames)
	assert.Equal(t, int64(2), s.Rejected)
}

func TestUDPListenerRequiresSink(t *testing.T) {
	t.Parallel()

	l := NewUDPListener(UDPListenerConfig{Address: "127.0.0.1:0", Factory: &mockFactory{sock: &mockSocket{}}})
	assert.Error(t, l.Start(context.Background()))
}

func TestUDPListenerListenError(t *testing.T) {
	t.Parallel()

	l := NewUDPListener(UDPListenerConfig{
		Address: "127.0.0.1:0",
		Sink:    &recordingSink{},
		Factory: &mockFactory{err: errors.New("address in use")},
	})
	err := l.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address in use")
}
