package midealan

import (
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
)

const DefaultPort = 6444

// Transport moves raw frames to and from one appliance. Implementations are
// not safe for concurrent use; the caller serializes access.
type Transport interface {
	Open() error
	Close() error
	// Send writes one frame without waiting for a reply.
	Send(frame []byte) error
	// Roundtrip writes one frame and returns the frames read back within the
	// read timeout. A single read may carry several frames.
	Roundtrip(frame []byte) ([][]byte, error)
}

// TCPTransport speaks the unencrypted (protocol v2) LAN socket. Discovery
// and the v3 handshake are out of scope; devices requiring them need a
// different transport behind the same interface.
type TCPTransport struct {
	host        string
	port        uint
	dialTimeout time.Duration
	readTimeout time.Duration
	conn        net.Conn
	logger      *zap.Logger
}

func NewTCPTransport(host string, port uint, timeout time.Duration, logger *zap.Logger) *TCPTransport {
	if port == 0 {
		port = DefaultPort
	}
	return &TCPTransport{
		host:        host,
		port:        port,
		dialTimeout: timeout,
		readTimeout: timeout,
		logger:      logger,
	}
}

func (t *TCPTransport) Open() error {
	addr := fmt.Sprintf("%s:%d", t.host, t.port)
	conn, err := net.DialTimeout("tcp", addr, t.dialTimeout)
	if err != nil {
		return fmt.Errorf("could not connect to appliance at %s: %w", addr, err)
	}
	t.logger.Debug("transport connected", zap.String("addr", addr))
	t.conn = conn
	return nil
}

func (t *TCPTransport) Close() error {
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

func (t *TCPTransport) Send(frame []byte) error {
	if t.conn == nil {
		return fmt.Errorf("transport not open")
	}
	if err := t.conn.SetWriteDeadline(time.Now().Add(t.readTimeout)); err != nil {
		return err
	}
	_, err := t.conn.Write(frame)
	if err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	return nil
}

func (t *TCPTransport) Roundtrip(frame []byte) ([][]byte, error) {
	if err := t.Send(frame); err != nil {
		return nil, err
	}
	if err := t.conn.SetReadDeadline(time.Now().Add(t.readTimeout)); err != nil {
		return nil, err
	}
	buf := make([]byte, 512)
	n, err := t.conn.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("receive failed: %w", err)
	}
	frames := SplitFrames(buf[:n])
	t.logger.Debug("transport roundtrip", zap.Int("bytes", n), zap.Int("frames", len(frames)))
	return frames, nil
}
