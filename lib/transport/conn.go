package transport

import (
	"bufio"
	"net"
	"sync"
	"time"
)

// Conn is a pooled transport connection. It wraps the raw connection with a
// buffered reader for framed reads and tracks enough state for the pool
// lifecycle to validate it.
type Conn struct {
	net.Conn
	reader    *bufio.Reader
	createdAt time.Time

	mu     sync.Mutex
	closed bool
}

func newConn(raw net.Conn) *Conn {
	return &Conn{
		Conn:      raw,
		reader:    bufio.NewReader(raw),
		createdAt: time.Now(),
	}
}

// Close closes the underlying connection. Safe to call more than once.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	return c.Conn.Close()
}

// Closed reports whether Close has been called.
func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Age returns how long ago the connection was dialed.
func (c *Conn) Age() time.Duration {
	return time.Since(c.createdAt)
}

// ReadFrame reads one newline-terminated frame, without the delimiter.
func (c *Conn) ReadFrame() ([]byte, error) {
	line, err := c.reader.ReadBytes('\n')
	if err != nil {
		return nil, err
	}
	return line[:len(line)-1], nil
}

// WriteFrame writes one newline-terminated frame.
func (c *Conn) WriteFrame(payload []byte) error {
	framed := make([]byte, 0, len(payload)+1)
	framed = append(framed, payload...)
	framed = append(framed, '\n')
	_, err := c.Conn.Write(framed)
	return err
}
