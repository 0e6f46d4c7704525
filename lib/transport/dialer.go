package transport

import (
	"net"
	"strings"
	"sync"
	"time"

	"github.com/go-i2p/i2pkeys"
	"github.com/go-i2p/onramp"

	apperrors "github.com/go-i2p/connpool/lib/errors"
)

// DefaultSAMAddress is the default SAM bridge address.
const DefaultSAMAddress = "127.0.0.1:7656"

// DefaultDialTimeout is used when a dialer has no timeout configured.
const DefaultDialTimeout = 30 * time.Second

// Dialer produces raw connections for the pool lifecycle.
type Dialer interface {
	// Dial opens a new connection to the configured target.
	Dial() (net.Conn, error)
	// Close releases any shared dialing state (sessions, sockets).
	Close() error
}

// TCPDialer dials plain TCP connections.
type TCPDialer struct {
	// Addr is the target host:port.
	Addr string
	// Timeout bounds each dial attempt. Default: DefaultDialTimeout.
	Timeout time.Duration
}

func (d *TCPDialer) Dial() (net.Conn, error) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	conn, err := net.DialTimeout("tcp", d.Addr, timeout)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConnection, "tcp dial failed", err)
	}
	return conn, nil
}

func (d *TCPDialer) Close() error {
	return nil
}

// I2PDialer dials streaming connections over I2P through a shared Garlic
// session. The session is opened lazily on the first dial and reused for
// every connection after that.
type I2PDialer struct {
	// Name is the local tunnel name registered with the SAM bridge.
	Name string
	// SAMAddr is the SAM bridge address. Default: DefaultSAMAddress.
	SAMAddr string
	// Dest is the remote I2P destination (base32 or full destination).
	Dest string
	// Options are SAM tunnel options; onramp.OPT_DEFAULTS when empty.
	Options []string

	mu     sync.Mutex
	garlic *onramp.Garlic
}

func (d *I2PDialer) Dial() (net.Conn, error) {
	if err := validateDest(d.Dest); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid I2P destination", err)
	}
	garlic, err := d.session()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConnection, "I2P session unavailable", err)
	}
	conn, err := garlic.Dial("tcp", d.Dest)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConnection, "I2P dial failed", err)
	}
	return conn, nil
}

// validateDest checks the destination before a dial is attempted. Names under
// .i2p (including .b32.i2p) are resolved by the SAM bridge; anything else must
// be a full base64 destination.
func validateDest(dest string) error {
	if dest == "" {
		return apperrors.ErrInvalidInput
	}
	if strings.HasSuffix(dest, ".i2p") {
		return nil
	}
	_, err := i2pkeys.NewI2PAddrFromString(dest)
	return err
}

// session returns the shared Garlic session, opening it if needed.
func (d *I2PDialer) session() (*onramp.Garlic, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.garlic != nil {
		return d.garlic, nil
	}

	samAddr := d.SAMAddr
	if samAddr == "" {
		samAddr = DefaultSAMAddress
	}
	options := d.Options
	if len(options) == 0 {
		options = onramp.OPT_DEFAULTS
	}

	log.WithField("name", d.Name).WithField("sam", samAddr).Debug("opening I2P session")
	garlic, err := onramp.NewGarlic(d.Name, samAddr, options)
	if err != nil {
		return nil, err
	}
	d.garlic = garlic
	return garlic, nil
}

func (d *I2PDialer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.garlic == nil {
		return nil
	}
	err := d.garlic.Close()
	d.garlic = nil
	return err
}
