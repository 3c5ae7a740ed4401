package conn

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"oxy/internal/crypto"
	"oxy/internal/domain"
	"oxy/internal/metrics"
	"oxy/internal/protocol/handshake"
	"oxy/internal/protocol/session"
)

const readChunk = 32 * 1024

// Handler receives protocol events. Methods run on the loop goroutine and
// must not block for long; they may call Send.
type Handler interface {
	// Established is called once the session is usable.
	Established(l *Loop) error
	// Message is called with each decrypted payload, in order.
	Message(l *Loop, payload []byte) error
}

// Config selects the role and collaborators of a Loop.
type Config struct {
	Role domain.Role
	// ServerPublic is required for clients.
	ServerPublic domain.PublicKey
	// ServerPrivate is required for servers.
	ServerPrivate *domain.PrivateKey

	Handler Handler
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	// HandshakeTimeout bounds how long a server waits for the handshake.
	// Zero disables it.
	HandshakeTimeout time.Duration
	// Rand defaults to crypto/rand.Reader.
	Rand io.Reader
}

// Loop owns one connection.
type Loop struct {
	nc  net.Conn
	cfg Config
	id  string
	log *zap.Logger

	state atomic.Int32
	phase atomic.Int32

	mu      sync.Mutex // guards sess (sealing side), pending, closed
	sess    *session.Session
	pending [][]byte
	closed  bool

	wake      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	inbuf   []byte
	started time.Time
}

// New wraps nc. The Loop takes ownership of nc and closes it when it ends.
func New(nc net.Conn, cfg Config) *Loop {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.Reader
	}
	id := uuid.New().String()
	l := &Loop{
		nc:   nc,
		cfg:  cfg,
		id:   id,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		log: cfg.Logger.With(
			zap.String("conn_id", id),
			zap.String("remote", remoteString(nc)),
			zap.Stringer("role", cfg.Role),
		),
	}
	return l
}

// ID returns the connection identifier used in logs.
func (l *Loop) ID() string { return l.id }

// Role returns the side this loop plays.
func (l *Loop) Role() domain.Role { return l.cfg.Role }

// RemoteAddr returns the peer address.
func (l *Loop) RemoteAddr() net.Addr { return l.nc.RemoteAddr() }

// State returns the lifecycle state.
func (l *Loop) State() State { return State(l.state.Load()) }

// Phase returns the protocol phase.
func (l *Loop) Phase() Phase { return Phase(l.phase.Load()) }

// Logger returns the per-connection logger.
func (l *Loop) Logger() *zap.Logger { return l.log }

// Init prepares the loop for its role. Clients build and write the handshake
// here and become Established.
func (l *Loop) Init() error {
	if !l.state.CompareAndSwap(int32(StateCreated), int32(StateInitialized)) {
		return fmt.Errorf("init loop in state %s", l.State())
	}
	l.started = time.Now()

	switch l.cfg.Role {
	case domain.RoleClient:
		sm, err := handshake.Write(l.nc, l.cfg.Rand, l.cfg.ServerPublic)
		if err != nil {
			l.cfg.Metrics.HandshakeDone(false, 0)
			l.Close()
			return err
		}
		l.establish(sm)
		l.cfg.Metrics.HandshakeDone(true, time.Since(l.started))
		l.log.Debug("handshake sent",
			zap.String("server_fp", string(crypto.Fingerprint(l.cfg.ServerPublic))))
	case domain.RoleServer:
		if l.cfg.ServerPrivate == nil {
			l.Close()
			return errors.New("server loop without private key")
		}
	default:
		l.Close()
		return domain.ErrInvalidMode
	}
	return nil
}

// Run drives the loop until the connection ends. It calls Init first when the
// loop is still Created.
func (l *Loop) Run(ctx context.Context) (err error) {
	if l.State() == StateCreated {
		if err := l.Init(); err != nil {
			return err
		}
	}
	if !l.state.CompareAndSwap(int32(StateInitialized), int32(StateRunning)) {
		return fmt.Errorf("run loop in state %s", l.State())
	}

	l.cfg.Metrics.ConnOpened()
	defer func() {
		l.Close()
		l.mu.Lock()
		if l.sess != nil {
			l.sess.Wipe()
		}
		l.mu.Unlock()
		l.cfg.Metrics.ConnClosed(err)
		l.log.Debug("loop finished", zap.Error(err))
	}()

	events := make(chan event)
	writes := make(chan []byte)
	written := make(chan error, 1)
	go l.readLoop(events)
	go l.writeLoop(writes, written)

	var timeout <-chan time.Time
	if l.cfg.Role == domain.RoleServer && l.cfg.HandshakeTimeout > 0 {
		timer := time.NewTimer(l.cfg.HandshakeTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	if l.Phase() == PhaseEstablished {
		if err := l.established(); err != nil {
			return err
		}
	}

	writing := false
	for {
		var out chan<- []byte
		var next []byte
		if !writing {
			next = l.peek()
			if next != nil {
				out = writes
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case <-timeout:
			l.cfg.Metrics.HandshakeDone(false, 0)
			l.log.Warn("handshake rejected", zap.Error(domain.ErrHandshakeTimeout))
			return domain.ErrHandshakeTimeout
		case <-l.wake:
		case out <- next:
			writing = true
		case werr := <-written:
			writing = false
			if werr != nil {
				return l.ioError("write", werr)
			}
			l.cfg.Metrics.AddBytes(metrics.DirectionOut, len(l.pop()))
		case ev := <-events:
			if err := l.dispatch(ev); err != nil {
				return l.finish(err)
			}
			if l.Phase() == PhaseEstablished {
				timeout = nil
			}
		}
	}
}

// Send seals payload as the next frame and queues it for writing.
func (l *Loop) Send(payload []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return domain.ErrClosed
	}
	if l.sess == nil {
		return domain.ErrNotEstablished
	}
	frame, err := l.sess.AppendFrame(nil, payload)
	if err != nil {
		return err
	}
	l.pending = append(l.pending, frame)
	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Close stops the loop and closes the connection. It is safe to call more
// than once and from any goroutine.
func (l *Loop) Close() error {
	var err error
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		l.pending = nil
		l.mu.Unlock()
		l.state.Store(int32(StateClosed))
		close(l.done)
		err = l.nc.Close()
	})
	return err
}

func (l *Loop) dispatch(ev event) error {
	if ev.kind == eventClosed {
		return errPeerClosed{ev.err}
	}
	l.inbuf = append(l.inbuf, ev.data...)

	if l.Phase() == PhaseAwaitingHandshake {
		if len(l.inbuf) < handshake.MessageSize {
			return nil
		}
		sm, err := handshake.Open(l.inbuf[:handshake.MessageSize], l.cfg.ServerPrivate)
		if err != nil {
			l.cfg.Metrics.HandshakeDone(false, 0)
			l.log.Warn("handshake rejected", zap.Error(err))
			return err
		}
		l.inbuf = l.inbuf[handshake.MessageSize:]
		l.establish(sm)
		l.cfg.Metrics.HandshakeDone(true, time.Since(l.started))
		l.log.Debug("handshake accepted")
		if err := l.established(); err != nil {
			return err
		}
	}

	for {
		payload, n, err := l.sess.NextFrame(l.inbuf)
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
		l.inbuf = l.inbuf[n:]
		l.cfg.Metrics.AddBytes(metrics.DirectionIn, n)
		if l.cfg.Handler != nil {
			if err := l.cfg.Handler.Message(l, payload); err != nil {
				return err
			}
		}
	}
	if len(l.inbuf) == 0 {
		l.inbuf = nil
	}
	return nil
}

func (l *Loop) establish(sm domain.SessionMaterial) {
	l.mu.Lock()
	l.sess = session.New(sm, l.cfg.Role)
	l.mu.Unlock()
	l.phase.Store(int32(PhaseEstablished))
}

func (l *Loop) established() error {
	if l.cfg.Handler == nil {
		return nil
	}
	return l.cfg.Handler.Established(l)
}

// finish maps a dispatch error to the loop result.
func (l *Loop) finish(err error) error {
	var pc errPeerClosed
	if !errors.As(err, &pc) {
		return err
	}
	switch {
	case errors.Is(pc.err, io.EOF):
		if l.Phase() == PhaseAwaitingHandshake && len(l.inbuf) > 0 {
			l.cfg.Metrics.HandshakeDone(false, 0)
			return domain.ErrHandshakeRejected
		}
		if len(l.inbuf) > 0 {
			return io.ErrUnexpectedEOF
		}
		l.log.Debug("peer closed")
		return nil
	default:
		return l.ioError("read", pc.err)
	}
}

func (l *Loop) ioError(op string, err error) error {
	select {
	case <-l.done:
		return nil
	default:
	}
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (l *Loop) peek() []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.pending) == 0 {
		return nil
	}
	return l.pending[0]
}

func (l *Loop) pop() []byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.pending) == 0 {
		return nil
	}
	b := l.pending[0]
	l.pending[0] = nil
	l.pending = l.pending[1:]
	return b
}

func (l *Loop) readLoop(events chan<- event) {
	for {
		buf := make([]byte, readChunk)
		n, err := l.nc.Read(buf)
		if n > 0 && !l.post(events, event{kind: eventReadable, data: buf[:n]}) {
			return
		}
		if err != nil {
			l.post(events, event{kind: eventClosed, err: err})
			return
		}
	}
}

func (l *Loop) writeLoop(writes <-chan []byte, written chan<- error) {
	for {
		select {
		case b := <-writes:
			_, err := l.nc.Write(b)
			select {
			case written <- err:
			case <-l.done:
				return
			}
		case <-l.done:
			return
		}
	}
}

func (l *Loop) post(events chan<- event, ev event) bool {
	select {
	case events <- ev:
		return true
	case <-l.done:
		return false
	}
}

type errPeerClosed struct{ err error }

func (e errPeerClosed) Error() string { return "peer closed: " + e.err.Error() }
func (e errPeerClosed) Unwrap() error { return e.err }

func remoteString(nc net.Conn) string {
	if a := nc.RemoteAddr(); a != nil {
		return a.String()
	}
	return ""
}
