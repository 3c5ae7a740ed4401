package stream

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"oxy/internal/conn"
)

var (
	_ conn.Handler = Echo{}
	_ conn.Handler = (*Printer)(nil)
)

// Echo sends each received payload straight back.
type Echo struct{}

// Established logs the new session.
func (Echo) Established(l *conn.Loop) error {
	l.Logger().Info("session established")
	return nil
}

// Message queues payload for the peer.
func (Echo) Message(l *conn.Loop, payload []byte) error {
	return l.Send(payload)
}

// Printer writes each payload to Out followed by a newline.
type Printer struct {
	Out io.Writer

	once  sync.Once
	ready chan struct{}
}

// NewPrinter returns a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{Out: out, ready: make(chan struct{})}
}

// Ready is closed once the session is established.
func (p *Printer) Ready() <-chan struct{} { return p.ready }

// Established releases Ready.
func (p *Printer) Established(l *conn.Loop) error {
	p.once.Do(func() { close(p.ready) })
	l.Logger().Debug("session established")
	return nil
}

// Message prints payload.
func (p *Printer) Message(l *conn.Loop, payload []byte) error {
	if _, err := fmt.Fprintf(p.Out, "%s\n", payload); err != nil {
		l.Logger().Warn("print message", zap.Error(err))
		return err
	}
	return nil
}
