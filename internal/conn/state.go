package conn

// State is the lifecycle position of a Loop.
type State int32

const (
	StateCreated State = iota
	StateInitialized
	StateRunning
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Phase is the protocol position of a Loop.
type Phase int32

const (
	PhaseAwaitingHandshake Phase = iota
	PhaseEstablished
)

func (p Phase) String() string {
	if p == PhaseEstablished {
		return "established"
	}
	return "awaiting_handshake"
}

type eventKind int

const (
	eventReadable eventKind = iota
	eventClosed
)

// event is one readiness notification from the reader goroutine.
type event struct {
	kind eventKind
	data []byte
	err  error
}
