package session

// State is the lifecycle state of a Controller.
type State int

const (
	// Idle has no link and no chosen endpoint.
	Idle State = iota
	// Resolving waits for the current remote's hostname to resolve.
	Resolving
	// LinkConnecting dials a literal endpoint.
	LinkConnecting
	// Negotiating has handed the link to the engine and waits for the
	// session to start.
	Negotiating
	// Connected has an established session with its settings applied.
	Connected
	// Reconnecting waits out the reconnection delay before the next attempt.
	Reconnecting
	// Disconnecting tears the engine and the link down.
	Disconnecting
	// Failed is entered after a terminal failure and left by the next Start.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Resolving:
		return "resolving"
	case LinkConnecting:
		return "linkConnecting"
	case Negotiating:
		return "negotiating"
	case Connected:
		return "connected"
	case Reconnecting:
		return "reconnecting"
	case Disconnecting:
		return "disconnecting"
	case Failed:
		return "failed"
	default:
		return "INVALID"
	}
}

// Status maps the state to the coarse status observers see.
func (s State) Status() Status {
	switch s {
	case Resolving, LinkConnecting, Negotiating, Reconnecting:
		return StatusConnecting
	case Connected:
		return StatusConnected
	case Disconnecting:
		return StatusDisconnecting
	}
	return StatusDisconnected
}
