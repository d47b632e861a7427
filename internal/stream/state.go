package stream

// State is the lifecycle position of the stream session.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateActive
	StateRetryPending
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateRetryPending:
		return "retry_pending"
	case StateTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Trigger is an input to the session state machine.
type Trigger int

const (
	TriggerParams Trigger = iota
	TriggerInvalidParams
	TriggerSuccess
	TriggerMalformed
	TriggerRejected
	TriggerFault
	TriggerRetry
	TriggerStop
)

func (t Trigger) String() string {
	switch t {
	case TriggerParams:
		return "params_changed"
	case TriggerInvalidParams:
		return "params_invalid"
	case TriggerSuccess:
		return "message"
	case TriggerMalformed:
		return "message_malformed"
	case TriggerRejected:
		return "message_rejected"
	case TriggerFault:
		return "fault"
	case TriggerRetry:
		return "retry_timer"
	case TriggerStop:
		return "stop"
	default:
		return "unknown"
	}
}

// Terminal has no fault or retry edge: once the server has rejected the
// parameters only a parameter change leaves it.
var transitions = map[State]map[Trigger]State{
	StateIdle: {
		TriggerParams:        StateConnecting,
		TriggerInvalidParams: StateIdle,
		TriggerStop:          StateIdle,
	},
	StateConnecting: {
		TriggerParams:        StateConnecting,
		TriggerInvalidParams: StateIdle,
		TriggerSuccess:       StateActive,
		TriggerMalformed:     StateConnecting,
		TriggerRejected:      StateTerminal,
		TriggerFault:         StateRetryPending,
		TriggerStop:          StateIdle,
	},
	StateActive: {
		TriggerParams:        StateConnecting,
		TriggerInvalidParams: StateIdle,
		TriggerSuccess:       StateActive,
		TriggerMalformed:     StateActive,
		TriggerRejected:      StateTerminal,
		TriggerFault:         StateRetryPending,
		TriggerStop:          StateIdle,
	},
	StateRetryPending: {
		TriggerParams:        StateConnecting,
		TriggerInvalidParams: StateIdle,
		TriggerRetry:         StateConnecting,
		TriggerStop:          StateIdle,
	},
	StateTerminal: {
		TriggerParams:        StateConnecting,
		TriggerInvalidParams: StateIdle,
		TriggerStop:          StateIdle,
	},
}

// Next returns the state reached from s on t, and false when the trigger
// has no edge from s.
func Next(s State, t Trigger) (State, bool) {
	to, ok := transitions[s][t]
	return to, ok
}
