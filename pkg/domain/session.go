package domain

import "time"

// SessionState is the phase of the session supervisor.
type SessionState string

const (
	StateResolving SessionState = "resolving"
	StateOpening   SessionState = "opening"
	StateRunning   SessionState = "running"
	StateTeardown  SessionState = "teardown"
	StateStopped   SessionState = "stopped"
)

// SessionSnapshot is a diagnostic view of one session.
// It never contains routed messages.
type SessionSnapshot struct {
	SessionID string       `json:"session_id"`
	State     SessionState `json:"state"`
	StartedAt time.Time    `json:"started_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	// Inputs and Outputs map identifiers to concrete names; unassigned identifiers map to "".
	Inputs  map[string]string `json:"inputs"`
	Outputs map[string]string `json:"outputs"`

	// OpenInputs and OpenOutputs list the concrete ports actually opened.
	OpenInputs  []string `json:"open_inputs"`
	OpenOutputs []string `json:"open_outputs"`

	// Reason explains the last teardown, if any.
	Reason string `json:"reason,omitempty"`
}

// StateChange is emitted by the supervisor on every phase transition.
type StateChange struct {
	SessionID string       `json:"session_id"`
	From      SessionState `json:"from"`
	To        SessionState `json:"to"`
	Reason    string       `json:"reason,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}
