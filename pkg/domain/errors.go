package domain

import "errors"

// ErrPortUnavailable is returned when a concrete port cannot be opened.
var ErrPortUnavailable = errors.New("port unavailable")

// ErrPortNotFound is returned when a concrete port name is not exposed by the provider.
var ErrPortNotFound = errors.New("port not found")

// ErrSendFailed is returned when a message cannot be delivered to an output port.
var ErrSendFailed = errors.New("send failed")

// ErrTopologyChanged signals that the available port names differ from the session snapshot.
// It is a control signal, not a failure.
var ErrTopologyChanged = errors.New("port topology changed")

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrSnapshotNotFound is returned when a status store holds no snapshot yet.
var ErrSnapshotNotFound = errors.New("snapshot not found")
