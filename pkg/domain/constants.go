package domain

// All is the wildcard keyword accepted for ports and channels in routing rules.
const All = "ALL"

// Channel bounds for channel voice messages (zero based, as on the wire).
const (
	MinChannel = 0
	MaxChannel = 15
)

// Directions used in logs, metrics and snapshots.
const (
	DirectionInput  = "input"
	DirectionOutput = "output"
)
