package circuit

import "fmt"

// WireID is the interned index of a wire in Circuit.Wires
type WireID int

// NoGate marks a wire without a producer
const NoGate = -1

// WireType represents the classification of a wire in the circuit
type WireType int

const (
	Normal WireType = iota
	PrimaryInput
	PrimaryOutput
	StateInput // Producer-less wire carrying initial state in an unrolled circuit
)

// Role of a gate on a wire
type Role string

const (
	Producer Role = "producer"
	Consumer Role = "consumer"
)

// Wire represents a signal wire in the circuit
type Wire struct {
	ID        WireID
	Name      string
	Type      WireType
	Output    bool  // Also a primary output; a primary input may be one too
	Producer  int   // Index of the driving gate, NoGate for inputs
	Consumers []int // Indexes of the gates this wire feeds
}

// IsInput reports whether the wire is a primary input
func (w *Wire) IsInput() bool {
	return w.Type == PrimaryInput
}

// IsOutput reports whether the wire is a primary output
func (w *Wire) IsOutput() bool {
	return w.Output
}

// String returns a string representation of the wire
func (w *Wire) String() string {
	return fmt.Sprintf("%s#%d", w.Name, w.ID)
}
