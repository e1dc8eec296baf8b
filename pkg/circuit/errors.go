package circuit

import "github.com/pkg/errors"

// Structural errors. Every error returned by this package wraps one of them.
var (
	ErrMalformedCircuit    = errors.New("malformed circuit")
	ErrUnsupportedGateType = errors.New("unsupported gate type")
	ErrUnrollConsistency   = errors.New("unroll consistency error")
	ErrUnknownWire         = errors.New("unknown wire")
	ErrMultipleDrivers     = errors.New("wire has multiple drivers")
	ErrDuplicateGate       = errors.New("duplicate gate id")
	ErrNotLevelized        = errors.New("circuit is not levelized")
)
