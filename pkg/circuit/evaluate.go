package circuit

import "github.com/pkg/errors"

// Evaluate computes a gate's output from its ordered input values. It is
// pure: sequential types evaluate transparently (DFF passes data, DFFSR
// applies set/reset then passes data), which is how state elements behave
// inside unrolled time frames. Latched behavior lives in Latch.Step.
func Evaluate(t GateType, inputs []LogicValue) (LogicValue, error) {
	lo, hi := t.arity()
	if t < BUF || t > Dummy {
		return X, errors.Wrapf(ErrUnsupportedGateType, "%s", t)
	}
	if len(inputs) < lo || (hi >= 0 && len(inputs) > hi) {
		return X, errors.Wrapf(ErrMalformedCircuit, "%s gate with %d inputs", t, len(inputs))
	}

	switch t {
	case BUF:
		return inputs[0], nil
	case NOT:
		return inputs[0].Not(), nil
	case AND:
		return evaluateAND(inputs), nil
	case NAND:
		return evaluateAND(inputs).Not(), nil
	case OR:
		return evaluateOR(inputs), nil
	case NOR:
		return evaluateOR(inputs).Not(), nil
	case XOR:
		return evaluateXOR(inputs), nil
	case XNOR:
		return evaluateXOR(inputs).Not(), nil
	case DFF:
		return inputs[PinData], nil
	case DFFSR:
		return setReset(inputs, inputs[PinData]), nil
	case Dummy:
		return X, nil
	}
	return X, errors.Wrapf(ErrUnsupportedGateType, "%s", t)
}

// The five-valued operators work on the good and faulty halves separately;
// a 0 input controls AND in both halves, which is why AND(D, ~D) is 0.

func evaluateAND(inputs []LogicValue) LogicValue {
	good, faulty := One, One
	for _, in := range inputs {
		if in == Zero {
			return Zero // Short-circuit for AND gate
		}
		good = and3(good, in.Good())
		faulty = and3(faulty, in.Faulty())
	}
	return compose(good, faulty)
}

func evaluateOR(inputs []LogicValue) LogicValue {
	good, faulty := Zero, Zero
	for _, in := range inputs {
		if in == One {
			return One // Short-circuit for OR gate
		}
		good = and3(good.Not(), in.Good().Not()).Not()
		faulty = and3(faulty.Not(), in.Faulty().Not()).Not()
	}
	return compose(good, faulty)
}

func evaluateXOR(inputs []LogicValue) LogicValue {
	good, faulty := Zero, Zero
	for _, in := range inputs {
		good = xor3(good, in.Good())
		faulty = xor3(faulty, in.Faulty())
	}
	return compose(good, faulty)
}

// and3 is three-valued AND over {0, 1, X}
func and3(a, b LogicValue) LogicValue {
	switch {
	case a == Zero || b == Zero:
		return Zero
	case a == One && b == One:
		return One
	default:
		return X
	}
}

// xor3 is three-valued XOR over {0, 1, X}
func xor3(a, b LogicValue) LogicValue {
	if a == X || b == X {
		return X
	}
	if a == b {
		return Zero
	}
	return One
}

// setReset applies the asynchronous DFFSR pins: set dominates reset
func setReset(inputs []LogicValue, otherwise LogicValue) LogicValue {
	if inputs[PinSet] == One {
		return One
	}
	if inputs[PinReset] == One {
		return Zero
	}
	return otherwise
}

// Latch is the persistent state of a DFF or DFFSR
type Latch struct {
	PrevClock LogicValue // Clock value seen on the previous step
	Data      LogicValue // Latched data
}

// NewLatch returns the power-up state: clock low, data 0
func NewLatch() Latch {
	return Latch{PrevClock: Zero, Data: Zero}
}

// Step advances the latch with the current input values and returns the
// gate output. A DFF captures data only on a rising edge (previous clock 0,
// current clock 1) and always outputs the previously latched value.
func (l *Latch) Step(t GateType, inputs []LogicValue) (LogicValue, error) {
	if !t.IsSequential() {
		return X, errors.Wrapf(ErrUnsupportedGateType, "%s has no latch", t)
	}
	lo, _ := t.arity()
	if len(inputs) != lo {
		return X, errors.Wrapf(ErrMalformedCircuit, "%s gate with %d inputs", t, len(inputs))
	}

	out := l.Data
	clock := inputs[PinClock]
	if l.PrevClock == Zero && clock == One {
		l.Data = inputs[PinData]
	}
	l.PrevClock = clock

	if t == DFFSR {
		switch setReset(inputs, X) {
		case One:
			l.Data = One
			return One, nil
		case Zero:
			l.Data = Zero
			return Zero, nil
		}
	}
	return out, nil
}
