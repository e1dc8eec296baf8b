package utils

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/fyerfyer/podem-atpg/pkg/circuit"
)

// Regular expressions for parsing BENCH format
var (
	inputRegex  = regexp.MustCompile(`^INPUT\s*\(\s*([^\s()]+)\s*\)$`)
	outputRegex = regexp.MustCompile(`^OUTPUT\s*\(\s*([^\s()]+)\s*\)$`)
	gateRegex   = regexp.MustCompile(`^([^\s=]+)\s*=\s*(\w+)\s*\((.*)\)$`)
)

// ParseBenchFile reads a circuit description in BENCH format. The circuit
// is named after the file.
func ParseBenchFile(filename string) (*circuit.Circuit, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open netlist")
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return ParseBench(file, name)
}

// ParseBench reads BENCH statements:
//
//	INPUT(a)
//	OUTPUT(y)
//	y = NAND(a, b)
//	q = DFF(clk, d)
//	q = DFFSR(clk, d, set, reset)
//
// Gates are numbered 1, 2, ... in statement order. The returned circuit is
// not levelized.
func ParseBench(r io.Reader, name string) (*circuit.Circuit, error) {
	c := circuit.NewCircuit(name)
	nextGateID := 1

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := inputRegex.FindStringSubmatch(line); m != nil {
			if _, err := c.AddInput(m[1]); err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			continue
		}
		if m := outputRegex.FindStringSubmatch(line); m != nil {
			c.AddOutput(m[1])
			continue
		}

		m := gateRegex.FindStringSubmatch(line)
		if m == nil {
			return nil, errors.Wrapf(circuit.ErrMalformedCircuit, "line %d: cannot parse %q", lineNo, line)
		}
		gt, err := circuit.ParseGateType(m[2])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		var inputs []string
		for _, in := range strings.Split(m[3], ",") {
			if in = strings.TrimSpace(in); in != "" {
				inputs = append(inputs, in)
			}
		}
		if _, err := c.AddGate(nextGateID, gt, inputs, m[1]); err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		nextGateID++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading netlist")
	}
	return c, nil
}
