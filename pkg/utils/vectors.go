package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/fyerfyer/podem-atpg/pkg/circuit"
)

// WriteTestVectorsFile writes test vectors to a file
func WriteTestVectorsFile(filename string, inputs []string, vectors []map[string]circuit.LogicValue) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create vector file")
	}
	defer file.Close()
	return WriteTestVectors(file, inputs, vectors)
}

// WriteTestVectors writes one line per vector, values in the order of
// inputs. Unassigned inputs are written as X.
func WriteTestVectors(w io.Writer, inputs []string, vectors []map[string]circuit.LogicValue) error {
	writer := bufio.NewWriter(w)

	// Write header
	fmt.Fprintln(writer, "# Test vectors generated by podem-atpg")
	fmt.Fprintf(writer, "# Format: %s\n", strings.Join(inputs, " "))

	// Write each test vector
	for i, vector := range vectors {
		fmt.Fprintf(writer, "# Test vector %d\n", i+1)
		values := make([]string, len(inputs))
		for j, name := range inputs {
			switch v := vector[name].Good(); v {
			case circuit.Zero, circuit.One:
				values[j] = v.String()
			default:
				values[j] = "X"
			}
		}
		fmt.Fprintln(writer, strings.Join(values, " "))
	}
	return errors.Wrap(writer.Flush(), "writing test vectors")
}

// ParseAssignments parses "a=1,b=D" into a value mapping
func ParseAssignments(s string) (map[string]circuit.LogicValue, error) {
	values := make(map[string]circuit.LogicValue)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, text, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, errors.Errorf("invalid assignment %q (expected name=value)", part)
		}
		v, err := circuit.ParseLogicValue(text)
		if err != nil {
			return nil, err
		}
		values[strings.TrimSpace(name)] = v
	}
	return values, nil
}
