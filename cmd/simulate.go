package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fyerfyer/podem-atpg/pkg/circuit"
	"github.com/fyerfyer/podem-atpg/pkg/utils"
)

type simulateOptions struct {
	circuitOptions
	set    string
	cycles int
	wires  bool
}

func newSimulateCmd() *cobra.Command {
	o := &simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate the circuit with five-valued inputs",
		Long: `Simulate the circuit once per cycle with the same primary input values
and print the primary outputs. State elements keep their latches between
cycles, so a clock input must toggle across invocations to capture data.

        $ atpg simulate -c full_adder.bench --set a=1,b=D,carryin=0
        `,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}

	fs := cmd.Flags()
	o.circuitOptions.addFlags(fs)
	fs.StringVar(&o.set, "set", "", "primary input values, e.g. a=1,b=D (values 0, 1, X, D, ~D)")
	fs.IntVar(&o.cycles, "cycles", 1, "simulation passes")
	fs.BoolVar(&o.wires, "wires", false, "print every wire value, not only the primary outputs")
	return cmd
}

func (o *simulateOptions) run(cmd *cobra.Command) error {
	if o.cycles < 1 {
		return errors.Errorf("--cycles must be positive, got %d", o.cycles)
	}
	c, err := o.load()
	if err != nil {
		return err
	}
	inputs, err := utils.ParseAssignments(o.set)
	if err != nil {
		return err
	}

	s := circuit.NewState(c)
	out := cmd.OutOrStdout()
	for cycle := 0; cycle < o.cycles; cycle++ {
		values, err := c.SimulateGraph(s, inputs)
		if err != nil {
			return err
		}
		logger.Simulation("cycle %d: %v", cycle, values)

		parts := make([]string, len(c.Outputs))
		for i, name := range c.Names(c.Outputs) {
			parts[i] = name + "=" + values[name].String()
		}
		fmt.Fprintf(out, "cycle %d: %s\n", cycle, strings.Join(parts, " "))
		if o.wires {
			for _, w := range c.Wires {
				fmt.Fprintf(out, "  %s=%s\n", w.Name, values[w.Name])
			}
		}
	}
	return nil
}
