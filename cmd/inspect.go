package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/fyerfyer/podem-atpg/pkg/utils"
)

func newLevelsCmd() *cobra.Command {
	o := &circuitOptions{}
	var records bool
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "Print the level of every gate",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.load()
			if err != nil {
				return err
			}
			if records {
				return utils.WriteRecords(cmd.OutOrStdout(), c)
			}
			levels := c.LevelMap()
			keys := make([]int, 0, len(levels))
			for level := range levels {
				keys = append(keys, level)
			}
			sort.Ints(keys)

			out := cmd.OutOrStdout()
			for _, level := range keys {
				fmt.Fprintf(out, "%d: %v\n", level, levels[level])
			}
			depth, err := c.SequentialDepth()
			if err != nil {
				return err
			}
			if depth > 0 {
				fmt.Fprintf(out, "sequential depth: %d\n", depth)
			}
			return nil
		},
	}
	o.addFlags(cmd.Flags())
	cmd.Flags().BoolVar(&records, "records", false, "print the levelized graph records as YAML")
	return cmd
}

func newUnrollCmd() *cobra.Command {
	o := &circuitOptions{}
	var outFile string
	cmd := &cobra.Command{
		Use:   "unroll",
		Short: "Unroll a sequential circuit into time frames",
		Long: `Expand a sequential circuit into its combinational time-frame
equivalent and write it as YAML graph records. The records can be passed
back to any command with --circuit.

        $ atpg unroll -c s27.bench --out s27_unrolled.yaml
        `,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.load()
			if err != nil {
				return err
			}
			u, err := c.Unroll()
			if err != nil {
				return err
			}
			logger.Info("Unrolled %s: %d gates, %d inputs, %d outputs", c.Name, len(u.Gates), len(u.Inputs), len(u.Outputs))

			if outFile == "" {
				return utils.WriteRecords(cmd.OutOrStdout(), u)
			}
			file, err := os.Create(outFile)
			if err != nil {
				return err
			}
			defer file.Close()
			return utils.WriteRecords(file, u)
		},
	}
	o.addFlags(cmd.Flags())
	cmd.Flags().StringVar(&outFile, "out", "", "output file (default: stdout)")
	return cmd
}
