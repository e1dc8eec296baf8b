package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/fyerfyer/podem-atpg/pkg/algorithm"
	"github.com/fyerfyer/podem-atpg/pkg/circuit"
	"github.com/fyerfyer/podem-atpg/pkg/metrics"
	"github.com/fyerfyer/podem-atpg/pkg/prove"
	"github.com/fyerfyer/podem-atpg/pkg/utils"
)

type runOptions struct {
	circuitOptions
	faults        []string
	all           bool
	prove         bool
	workers       int
	maxCandidates int
	compact       bool
	output        string
	metricsFile   string
}

func newRunCmd() *cobra.Command {
	o := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate test vectors for stuck-at faults",
		Long: `Generate test vectors for one or more stuck-at faults, or for every
fault of the circuit. Sequential circuits are unrolled into time frames.

        $ atpg run -c full_adder.bench --fault _02_/0
        $ atpg run -c s27.bench --all --prove --metrics-file atpg.prom
        `,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.applyConfig(cmd)
			return o.run(cmd)
		},
	}

	fs := cmd.Flags()
	o.circuitOptions.addFlags(fs)
	fs.StringSliceVarP(&o.faults, "fault", "f", nil, "fault to test, e.g. net42/1 (repeatable)")
	fs.BoolVar(&o.all, "all", false, "generate tests for all faults")
	fs.BoolVar(&o.prove, "prove", false, "classify faults the search gives up on with a SAT solver")
	fs.IntVarP(&o.workers, "workers", "j", 0, "parallel fault searches (default: GOMAXPROCS)")
	fs.IntVar(&o.maxCandidates, "max-candidates", 0, "sensitizing assignments kept per attempt (0: all)")
	fs.BoolVar(&o.compact, "compact", true, "compact test vectors")
	fs.StringVarP(&o.output, "output", "o", "", "output file for test vectors")
	fs.StringVar(&o.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	return cmd
}

// applyConfig fills every option not given on the command line
func (o *runOptions) applyConfig(cmd *cobra.Command) {
	fs := cmd.Flags()
	if !fs.Changed("prove") {
		o.prove = cfg.Engine.Prove
	}
	if !fs.Changed("workers") {
		o.workers = cfg.Campaign.Workers
	}
	if !fs.Changed("max-candidates") {
		o.maxCandidates = cfg.Engine.MaxCandidates
	}
	if !fs.Changed("compact") {
		o.compact = cfg.Campaign.Compact
	}
	if !fs.Changed("output") {
		o.output = cfg.Output.Vectors
	}
	if !fs.Changed("metrics-file") {
		o.metricsFile = cfg.Output.Metrics
	}
}

func (o *runOptions) run(cmd *cobra.Command) error {
	if !o.all && len(o.faults) == 0 {
		return errors.New("either specify a fault or use --all")
	}

	c, err := o.load()
	if err != nil {
		return err
	}
	e, err := algorithm.NewEngine(c, logger, algorithm.Options{
		Prove:         o.prove,
		MaxCandidates: o.maxCandidates,
	})
	if err != nil {
		return err
	}
	if o.prove {
		e.Prover = prove.New(logger)
	}

	var faults []algorithm.Fault
	if o.all {
		faults = algorithm.EnumerateFaults(c)
	} else {
		for _, s := range o.faults {
			f, err := algorithm.ParseFault(s)
			if err != nil {
				return err
			}
			faults = append(faults, f)
		}
	}

	collector := metrics.NewCollector()
	report, err := algorithm.NewCampaign(e, o.workers, collector).Run(cmd.Context(), faults)
	if err != nil {
		return err
	}
	collector.ObserveReport(report)

	for _, r := range report.Results {
		if r.Outcome == algorithm.Detected {
			logger.Info("%s: %s (site %s)", r.Fault, algorithm.FormatVector(r.Vector), r.Site)
		} else {
			logger.Warning("%s", r.Err())
		}
	}

	var vectors []map[string]circuit.LogicValue
	if o.compact && report.Detected > 1 {
		logger.Info("Compacting test vectors")
		if vectors, err = algorithm.Compact(e.Search, report.Results); err != nil {
			return err
		}
	} else {
		for _, r := range report.Results {
			if r.Outcome == algorithm.Detected {
				vectors = append(vectors, r.Vector)
			}
		}
	}

	logger.Info("Writing %d test vectors to %s", len(vectors), o.output)
	if err := utils.WriteTestVectorsFile(o.output, e.Search.Names(e.Search.Inputs), vectors); err != nil {
		return err
	}
	if o.metricsFile != "" {
		if err := collector.WriteTextfile(o.metricsFile); err != nil {
			return err
		}
	}

	// Print summary
	logger.Info("ATPG complete")
	logger.Info("Circuit: %s", c.Name)
	logger.Info("Gates: %d", len(c.Gates))
	logger.Info("Wires: %d", len(c.Wires))
	logger.Info("Primary inputs: %d", len(c.Inputs))
	logger.Info("Primary outputs: %d", len(c.Outputs))
	logger.Info("Tests generated: %d", len(vectors))
	return nil
}
