package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/fyerfyer/podem-atpg/pkg/circuit"
	"github.com/fyerfyer/podem-atpg/pkg/utils"
)

// circuitOptions selects the netlist a command works on
type circuitOptions struct {
	path string
}

func (o *circuitOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.path, "circuit", "c", "", "circuit in BENCH format, or YAML graph records (.yaml, .yml)")
}

// load reads and levelizes the circuit
func (o *circuitOptions) load() (*circuit.Circuit, error) {
	if o.path == "" {
		return nil, errors.New("--circuit is required")
	}
	logger.Info("Parsing circuit from %s", o.path)

	var c *circuit.Circuit
	var err error
	switch strings.ToLower(filepath.Ext(o.path)) {
	case ".yaml", ".yml":
		c, err = readRecordsFile(o.path)
	default:
		c, err = utils.ParseBenchFile(o.path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", o.path)
	}
	if err := c.Levelize(); err != nil {
		return nil, err
	}
	logger.Circuit("%s", c)
	return c, nil
}

func readRecordsFile(path string) (*circuit.Circuit, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return utils.ReadRecords(file)
}
