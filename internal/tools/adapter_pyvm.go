// adapter_pyvm.go adapts the python VM's bench subcommand: positional
// arguments and a YAML document on stdout.
package tools

import (
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/evmbench/evmbench/internal/corpus"
)

// DefaultGasOverhead compensates for the outer transaction gas pyvm charges
// on top of the VM execution itself. The declared test budget covers only VM
// execution, so the overhead is added to every invocation.
const DefaultGasOverhead = 50000

// PyVMAdapter drives a "pyvm" executable.
type PyVMAdapter struct {
	// GasOverhead is added to every test's gas budget; it tracks the tool's
	// transaction-overhead accounting and may change between tool versions.
	GasOverhead uint64
}

func (a *PyVMAdapter) BuildArgs(t *corpus.Test) []string {
	gas := a.GasOverhead
	if t.Gas != nil {
		gas += *t.Gas
	}
	return []string{"bench", t.Code, t.Input, strconv.FormatUint(gas, 10)}
}

func (a *PyVMAdapter) ParseOutput(o *Outcome) error {
	var doc struct {
		ExecTime  *float64 `yaml:"exec time"`
		Exception *bool    `yaml:"exception"`
		GasUsed   *uint64  `yaml:"gas used"`
		Output    *string  `yaml:"output"`
	}
	if err := yaml.Unmarshal([]byte(o.Stdout), &doc); err != nil {
		return &ParseError{Reason: "invalid YAML output", Output: o.Stdout}
	}

	o.Elapsed = doc.ExecTime
	o.Actual.GasUsed = doc.GasUsed
	o.Actual.Output = doc.Output
	exception := doc.Exception != nil && *doc.Exception
	o.Actual.Exception = &exception
	return nil
}
