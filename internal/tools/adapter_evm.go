// adapter_evm.go adapts the go-ethereum style "evm" tool: flag-based
// arguments and plain-text output with an embedded timing string.
package tools

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/evmbench/evmbench/internal/corpus"
)

// timingPattern matches the tool's "vm took 1.234ms" style report. The unit
// suffix is empty for seconds, "m" for milliseconds, "µ" for microseconds.
var timingPattern = regexp.MustCompile(`vm took (\d+(?:\.\d+)?)([mµ]?)s`)

// outputPattern matches the optional hex result the tool prints on success.
var outputPattern = regexp.MustCompile(`OUT: 0x([0-9a-fA-F]*)`)

// EVMAdapter drives an "evm" executable.
type EVMAdapter struct{}

func (a *EVMAdapter) BuildArgs(t *corpus.Test) []string {
	args := []string{"--sysstat", "--code", t.Code, "--input", t.Input}
	if t.Gas != nil {
		args = append(args, "--gas", strconv.FormatUint(*t.Gas, 10))
	}
	return args
}

func (a *EVMAdapter) ParseOutput(o *Outcome) error {
	m := timingPattern.FindStringSubmatch(o.Stdout)
	if m == nil {
		return &ParseError{Reason: "no timing found in output", Output: o.Stdout}
	}

	elapsed, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return &ParseError{Reason: "invalid timing value", Output: o.Stdout}
	}
	switch m[2] {
	case "m":
		elapsed /= 1e3
	case "µ":
		elapsed /= 1e6
	}
	o.Elapsed = &elapsed

	if om := outputPattern.FindStringSubmatch(o.Stdout); om != nil {
		out := om[1]
		o.Actual.Output = &out
	}
	exception := strings.Contains(o.Stdout, "error: ")
	o.Actual.Exception = &exception
	return nil
}
