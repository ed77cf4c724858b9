// adapter_raw.go adapts minimal tools that print nothing but a bare
// floating-point number of seconds on stdout.
package tools

import (
	"strconv"
	"strings"

	"github.com/evmbench/evmbench/internal/corpus"
)

// RawAdapter drives a "rawvm" executable.
type RawAdapter struct{}

func (a *RawAdapter) BuildArgs(t *corpus.Test) []string {
	var gas uint64
	if t.Gas != nil {
		gas = *t.Gas
	}
	return []string{t.Code, t.Input, strconv.FormatUint(gas, 10)}
}

func (a *RawAdapter) ParseOutput(o *Outcome) error {
	trimmed := strings.TrimSpace(o.Stdout)
	elapsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return &ParseError{Reason: "output is not a number", Output: o.Stdout}
	}
	o.Elapsed = &elapsed
	return nil
}
