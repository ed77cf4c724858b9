// Package tools registers external VM executables and normalizes their
// heterogeneous command-line interfaces and output formats into comparable
// results.
//
// Every supported tool kind is represented by an Adapter that knows how to
// build the tool's argument vector from a test and how to interpret the
// tool's raw output. The adapter is resolved once, from the executable's base
// name, when the Tool is constructed; it is derived state and is never
// persisted with the tool registry.
package tools

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/evmbench/evmbench/internal/corpus"
)

// Adapter translates between a test vector and one tool kind's CLI contract.
type Adapter interface {
	// BuildArgs constructs the tool-specific argument vector for a test,
	// not including the executable path or the tool's fixed extra args.
	BuildArgs(t *corpus.Test) []string

	// ParseOutput interprets the raw process output in o, filling o.Elapsed
	// and o.Actual. A returned error means the output was uninterpretable;
	// the caller records it on the outcome instead of aborting the run.
	ParseOutput(o *Outcome) error
}

// Outcome records one (tool, test) invocation: the exact command line, the
// raw process output, and whatever the adapter managed to extract from it.
type Outcome struct {
	// Args is the exact argument vector invoked, executable path first.
	Args []string

	ExitCode int
	Stdout   string
	Stderr   string

	// TimedOut is set when a bounded wait was configured and expired.
	TimedOut bool

	// Elapsed is the tool-reported execution time in seconds, nil when the
	// output contained no parseable timing.
	Elapsed *float64

	// Actual holds the fields the adapter extracted from the output.
	Actual corpus.ActualResult

	// ParseErr is the error raised by the adapter, nil on success.
	ParseErr error
}

// ParseError reports tool output that an adapter could not interpret. It
// carries the full raw output for the post-report warnings section.
type ParseError struct {
	Reason string
	Output string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %q", e.Reason, e.Output)
}

// UnknownToolError is returned when an executable's base name matches no
// registered adapter kind.
type UnknownToolError struct {
	Base string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool kind %q (known kinds: %s)", e.Base, strings.Join(knownKinds(), ", "))
}

// adapterFactories is the closed set of known tool kinds, keyed by executable
// base name. Supporting a new tool means adding one entry here plus its
// Adapter implementation; nothing else dispatches on kind.
var adapterFactories = map[string]func() Adapter{
	"evm":   func() Adapter { return &EVMAdapter{} },
	"pyvm":  func() Adapter { return &PyVMAdapter{GasOverhead: DefaultGasOverhead} },
	"rawvm": func() Adapter { return &RawAdapter{} },
}

func knownKinds() []string {
	kinds := make([]string, 0, len(adapterFactories))
	for k := range adapterFactories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// ResolveAdapter selects the adapter for an executable path by its base
// name, ignoring any file extension.
func ResolveAdapter(path string) (Adapter, error) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	factory, ok := adapterFactories[base]
	if !ok {
		return nil, &UnknownToolError{Base: base}
	}
	return factory(), nil
}

// Tool is a registered external executable with its fixed extra arguments
// and the adapter bound to its kind.
type Tool struct {
	// Name is the unique display key within a registry.
	Name string

	// Path is the filesystem path of the executable to invoke.
	Path string

	// ExtraArgs are fixed arguments prepended to every invocation.
	ExtraArgs []string

	adapter Adapter
}

// New constructs a Tool, resolving its adapter from the executable base
// name. It fails with UnknownToolError for unrecognized executables.
func New(name, path string, extraArgs []string) (*Tool, error) {
	adapter, err := ResolveAdapter(path)
	if err != nil {
		return nil, err
	}
	return &Tool{Name: name, Path: path, ExtraArgs: extraArgs, adapter: adapter}, nil
}

// Adapter returns the adapter bound at construction time.
func (t *Tool) Adapter() Adapter {
	return t.adapter
}

// Command builds the full argument vector for running test:
// the executable path, the fixed extra args, then the adapter-built args.
func (t *Tool) Command(test *corpus.Test) []string {
	args := make([]string, 0, 1+len(t.ExtraArgs)+8)
	args = append(args, t.Path)
	args = append(args, t.ExtraArgs...)
	args = append(args, t.adapter.BuildArgs(test)...)
	return args
}
