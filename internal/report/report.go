// Package report assembles per-tool, per-test outcomes into a rectangular
// comparison table plus a warnings log.
//
// The full tests-by-tools matrix is allocated up front with the "No timing"
// sentinel, then filled cell by cell, so a partially-collected run still
// renders rectangular. Warnings (non-zero exits, parse failures) are kept
// out of the table and surfaced after it.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/evmbench/evmbench/internal/corpus"
	"github.com/evmbench/evmbench/internal/tools"
)

// CellKind classifies one report cell.
type CellKind int

const (
	// CellNoTiming means the run produced no parseable timing and no other
	// evidence of failure. Zero value on purpose: a never-filled cell
	// renders as "No timing".
	CellNoTiming CellKind = iota

	// CellMillis is a successfully parsed timing, held in milliseconds.
	CellMillis

	// CellFailure means the actual result did not satisfy the test's
	// expected result.
	CellFailure

	// CellError means the tool exited non-zero or wrote to stderr.
	CellError

	// CellTimeout means the bounded wait expired before the tool finished.
	CellTimeout
)

// Cell is one report table entry: either a millisecond timing or a sentinel.
type Cell struct {
	Kind   CellKind
	Millis float64
}

// String renders the cell for display: a 3-decimal millisecond value or one
// of the sentinel strings.
func (c Cell) String() string {
	switch c.Kind {
	case CellMillis:
		return strconv.FormatFloat(c.Millis, 'f', 3, 64)
	case CellFailure:
		return "Failure"
	case CellError:
		return "Error"
	case CellTimeout:
		return "Timeout"
	default:
		return "No timing"
	}
}

// Warning is one post-table diagnostic entry, carrying the exact command
// line that produced the problem.
type Warning struct {
	Tool   string
	Test   string
	Args   []string
	Detail string
}

// Table is the rectangular comparison report: first axis test name, second
// axis tool name.
type Table struct {
	Tests    []string
	Tools    []string
	Cells    [][]Cell // Cells[testIndex][toolIndex]
	Warnings []Warning
}

// Summarize builds the report table from collected outcomes. toolNames fixes
// the column order; outcomes are matched to tests positionally, in corpus
// order, exactly as the engine produced them. Tools with missing outcomes
// leave their cells at the "No timing" sentinel.
func Summarize(set *corpus.Set, toolNames []string, outcomes map[string][]*tools.Outcome) *Table {
	testNames := set.Names()
	t := &Table{Tests: testNames, Tools: toolNames}

	t.Cells = make([][]Cell, len(testNames))
	for i := range t.Cells {
		t.Cells[i] = make([]Cell, len(toolNames))
	}

	for col, toolName := range toolNames {
		outs := outcomes[toolName]
		for row, testName := range testNames {
			if row >= len(outs) {
				break
			}
			o := outs[row]
			t.Cells[row][col] = classify(set.Get(testName), o)
			t.appendWarnings(toolName, testName, o)
		}
	}
	return t
}

// classify picks the cell value for a single outcome. Precedence: expected
// mismatch beats a parsed timing, a parsed timing beats process failure
// evidence, and "No timing" is the fallback.
func classify(test *corpus.Test, o *tools.Outcome) Cell {
	if test.Expected != nil && !test.Expected.Matches(&o.Actual) {
		return Cell{Kind: CellFailure}
	}
	if o.Elapsed != nil {
		return Cell{Kind: CellMillis, Millis: *o.Elapsed * 1000}
	}
	if o.TimedOut {
		return Cell{Kind: CellTimeout}
	}
	if o.ExitCode != 0 || o.Stderr != "" {
		return Cell{Kind: CellError}
	}
	return Cell{Kind: CellNoTiming}
}

func (t *Table) appendWarnings(toolName, testName string, o *tools.Outcome) {
	if o.ExitCode != 0 {
		detail := fmt.Sprintf("exit code %d", o.ExitCode)
		if s := strings.TrimSpace(o.Stderr); s != "" {
			detail += ": " + s
		}
		t.Warnings = append(t.Warnings, Warning{
			Tool: toolName, Test: testName, Args: o.Args, Detail: detail,
		})
	}
	if o.ParseErr != nil {
		t.Warnings = append(t.Warnings, Warning{
			Tool: toolName, Test: testName, Args: o.Args,
			Detail: "output parse: " + o.ParseErr.Error(),
		})
	}
}
