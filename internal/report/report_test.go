// report_test.go covers cell value precedence, the warnings log, and the
// rectangular-table guarantee.
package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evmbench/evmbench/internal/corpus"
	"github.com/evmbench/evmbench/internal/tools"
)

func f64p(v float64) *float64 { return &v }
func boolp(b bool) *bool      { return &b }

func setOf(t *testing.T, names []string, tests []*corpus.Test) *corpus.Set {
	t.Helper()
	require.Equal(t, len(names), len(tests))
	set := corpus.NewSet()
	for i, name := range names {
		set.Add(name, tests[i])
	}
	return set
}

func TestSummarizeTimingCell(t *testing.T) {
	set := setOf(t, []string{"f.json@t"}, []*corpus.Test{{Code: "6001"}})
	outcomes := map[string][]*tools.Outcome{
		"geth": {{Elapsed: f64p(0.001234)}},
	}

	table := Summarize(set, []string{"geth"}, outcomes)
	assert.Equal(t, "1.234", table.Cells[0][0].String())
	assert.Empty(t, table.Warnings)
}

func TestSummarizeTimingFormatting(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0.001234, "1.234"},
		{0.0005, "0.500"},
		{1.5, "1500.000"},
		{0.0000016, "0.002"},
	}
	for _, tt := range tests {
		c := Cell{Kind: CellMillis, Millis: tt.seconds * 1000}
		assert.Equal(t, tt.want, c.String())
	}
}

func TestSummarizeNoTimingWithWarning(t *testing.T) {
	set := setOf(t, []string{"f.json@t"}, []*corpus.Test{{Code: "6001"}})
	outcomes := map[string][]*tools.Outcome{
		"geth": {{
			Args:     []string{"/usr/bin/evm", "--code", "6001"},
			ExitCode: 0,
			ParseErr: &tools.ParseError{Reason: "no timing found in output", Output: "hello"},
		}},
	}

	table := Summarize(set, []string{"geth"}, outcomes)
	assert.Equal(t, "No timing", table.Cells[0][0].String())

	require.Len(t, table.Warnings, 1)
	w := table.Warnings[0]
	assert.Equal(t, "geth", w.Tool)
	assert.Equal(t, "f.json@t", w.Test)
	assert.Equal(t, []string{"/usr/bin/evm", "--code", "6001"}, w.Args)
	assert.Contains(t, w.Detail, "no timing found")
}

func TestSummarizeErrorCell(t *testing.T) {
	set := setOf(t, []string{"f.json@t"}, []*corpus.Test{{Code: "6001"}})
	outcomes := map[string][]*tools.Outcome{
		"geth": {{
			Args:     []string{"/usr/bin/evm"},
			ExitCode: 1,
			Stderr:   "panic: bad opcode",
		}},
	}

	table := Summarize(set, []string{"geth"}, outcomes)
	assert.Equal(t, "Error", table.Cells[0][0].String())

	require.Len(t, table.Warnings, 1)
	assert.Contains(t, table.Warnings[0].Detail, "exit code 1")
	assert.Contains(t, table.Warnings[0].Detail, "panic: bad opcode")
}

func TestSummarizeFailureBeatsTiming(t *testing.T) {
	// Expected an exception, tool reported none: Failure even though the
	// timing parsed successfully.
	test := &corpus.Test{
		Code:     "6001",
		Expected: &corpus.ExpectedResult{Exception: boolp(true)},
	}
	set := setOf(t, []string{"f.json@t"}, []*corpus.Test{test})
	outcomes := map[string][]*tools.Outcome{
		"geth": {{
			Elapsed: f64p(0.001),
			Actual:  corpus.ActualResult{Exception: boolp(false)},
		}},
	}

	table := Summarize(set, []string{"geth"}, outcomes)
	assert.Equal(t, "Failure", table.Cells[0][0].String())
}

func TestSummarizeTimeoutCell(t *testing.T) {
	set := setOf(t, []string{"f.json@t"}, []*corpus.Test{{Code: "6001"}})
	outcomes := map[string][]*tools.Outcome{
		"geth": {{ExitCode: -1, TimedOut: true}},
	}

	table := Summarize(set, []string{"geth"}, outcomes)
	assert.Equal(t, "Timeout", table.Cells[0][0].String())
}

func TestSummarizeStaysRectangular(t *testing.T) {
	set := setOf(t,
		[]string{"f.json@a", "f.json@b"},
		[]*corpus.Test{{Code: "01"}, {Code: "02"}})

	// One tool produced no outcomes at all, the other only one of two.
	outcomes := map[string][]*tools.Outcome{
		"partial": {{Elapsed: f64p(0.002)}},
	}

	table := Summarize(set, []string{"partial", "silent"}, outcomes)
	require.Len(t, table.Cells, 2)
	for _, row := range table.Cells {
		require.Len(t, row, 2)
	}
	assert.Equal(t, "2.000", table.Cells[0][0].String())
	assert.Equal(t, "No timing", table.Cells[1][0].String())
	assert.Equal(t, "No timing", table.Cells[0][1].String())
	assert.Equal(t, "No timing", table.Cells[1][1].String())
}

func TestRenderIncludesTableAndWarnings(t *testing.T) {
	set := setOf(t, []string{"f.json@t"}, []*corpus.Test{{Code: "6001"}})
	outcomes := map[string][]*tools.Outcome{
		"geth": {{
			Args:     []string{"/usr/bin/evm", "--code", "6001"},
			ExitCode: 2,
			Stderr:   "bad flag",
		}},
	}
	table := Summarize(set, []string{"geth"}, outcomes)

	var buf bytes.Buffer
	Render(&buf, table)
	out := buf.String()

	assert.Contains(t, out, "geth")
	assert.Contains(t, out, "f.json@t")
	assert.Contains(t, out, "Error")
	assert.Contains(t, out, "Warnings:")
	assert.Contains(t, out, "/usr/bin/evm --code 6001")
	// Warnings live below the table, never inline.
	assert.Greater(t, strings.Index(out, "Warnings:"), strings.Index(out, "Error"))
}
