// Package corpus loads VM benchmark test vectors from disk (or a remote URL)
// and merges them into a single uniquely-named, order-preserving test set.
//
// Two on-disk formats are supported, dispatched by file extension:
//   - .json: the execution-trace format used by VM test suites, parsed with
//     member order preserved so the corpus iterates in file order
//   - .yaml/.yml: a human-authored format carrying the same shapes
//
// Each test definition is either the execution-trace shape (an "exec" key
// with hex-encoded fields) or the flat shape (verbatim code/input/gas plus an
// optional "expected" block). See the parsing functions in loader.go.
package corpus

// Test is one benchmark case: the code to execute, its call data, a gas
// budget, and optional assertions on the result. Tests are built once at load
// time and never mutated afterwards.
type Test struct {
	// Code is the payload to execute, normalized with no format prefix.
	Code string

	// Input is the call data, possibly empty.
	Input string

	// Gas is the gas budget. Nil when the source format did not specify one.
	Gas *uint64

	// Expected carries the assertions for this test, nil when the source
	// format declared none.
	Expected *ExpectedResult
}

// ExpectedResult describes the assertions attached to a test vector.
// A nil field means "not checked".
type ExpectedResult struct {
	Output    *string
	GasUsed   *uint64
	Exception *bool
}

// ActualResult is what a tool adapter extracted from the tool's raw output.
// A nil field means the tool did not report that value.
type ActualResult struct {
	Output    *string
	GasUsed   *uint64
	Exception *bool
}

// Matches reports whether an actual result satisfies this expectation.
// Comparison is field-wise: a field that is nil on either side never blocks
// equality, so an all-nil expectation matches any actual result. A nil
// receiver means no assertions were configured and also matches anything.
func (e *ExpectedResult) Matches(a *ActualResult) bool {
	if e == nil {
		return true
	}
	if a == nil {
		a = &ActualResult{}
	}
	if e.Output != nil && a.Output != nil && *e.Output != *a.Output {
		return false
	}
	if e.GasUsed != nil && a.GasUsed != nil && *e.GasUsed != *a.GasUsed {
		return false
	}
	if e.Exception != nil && a.Exception != nil && *e.Exception != *a.Exception {
		return false
	}
	return true
}
