// loader.go discovers test definition files, dispatches them to a format
// parser by extension, and converts raw definitions into Test records.
// Malformed files abort the whole load: a corrupt corpus is a fatal error,
// not something to paper over per file.
package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// skipPrefix marks known-bad oversized fixtures that contribute zero tests.
const skipPrefix = "vmInputLimits"

// UnsupportedFormatError is returned when a test file has an extension no
// parser is registered for.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported test file format: %q", e.Ext)
}

// Load reads test definitions from path and returns them as a Set keyed by
// "<file>@<localName>", where <file> is the definition file's path relative
// to the corpus root. If path is a directory every file under it is visited
// recursively; otherwise path is loaded as a single file and <file> is its
// base name. Paths beginning with http:// or https:// are fetched remotely.
func Load(path string) (*Set, error) {
	if isRemote(path) {
		return loadRemote(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat corpus path: %w", err)
	}

	set := NewSet()
	if !info.IsDir() {
		if err := loadFileInto(set, path, filepath.Base(path)); err != nil {
			return nil, err
		}
		return set, nil
	}

	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		// Prefix with the path relative to the corpus root: base names
		// alone would collide for same-named files in different
		// subdirectories and silently drop tests.
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		return loadFileInto(set, p, filepath.ToSlash(rel))
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

func loadFileInto(set *Set, path, name string) error {
	base := filepath.Base(path)
	if strings.HasPrefix(base, skipPrefix) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read test file: %w", err)
	}
	return parseInto(set, name, filepath.Ext(base), data)
}

// parseInto parses one file's content and inserts its tests into set, with
// every local name prefixed by the file's corpus-relative path for global
// uniqueness across files.
func parseInto(set *Set, file, ext string, data []byte) error {
	var (
		defs []definition
		err  error
	)
	switch ext {
	case ".json":
		defs, err = decodeJSONDefinitions(data)
	case ".yaml", ".yml":
		defs, err = decodeYAMLDefinitions(data)
	default:
		return &UnsupportedFormatError{Ext: ext}
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", file, err)
	}

	for _, d := range defs {
		t, err := d.raw.toTest()
		if err != nil {
			return fmt.Errorf("test %q in %s: %w", d.name, file, err)
		}
		set.Add(file+"@"+d.name, t)
	}
	return nil
}

// definition is one named raw test definition in source-file order.
type definition struct {
	name string
	raw  rawTest
}

// rawTest covers both supported definition shapes. The execution-trace shape
// has an Exec section with hex-encoded fields; the flat shape carries
// code/input/gas verbatim plus an optional Expected block.
type rawTest struct {
	Exec     *rawExec     `json:"exec" yaml:"exec"`
	Gas      literal      `json:"gas" yaml:"gas"`
	Out      string       `json:"out" yaml:"out"`
	Code     string       `json:"code" yaml:"code"`
	Input    string       `json:"input" yaml:"input"`
	Expected *rawExpected `json:"expected" yaml:"expected"`
}

type rawExec struct {
	Code string `json:"code" yaml:"code"`
	Data string `json:"data" yaml:"data"`
	Gas  string `json:"gas" yaml:"gas"`
}

type rawExpected struct {
	Output    *string `json:"output" yaml:"output"`
	GasUsed   *uint64 `json:"gas used" yaml:"gas used"`
	Exception *bool   `json:"exception" yaml:"exception"`
}

// toTest converts a raw definition into an immutable Test record.
func (r *rawTest) toTest() (*Test, error) {
	if r.Exec != nil {
		return r.toExecTest()
	}
	return r.toFlatTest()
}

// toExecTest handles the execution-trace shape. A top-level gas field holds
// the gas remaining after a successful run; its absence means the test
// expects an exception.
func (r *rawTest) toExecTest() (*Test, error) {
	code, err := stripHexPrefix(r.Exec.Code)
	if err != nil {
		return nil, fmt.Errorf("exec code: %w", err)
	}
	data, err := stripHexPrefix(r.Exec.Data)
	if err != nil {
		return nil, fmt.Errorf("exec data: %w", err)
	}
	initial, err := parseHexUint(r.Exec.Gas)
	if err != nil {
		return nil, fmt.Errorf("exec gas: %w", err)
	}

	t := &Test{Code: code, Input: data, Gas: &initial}
	exp := &ExpectedResult{}

	if !r.Gas.set {
		exc := true
		exp.Exception = &exc
		t.Expected = exp
		return t, nil
	}

	remaining, err := parseHexUint(r.Gas.value)
	if err != nil {
		return nil, fmt.Errorf("remaining gas: %w", err)
	}
	if remaining > initial {
		return nil, fmt.Errorf("remaining gas %d exceeds initial gas %d", remaining, initial)
	}
	used := initial - remaining
	exc := false
	exp.GasUsed = &used
	exp.Exception = &exc
	if r.Out != "" {
		out, err := stripHexPrefix(r.Out)
		if err != nil {
			return nil, fmt.Errorf("out: %w", err)
		}
		exp.Output = &out
	}
	t.Expected = exp
	return t, nil
}

// toFlatTest handles the flat shape: fields are used as-is, and an absent
// expected.exception defaults to false. This defaulting deliberately differs
// from the execution-trace shape, matching the source formats.
func (r *rawTest) toFlatTest() (*Test, error) {
	t := &Test{Code: r.Code, Input: r.Input}
	if r.Gas.set {
		g, err := strconv.ParseUint(r.Gas.value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("gas: %w", err)
		}
		t.Gas = &g
	}
	if r.Expected != nil {
		exc := false
		if r.Expected.Exception != nil {
			exc = *r.Expected.Exception
		}
		t.Expected = &ExpectedResult{
			Output:    r.Expected.Output,
			GasUsed:   r.Expected.GasUsed,
			Exception: &exc,
		}
	}
	return t, nil
}

// stripHexPrefix removes the mandatory "0x" prefix from a hex field.
func stripHexPrefix(s string) (string, error) {
	rest, ok := strings.CutPrefix(s, "0x")
	if !ok {
		return "", fmt.Errorf("missing 0x prefix in %q", s)
	}
	return rest, nil
}

// parseHexUint parses a hex-encoded gas string, with or without 0x prefix.
func parseHexUint(s string) (uint64, error) {
	trimmed := strings.TrimPrefix(s, "0x")
	v, err := strconv.ParseUint(trimmed, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hex integer %q", s)
	}
	return v, nil
}
