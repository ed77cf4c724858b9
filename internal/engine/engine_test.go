// engine_test.go exercises the runner against stub tool executables.
// Stubs are shell scripts named after a known tool kind so the adapter
// registry resolves them like the real thing.
package engine

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/evmbench/evmbench/internal/corpus"
	"github.com/evmbench/evmbench/internal/tools"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// writeStub creates an executable shell script named like a known tool kind.
func writeStub(t *testing.T, name, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func singleTestSet(t *testing.T) *corpus.Set {
	t.Helper()
	set := corpus.NewSet()
	gas := uint64(10000)
	set.Add("stub.json@one", &corpus.Test{Code: "6001", Input: "", Gas: &gas})
	return set
}

func TestRunAllParsesTiming(t *testing.T) {
	path := writeStub(t, "evm", `echo "vm took 1.234ms"`)
	tool, err := tools.New("evm-stub", path, nil)
	if err != nil {
		t.Fatalf("new tool: %v", err)
	}

	runner := NewRunner(testLogger(), 0)
	results := runner.RunAll(context.Background(), []*tools.Tool{tool}, singleTestSet(t))

	outcomes := results["evm-stub"]
	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	o := outcomes[0]
	if o.ExitCode != 0 {
		t.Errorf("expected exit 0, got %d (stderr: %s)", o.ExitCode, o.Stderr)
	}
	if o.Elapsed == nil {
		t.Fatal("expected parsed timing")
	}
	if *o.Elapsed != 0.001234 {
		t.Errorf("expected 0.001234s, got %v", *o.Elapsed)
	}
	if o.Args[0] != path {
		t.Errorf("expected argv[0] = %s, got %s", path, o.Args[0])
	}
}

func TestRunAllRecordsNonZeroExit(t *testing.T) {
	path := writeStub(t, "evm", `echo "boom" >&2; exit 3`)
	tool, err := tools.New("broken", path, nil)
	if err != nil {
		t.Fatalf("new tool: %v", err)
	}

	runner := NewRunner(testLogger(), 0)
	results := runner.RunAll(context.Background(), []*tools.Tool{tool}, singleTestSet(t))

	o := results["broken"][0]
	if o.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", o.ExitCode)
	}
	if o.Stderr == "" {
		t.Error("expected captured stderr")
	}
	// Non-zero exit is data, and unparseable output is confined to the
	// outcome; neither aborts the run.
	if o.ParseErr == nil {
		t.Error("expected parse error for timing-less output")
	}
}

func TestRunAllIsolatesParseFailures(t *testing.T) {
	path := writeStub(t, "evm", `echo "no timing here"`)
	tool, err := tools.New("quiet", path, nil)
	if err != nil {
		t.Fatalf("new tool: %v", err)
	}

	set := corpus.NewSet()
	set.Add("a.json@first", &corpus.Test{Code: "6001"})
	set.Add("a.json@second", &corpus.Test{Code: "6002"})

	runner := NewRunner(testLogger(), 0)
	results := runner.RunAll(context.Background(), []*tools.Tool{tool}, set)

	outcomes := results["quiet"]
	if len(outcomes) != 2 {
		t.Fatalf("expected both tests to run, got %d outcomes", len(outcomes))
	}
	for i, o := range outcomes {
		if o.ParseErr == nil {
			t.Errorf("outcome %d: expected parse error", i)
		}
		if o.Elapsed != nil {
			t.Errorf("outcome %d: expected nil elapsed", i)
		}
	}
}

func TestRunAllSpawnFailure(t *testing.T) {
	tool, err := tools.New("missing", filepath.Join(t.TempDir(), "evm"), nil)
	if err != nil {
		t.Fatalf("new tool: %v", err)
	}

	runner := NewRunner(testLogger(), 0)
	results := runner.RunAll(context.Background(), []*tools.Tool{tool}, singleTestSet(t))

	o := results["missing"][0]
	if o.ExitCode != -1 {
		t.Errorf("expected exit code -1 for spawn failure, got %d", o.ExitCode)
	}
	if o.Stderr == "" {
		t.Error("expected spawn error recorded on stderr")
	}
}

func TestRunAllBoundedWait(t *testing.T) {
	path := writeStub(t, "evm", `sleep 10; echo "vm took 1ms"`)
	tool, err := tools.New("hung", path, nil)
	if err != nil {
		t.Fatalf("new tool: %v", err)
	}

	runner := NewRunner(testLogger(), 200*time.Millisecond)
	start := time.Now()
	results := runner.RunAll(context.Background(), []*tools.Tool{tool}, singleTestSet(t))

	o := results["hung"][0]
	if !o.TimedOut {
		t.Fatal("expected timed-out outcome")
	}
	if o.Elapsed != nil {
		t.Error("expected nil elapsed after timeout")
	}
	if elapsed := time.Since(start); elapsed > 8*time.Second {
		t.Errorf("timeout did not bound the wait: took %v", elapsed)
	}
}

func TestRunAllKeepsCorpusOrder(t *testing.T) {
	path := writeStub(t, "evm", `echo "vm took 1ms"`)
	tool, err := tools.New("evm-stub", path, nil)
	if err != nil {
		t.Fatalf("new tool: %v", err)
	}

	set := corpus.NewSet()
	g1, g2 := uint64(111), uint64(222)
	set.Add("z.json@zeta", &corpus.Test{Code: "6001", Gas: &g1})
	set.Add("a.json@alpha", &corpus.Test{Code: "6002", Gas: &g2})

	runner := NewRunner(testLogger(), 0)
	results := runner.RunAll(context.Background(), []*tools.Tool{tool}, set)

	outcomes := results["evm-stub"]
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	// Outcomes are positional, matching corpus insertion order.
	if outcomes[0].Args[len(outcomes[0].Args)-1] != "111" {
		t.Errorf("first outcome should be zeta (gas 111): %v", outcomes[0].Args)
	}
	if outcomes[1].Args[len(outcomes[1].Args)-1] != "222" {
		t.Errorf("second outcome should be alpha (gas 222): %v", outcomes[1].Args)
	}
}
