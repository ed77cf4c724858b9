// evmbench - EVM implementation benchmarking harness
//
// evmbench drives externally-installed EVM executables against a corpus of
// VM test vectors, captures each tool's reported execution time and, where
// the corpus declares expectations, the correctness of its output, and
// renders a comparison table.
//
// Subcommands:
//
//	evmbench run [flags] PATH          benchmark all registered tools against
//	                                   the corpus at PATH (file, directory,
//	                                   or http(s) URL)
//	evmbench tool list                 list registered tools
//	evmbench tool register NAME PATH [ARGS...]
//	                                   register or replace a tool
//	evmbench history [-n N]            show recent recorded runs
//	evmbench version                   print version information
//
// The tool registry lives in ~/.config/evmbench/config.yaml and run history
// in ~/.local/state/evmbench/history.db by default.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/evmbench/evmbench/internal/config"
	"github.com/evmbench/evmbench/internal/corpus"
	"github.com/evmbench/evmbench/internal/engine"
	"github.com/evmbench/evmbench/internal/history"
	"github.com/evmbench/evmbench/internal/logging"
	"github.com/evmbench/evmbench/internal/report"
	"github.com/evmbench/evmbench/internal/sysinfo"
	"github.com/evmbench/evmbench/internal/tools"
	"github.com/evmbench/evmbench/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = cmdRun(os.Args[2:])
	case "tool":
		err = cmdTool(os.Args[2:])
	case "history":
		err = cmdHistory(os.Args[2:])
	case "version":
		fmt.Println(version.Info())
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: evmbench <command> [flags]

Commands:
  run [flags] PATH                     benchmark registered tools against a corpus
  tool list                            list registered tools
  tool register NAME PATH [ARGS...]    register or replace a tool
  history [-n N]                       show recent recorded runs
  version                              print version information

Run 'evmbench run -h' for run flags.`)
}

// cmdRun loads the corpus, benchmarks every registered tool against it, and
// prints the comparison report. With -cron it repeats on the given schedule
// until interrupted, appending each run to history.
func cmdRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "path to the tool registry (default: per-user config)")
	historyPath := fs.String("history", "", "path to the run history database (default: per-user state)")
	noHistory := fs.Bool("no-history", false, "do not record this run in history")
	noHostInfo := fs.Bool("no-host-info", false, "skip the host snapshot above the report")
	timeout := fs.Duration("timeout", 0, "per-invocation timeout; 0 waits indefinitely")
	cronExpr := fs.String("cron", "", "re-run on this cron schedule (5-field) until interrupted")
	logLevel := fs.String("log-level", "warn", "log verbosity: debug, info, warn, error")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("run: expected exactly one corpus path, got %d", fs.NArg())
	}
	corpusPath := fs.Arg(0)

	logger := logging.SetupLogger(*logLevel)

	toolList, err := loadTools(*configPath)
	if err != nil {
		return err
	}
	if len(toolList) == 0 {
		return fmt.Errorf("no tools registered; use 'evmbench tool register' first")
	}

	set, err := corpus.Load(corpusPath)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}
	if set.Len() == 0 {
		return fmt.Errorf("corpus %s contains no tests", corpusPath)
	}
	logger.Info("corpus loaded",
		slog.String("path", corpusPath),
		slog.Int("tests", set.Len()),
	)

	var store *history.Store
	if !*noHistory {
		store = openHistory(*historyPath, logger)
		if store != nil {
			defer store.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	runner := engine.NewRunner(logger, *timeout)
	runOnce := func() {
		executeRun(ctx, runner, toolList, set, corpusPath, store, *noHostInfo, logger)
	}

	if *cronExpr == "" {
		runOnce()
		return nil
	}
	return runOnSchedule(ctx, *cronExpr, runOnce, logger)
}

// executeRun performs a single full pass: host snapshot, tool x test matrix,
// report, history record.
func executeRun(ctx context.Context, runner *engine.Runner, toolList []*tools.Tool,
	set *corpus.Set, corpusPath string, store *history.Store, noHostInfo bool, logger *slog.Logger) {

	startedAt := time.Now()

	var host *sysinfo.Snapshot
	if !noHostInfo {
		var err error
		host, err = sysinfo.Collect(ctx)
		if err != nil {
			logger.Warn("host snapshot unavailable", slog.String("error", err.Error()))
		} else {
			fmt.Printf("Host: %s\n\n", host.Summary())
		}
	}

	toolNames := make([]string, len(toolList))
	for i, t := range toolList {
		toolNames[i] = t.Name
	}

	outcomes := runner.RunAll(ctx, toolList, set)
	table := report.Summarize(set, toolNames, outcomes)
	report.Render(os.Stdout, table)

	if store == nil {
		return
	}
	run := &history.Run{
		StartedAt:  startedAt,
		CorpusPath: corpusPath,
		Host:       host,
		Tools:      table.Tools,
		Tests:      table.Tests,
		Cells:      renderedCells(table),
	}
	if err := store.Append(run); err != nil {
		logger.Warn("failed to record run in history", slog.String("error", err.Error()))
	}
}

func renderedCells(t *report.Table) [][]string {
	cells := make([][]string, len(t.Cells))
	for i, row := range t.Cells {
		cells[i] = make([]string, len(row))
		for j, c := range row {
			cells[i][j] = c.String()
		}
	}
	return cells
}

// runOnSchedule re-executes run on a 5-field cron schedule until the context
// is cancelled. The parser is used schedule-only; no background cron runner.
func runOnSchedule(ctx context.Context, expr string, run func(), logger *slog.Logger) error {
	parser := cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)
	schedule, err := parser.Parse(expr)
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}

	for {
		next := schedule.Next(time.Now())
		logger.Info("next scheduled run", slog.Time("at", next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info("schedule interrupted")
			return nil
		case <-timer.C:
			run()
		}
	}
}

// loadTools reads the registry and constructs the Tool list, resolving each
// tool's adapter from its executable base name.
func loadTools(configPath string) ([]*tools.Tool, error) {
	path, err := registryPath(configPath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	toolList := make([]*tools.Tool, 0, len(cfg.Tools))
	for _, entry := range cfg.Tools {
		tool, err := tools.New(entry.Name, entry.Path, entry.ExtraArgs())
		if err != nil {
			return nil, fmt.Errorf("tool %q: %w", entry.Name, err)
		}
		toolList = append(toolList, tool)
	}
	return toolList, nil
}

func registryPath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	return config.DefaultPath()
}

func openHistory(override string, logger *slog.Logger) *history.Store {
	path := override
	if path == "" {
		var err error
		path, err = history.DefaultPath()
		if err != nil {
			logger.Warn("history disabled", slog.String("error", err.Error()))
			return nil
		}
	}
	store, err := history.Open(path)
	if err != nil {
		logger.Warn("history disabled",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return store
}

// cmdTool manages the persisted tool registry.
func cmdTool(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("tool: expected 'list' or 'register'")
	}
	switch args[0] {
	case "list":
		return cmdToolList(args[1:])
	case "register":
		return cmdToolRegister(args[1:])
	default:
		return fmt.Errorf("tool: unknown subcommand %q", args[0])
	}
}

func cmdToolList(args []string) error {
	fs := flag.NewFlagSet("tool list", flag.ExitOnError)
	configPath := fs.String("config", "", "path to the tool registry")
	fs.Parse(args)

	path, err := registryPath(*configPath)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	for _, entry := range cfg.Tools {
		fmt.Printf("%-16s%s %s\n", entry.Name, entry.Path, entry.Args)
	}
	return nil
}

func cmdToolRegister(args []string) error {
	fs := flag.NewFlagSet("tool register", flag.ExitOnError)
	configPath := fs.String("config", "", "path to the tool registry")
	fs.Parse(args)

	rest := fs.Args()
	if len(rest) < 2 {
		return fmt.Errorf("tool register: expected NAME PATH [ARGS...]")
	}
	name, toolPath, extraArgs := rest[0], rest[1], rest[2:]

	// Resolve the adapter now so an unrecognized executable fails at
	// registration, not on first use.
	if _, err := tools.New(name, toolPath, extraArgs); err != nil {
		return err
	}

	path, err := registryPath(*configPath)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg.Register(name, toolPath, extraArgs)
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("registered %s -> %s\n", name, toolPath)
	return nil
}

// cmdHistory prints recent recorded runs, newest first.
func cmdHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	historyPath := fs.String("history", "", "path to the run history database")
	limit := fs.Int("n", 10, "number of runs to show")
	fs.Parse(args)

	path := *historyPath
	if path == "" {
		var err error
		path, err = history.DefaultPath()
		if err != nil {
			return err
		}
	}

	store, err := history.Open(path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	runs, err := store.Recent(*limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}

	for _, run := range runs {
		host := ""
		if run.Host != nil {
			host = " on " + run.Host.Hostname
		}
		fmt.Printf("#%d  %s  %s%s\n", run.ID,
			run.StartedAt.Format(time.RFC3339), run.CorpusPath, host)
		fmt.Printf("    tools: %s  tests: %d\n",
			strings.Join(run.Tools, ", "), len(run.Tests))
	}
	return nil
}
