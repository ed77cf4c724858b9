// executor.go is the process-spawning primitive: run one external command,
// capture stdout/stderr/exit code. A non-zero exit is data, not an error.
// When a bounded wait is configured the whole process group is killed on
// expiry so a hung tool cannot leave orphans behind.
package engine

import (
	"bytes"
	"context"
	"os/exec"
	"syscall"
	"time"

	"github.com/evmbench/evmbench/internal/tools"
)

// waitDelay bounds Wait() after the process group has been killed, so
// orphaned pipe holders cannot block collection forever.
const waitDelay = 5 * time.Second

// execute runs outcome.Args synchronously, filling ExitCode, Stdout, Stderr
// and TimedOut. Standard input is empty. Spawn failures (executable missing,
// not runnable) are recorded as exit code -1 with the error text on stderr.
func (r *Runner) execute(ctx context.Context, outcome *tools.Outcome) {
	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, outcome.Args[0], outcome.Args[1:]...)

	// New process group so the cancel function can kill all children.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = waitDelay

	// Stdin is left nil: tools are invoked with empty standard input.
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	outcome.Stdout = stdout.String()
	outcome.Stderr = stderr.String()

	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			outcome.ExitCode = -1
			outcome.TimedOut = true
			return
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			outcome.ExitCode = exitErr.ExitCode()
			return
		}
		// Spawn failure: no process output exists, degrade to outcome data.
		outcome.ExitCode = -1
		if outcome.Stderr == "" {
			outcome.Stderr = err.Error()
		}
		return
	}
	outcome.ExitCode = 0
}
