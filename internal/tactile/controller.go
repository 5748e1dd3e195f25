package tactile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strconv"
	"strings"

	"entrybot/internal/config"
	"entrybot/internal/logging"
)

// LaunchError reports that the editor could not be started.
// NotFound distinguishes a missing executable from other OS errors.
type LaunchError struct {
	Executable string
	NotFound   bool
	Err        error
}

func (e *LaunchError) Error() string {
	if e.NotFound {
		return fmt.Sprintf("%s executable not found. Is it installed or on PATH?", e.Executable)
	}
	return fmt.Sprintf("launch %s: %v", e.Executable, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Process is a launched editor instance.
type Process interface {
	PID() int
	Alive() bool
}

// Handle tracks a child started by Launch. A reaper goroutine waits on the child,
// so Alive turns false as soon as it exits or is killed.
type Handle struct {
	pid  int
	done chan struct{}
}

// PID returns the process id.
func (h *Handle) PID() int { return h.pid }

// Alive reports whether the child has not exited yet.
func (h *Handle) Alive() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// KillAttempt records one termination command.
type KillAttempt struct {
	Command  string
	ExitCode int
	Err      error

	// Output is what the helper printed, e.g. taskkill's "process not found".
	Output string
}

// CleanupResult is what a termination sweep did. Its errors are informational:
// killing is best-effort and the common case, no running instance, also shows up
// as a non-zero exit from the kill helper.
type CleanupResult struct {
	Attempts []KillAttempt
}

// Killed counts attempts whose helper reported success.
func (r CleanupResult) Killed() int {
	n := 0
	for _, a := range r.Attempts {
		if a.Err == nil && a.ExitCode == 0 {
			n++
		}
	}
	return n
}

// Errors returns the infrastructure errors met during the sweep.
func (r CleanupResult) Errors() []error {
	var errs []error
	for _, a := range r.Attempts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errs
}

// Controller launches and terminates the target editor.
type Controller struct {
	executable  string
	args        []string
	imageNames  []string
	killTimeout int64
	executor    Executor
}

// NewController creates a Controller for the editor described by cfg.
// A nil executor uses a DirectExecutor.
func NewController(cfg *config.Config, executor Executor) *Controller {
	if executor == nil {
		executor = NewDirectExecutor()
	}
	return &Controller{
		executable:  cfg.Editor.Executable,
		args:        append([]string(nil), cfg.Editor.Args...),
		imageNames:  append([]string(nil), cfg.Editor.ImageNames...),
		killTimeout: cfg.GetKillTimeout().Milliseconds(),
		executor:    executor,
	}
}

// Launch starts the editor detached from the console, with all standard streams
// bound to the null device.
func (c *Controller) Launch(ctx context.Context) (Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LaunchError{Executable: c.executable, Err: err}
	}

	cmd := exec.Command(c.executable, c.args...)
	setupDetached(cmd)

	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{
			Executable: c.executable,
			NotFound:   errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist),
			Err:        err,
		}
	}

	h := &Handle{pid: cmd.Process.Pid, done: make(chan struct{})}
	go func() {
		err := cmd.Wait()
		close(h.done)
		logging.TactileDebug("Editor pid=%d exited: %v", h.pid, err)
	}()

	logging.Tactile("Editor launched (pid=%d)", h.pid)
	return h, nil
}

// TerminateAll force-kills every instance of the editor by image name.
// It never fails; see CleanupResult.
func (c *Controller) TerminateAll(ctx context.Context) CleanupResult {
	var result CleanupResult
	for _, name := range c.imageNames {
		result.Attempts = append(result.Attempts, c.run(ctx, killByNameCommand(name)))
	}
	logging.TactileDebug("Kill-by-name sweep: %d attempts, %d killed", len(result.Attempts), result.Killed())
	return result
}

// TerminateByHandle force-kills p by PID when it still appears alive.
// It complements TerminateAll for editors that were renamed or re-parented.
func (c *Controller) TerminateByHandle(ctx context.Context, p Process) CleanupResult {
	if p == nil || !p.Alive() {
		return CleanupResult{}
	}
	logging.TactileDebug("Editor pid=%d still alive, killing by PID", p.PID())
	return CleanupResult{Attempts: []KillAttempt{c.run(ctx, killByPIDCommand(p.PID()))}}
}

func (c *Controller) run(ctx context.Context, cmd Command) KillAttempt {
	// Cleanup must still work after the run context was canceled by an interrupt.
	ctx = context.WithoutCancel(ctx)
	cmd.TimeoutMs = c.killTimeout

	attempt := KillAttempt{Command: cmd.CommandString(), ExitCode: -1}
	res, err := c.executor.Execute(ctx, cmd)
	if res != nil {
		attempt.Output = strings.TrimSpace(res.Output())
		if res.Truncated {
			attempt.Output += " [truncated]"
		}
	}
	switch {
	case err != nil:
		attempt.Err = err
	case !res.Success:
		attempt.Err = errors.New(res.Error)
	case res.Killed:
		attempt.Err = fmt.Errorf("%s: %s", cmd.Binary, res.KillReason)
	default:
		attempt.ExitCode = res.ExitCode
	}
	switch {
	case attempt.Err != nil:
		logging.TactileWarn("Best-effort kill failed (ignored): %s: %v %s", attempt.Command, attempt.Err, attempt.Output)
	case res.IsNonZeroExit():
		logging.TactileDebug("%s exited %d: %s", attempt.Command, attempt.ExitCode, attempt.Output)
	}
	return attempt
}

func pidArg(pid int) string { return strconv.Itoa(pid) }
