// Package batch drives records through the editor one at a time.
//
// Each record walks idle -> launching -> awaiting_focus -> typing -> saving -> closing_up -> idle.
// A failing stage jumps straight to closing_up, is recorded in the record's Outcome and
// the batch moves on. closing_up runs from a deferred call, so the editor is killed
// on every exit path, panics included.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"entrybot/internal/config"
	"entrybot/internal/desktop"
	"entrybot/internal/logging"
	"entrybot/internal/output"
	"entrybot/internal/source"
	"entrybot/internal/tactile"
)

// Fetcher supplies the batch.
type Fetcher interface {
	Fetch(ctx context.Context, limit int) []source.Record
}

// Editor launches and kills the target editor.
type Editor interface {
	Launch(ctx context.Context) (tactile.Process, error)
	TerminateAll(ctx context.Context) tactile.CleanupResult
	TerminateByHandle(ctx context.Context, p tactile.Process) tactile.CleanupResult
}

// FocusVerifier confirms the editor owns the foreground.
type FocusVerifier interface {
	Verify(ctx context.Context) error
}

// Typist types text into the focused window.
type Typist interface {
	Type(ctx context.Context, text string) error
}

// Saver persists record content.
type Saver interface {
	Dir() string
	EnsureDir() error
	Write(id, text string) (string, error)
}

// Deps are the collaborators of an Orchestrator. Sleeper defaults to desktop.TimerSleeper.
type Deps struct {
	Fetcher Fetcher
	Editor  Editor
	Focus   FocusVerifier
	Typist  Typist
	Saver   Saver
	Sleeper desktop.Sleeper
}

// Orchestrator runs a batch.
type Orchestrator struct {
	deps Deps

	goos       string
	requiredOS string
	limit      int

	launchSettle   time.Duration
	postTypeSettle time.Duration
	interRecord    time.Duration
}

// New creates an Orchestrator from cfg and deps.
func New(cfg *config.Config, deps Deps) *Orchestrator {
	if deps.Sleeper == nil {
		deps.Sleeper = desktop.TimerSleeper{}
	}
	return &Orchestrator{
		deps:           deps,
		goos:           runtime.GOOS,
		requiredOS:     cfg.Platform.RequiredOS,
		limit:          cfg.Source.Limit,
		launchSettle:   cfg.GetLaunchSettle(),
		postTypeSettle: cfg.GetPostTypeSettle(),
		interRecord:    cfg.GetInterRecordPause(),
	}
}

// NewFromConfig wires the production collaborators for cfg.
func NewFromConfig(cfg *config.Config) (*Orchestrator, error) {
	dir, err := cfg.OutputDir()
	if err != nil {
		return nil, &FatalPreconditionError{Reason: "cannot resolve save directory", Err: err}
	}

	screen := desktop.NewScreen()
	sleeper := desktop.TimerSleeper{}
	return New(cfg, Deps{
		Fetcher: source.NewFetcher(cfg),
		Editor:  tactile.NewController(cfg, tactile.NewDirectExecutor()),
		Focus:   desktop.NewFocusVerifier(screen, cfg),
		Typist:  desktop.NewInjector(screen, cfg, sleeper),
		Saver:   output.NewWriter(dir),
		Sleeper: sleeper,
	}), nil
}

// Run processes the whole batch. It returns a *FatalPreconditionError when the
// platform is wrong or the output directory cannot be created, and ctx.Err()
// when interrupted; per-record failures only show up in the Report.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{OutputDir: o.deps.Saver.Dir()}
	defer func() { report.Duration = time.Since(start) }()

	if o.goos != o.requiredOS {
		return report, &FatalPreconditionError{
			Reason: fmt.Sprintf("this bot is for %s only (running on %s)", o.requiredOS, o.goos),
		}
	}

	if err := o.deps.Saver.EnsureDir(); err != nil {
		return report, &FatalPreconditionError{Reason: "prepare output directory", Err: err}
	}
	logging.Batch("Output directory: %s", report.OutputDir)

	o.sweep(ctx, report)

	records := o.deps.Fetcher.Fetch(ctx, o.limit)
	if err := ctx.Err(); err != nil {
		return report, err
	}
	if len(records) == 0 {
		logging.Batch("No posts fetched, exiting.")
		return report, nil
	}

	for _, rec := range records {
		out := o.processRecord(ctx, rec, report)
		report.add(out)

		if err := o.deps.Sleeper.Sleep(ctx, o.interRecord); err != nil {
			return report, err
		}
	}

	o.sweep(ctx, report)
	logging.Batch("Completed: %d succeeded, %d failed. Files in %s", report.Succeeded, report.Failed, report.OutputDir)
	return report, nil
}

// Cleanup runs one kill-by-name sweep. It is meant for the interrupt path and never fails.
func (o *Orchestrator) Cleanup(ctx context.Context) tactile.CleanupResult {
	return o.deps.Editor.TerminateAll(ctx)
}

func (o *Orchestrator) sweep(ctx context.Context, report *Report) {
	o.deps.Editor.TerminateAll(ctx)
	report.Sweeps++
}

func (o *Orchestrator) processRecord(ctx context.Context, rec source.Record, report *Report) (out Outcome) {
	id := rec.ID.String()
	content := rec.Content()
	m := newRecordMachine(id)
	start := time.Now()
	out = Outcome{RecordID: id, Title: rec.Title}

	var proc tactile.Process

	defer func() {
		if r := recover(); r != nil {
			out.Err = &PanicError{Stage: m.Current(), Value: r, Stack: debug.Stack()}
		}

		out.Stage = m.Current()
		if out.Err != nil {
			l := logging.Get(logging.CategoryBatch).With("post", id, "stage", out.Stage)
			if pe, ok := out.Err.(*PanicError); ok {
				l = l.With("panic_stack", string(pe.Stack))
			}
			l.Error("Error processing post %s: %v", id, out.Err)
			if err := m.fire(ctx, EventFail); err != nil {
				logging.BatchWarn("post %s: %v", id, err)
			}
		}

		logging.Batch("Closing editor for post %s", id)
		o.sweep(ctx, report)
		o.deps.Editor.TerminateByHandle(ctx, proc)

		if err := m.fire(ctx, EventReset); err != nil {
			logging.BatchWarn("post %s: %v", id, err)
		}
		out.Duration = time.Since(start)
	}()

	stages := []struct {
		enter string
		run   func() error
	}{
		{EventLaunch, func() error {
			p, err := o.deps.Editor.Launch(ctx)
			if err != nil {
				return err
			}
			proc = p
			return o.deps.Sleeper.Sleep(ctx, o.launchSettle)
		}},
		{EventLaunched, func() error {
			return o.deps.Focus.Verify(ctx)
		}},
		{EventFocused, func() error {
			logging.Batch("Typing post %s...", id)
			return o.deps.Typist.Type(ctx, content)
		}},
		{EventTyped, func() error {
			path, err := o.deps.Saver.Write(id, content)
			if err != nil {
				return err
			}
			out.Path = path
			return o.deps.Sleeper.Sleep(ctx, o.postTypeSettle)
		}},
	}

	for _, s := range stages {
		if out.Err = m.fire(ctx, s.enter); out.Err != nil {
			return out
		}
		if out.Err = s.run(); out.Err != nil {
			return out
		}
	}
	out.Err = m.fire(ctx, EventSaved)
	return out
}
