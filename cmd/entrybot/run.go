package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"entrybot/internal/batch"
	"entrybot/internal/tactile"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process a batch of posts (default command)",
		Long: `Fetches up to --limit posts and types each one into a fresh Notepad window,
saving it as "post <id>.txt". A failing post is logged and skipped; Notepad is
force-closed before the first post, after every post and at the end of the run.`,
		Args: cobra.NoArgs,
		RunE: runBatch,
	}
}

// batchRunner is the part of *batch.Orchestrator used by the run command.
type batchRunner interface {
	Run(ctx context.Context) (*batch.Report, error)
	Cleanup(ctx context.Context) tactile.CleanupResult
}

func runBatch(cmd *cobra.Command, args []string) error {
	orch, err := batch.NewFromConfig(cfg)
	if err != nil {
		return fatal(err)
	}
	return executeBatch(cmd, orch)
}

// executeBatch runs orch until it completes or the operator interrupts it.
// Interrupts, panics and unexpected errors all end with a cleanup sweep.
func executeBatch(cmd *cobra.Command, orch batchRunner) (err error) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("Interrupted by user. Cleaning up...")
			cancel()
		case <-ctx.Done():
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Unhandled panic", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			orch.Cleanup(context.Background())
			err = fmt.Errorf("unhandled panic: %v", r)
		}
	}()

	report, err := orch.Run(ctx)

	var precondition *batch.FatalPreconditionError
	switch {
	case err == nil:
	case errors.As(err, &precondition):
		return fatal(err)
	case errors.Is(err, context.Canceled):
		orch.Cleanup(context.Background())
		renderSummary(cmd.OutOrStdout(), report)
		return errInterrupted
	default:
		logger.Error("Unhandled error", zap.Error(err))
		orch.Cleanup(context.Background())
		return err
	}

	renderSummary(cmd.OutOrStdout(), report)
	return nil
}
