package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"entrybot/internal/config"
	"entrybot/internal/logging"
)

const version = "1.0.0"

var (
	// Global flags
	verbose    bool
	configPath string
	limit      int
	outputDir  string
	sourceURL  string

	// Resolved in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// errInterrupted is returned after an operator interrupt has been cleaned up.
var errInterrupted = errors.New("interrupted by user")

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "entrybot",
		Short: "entrybot - automated data entry into Notepad",
		Long: `entrybot fetches a batch of posts and, for each one, launches Notepad,
types the post into it, saves the text to "post <id>.txt" in the output
directory and force-closes the editor.

Move the mouse pointer into any screen corner while it is typing to abort
the current post. Ctrl+C stops the run and closes every Notepad window.

Run without a subcommand to process a batch.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync()
		},
		RunE: runBatch,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config (default: built-in settings)")
	rootCmd.PersistentFlags().IntVar(&limit, "limit", 0, "Number of posts to process")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "Directory for the saved post files")
	rootCmd.PersistentFlags().StringVar(&sourceURL, "source-url", "", "Posts endpoint")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

// setup loads the configuration, applies flag overrides and starts logging.
// Precedence: flags, then environment, then the config file, then defaults.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("limit") {
		loaded.Source.Limit = limit
	}
	if flags.Changed("output-dir") {
		loaded.Output.Dir = outputDir
	}
	if flags.Changed("source-url") {
		loaded.Source.URL = sourceURL
	}
	if verbose {
		loaded.Logging.Level = "debug"
	}

	if err := loaded.Validate(); err != nil {
		return err
	}

	logger, err = logging.Initialize(logging.Options{
		Level:  loaded.Logging.Level,
		Format: loaded.Logging.Format,
		RunID:  uuid.NewString(),
	})
	if err != nil {
		return err
	}
	cfg = loaded
	logger.Debug("Configuration loaded", zap.String("path", configPath), zap.Int("limit", cfg.Source.Limit))
	logging.Boot("entrybot %s on %s/%s (required: %s), output %s",
		version, runtime.GOOS, runtime.GOARCH, cfg.Platform.RequiredOS, cfg.Output.Dir)
	return nil
}

// loggedError marks an error that was already written to the log.
type loggedError struct{ err error }

func (e *loggedError) Error() string { return e.err.Error() }
func (e *loggedError) Unwrap() error { return e.err }

// fatal logs err to the boot category and marks it as logged.
func fatal(err error) error {
	logging.BootError("%v", err)
	return &loggedError{err: err}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var logged *loggedError
		if !errors.Is(err, errInterrupted) && !errors.As(err, &logged) {
			fmt.Fprintln(os.Stderr, "[FATAL]", err)
		}
		os.Exit(1)
	}
}
