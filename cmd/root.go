package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/docreview-cli/internal/config"
)

// Exit codes. Blocking handoffs get their own signal so callers can route
// artifacts to human review without parsing output.
const (
	exitUsage    = 2
	exitBlocking = 3
)

// errBlockingHandoffs is returned by run when the finished artifact still
// carries unresolved blocking handoffs.
var errBlockingHandoffs = errors.New("unresolved blocking handoffs present")

// errUsage marks validation and usage failures (exit 2).
var errUsage = errors.New("usage error")

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errUsage}, args...)...)
}

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "docreview",
	Short: "Document review pipeline",
	Long:  "Processes a document through ingest, extraction, classification, normalization, validation and rendering, producing an append-only review artifact with a full audit trail.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	err := rootCmd.Execute()
	switch {
	case err == nil:
	case errors.Is(err, errBlockingHandoffs):
		os.Exit(exitBlocking)
	case errors.Is(err, errUsage):
		os.Exit(exitUsage)
	default:
		os.Exit(1)
	}
}
