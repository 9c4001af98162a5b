package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/ANNX/am"
	"github.com/teranos/ANNX/cmd/annx/commands"
	"github.com/teranos/ANNX/logger"
	"github.com/teranos/ANNX/version"
)

var rootCmd = &cobra.Command{
	Use:   "annx",
	Short: "ANNX - Annotation pack store and batch inference pipeline",
	Long: `ANNX - Annotation pack store and batch inference pipeline.

ANNX manages per-document annotation packs (spans, links, reference lists)
and drives batch model inference with dedup-aware write-back.

Available commands:
  am      - Manage ANNX core configuration ("I am")
  pack    - Inspect and verify pack snapshots
  version - Show build information

Examples:
  annx am show                # Show current configuration
  annx pack show doc.yaml     # List entries in a pack snapshot
  annx pack verify doc.yaml   # Check a snapshot's referential consistency`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := am.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := logger.Initialize(cfg.Logging.JSON); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.PackCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Get().String())
	},
}

func main() {
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
