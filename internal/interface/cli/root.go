package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/kksharma1618/svncherrypicker/internal/core/config"
)

var (
	configPath  string
	dataDirFlag string
	backendFlag string
	verbose     bool
	versionInfo string

	// cfg is loaded before every command runs
	cfg *config.Config
)

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	// Ctrl-C cancels running svn commands
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "svncherrypicker",
	Short: "Cherry-pick unmerged Subversion revisions",
	Long: `svncherrypicker - find, filter, and cherry-pick unmerged svn revisions

Set up a source and destination branch once, cache the revisions that are
eligible for merging, then filter them by author, date, message, or path and
collect a pick list. The merge command prints the svn merge invocation for
the picked revisions.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/svncherrypicker/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Directory holding the session and revision caches")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Storage backend: json or sqlite")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	loaded, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if dataDirFlag != "" {
		loaded.DataDir = dataDirFlag
	}
	if backendFlag != "" {
		loaded.Backend = backendFlag
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	cfg = loaded
	slog.Debug("config loaded", "data_dir", cfg.DataDir, "backend", cfg.Backend)
	return nil
}
