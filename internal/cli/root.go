package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/quarry-pm/quarry/internal/branding"
	"github.com/quarry-pm/quarry/internal/config"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	verbose bool
	logger  = newLogger(os.Stderr, log.InfoLevel)
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` locates packages across federated registries, resolves names to
globally unique package identities, and collects the dependency graph a
version solver needs to pick a consistent set of versions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger = newLogger(os.Stderr, log.DebugLevel)
		}
		config.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err != nil {
		logger.Error(err)
	}
	return err
}

// newLogger creates a logger writing to w at the given level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		Level:           level,
	})
}
