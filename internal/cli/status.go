package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quarry-pm/quarry/internal/config"
	"github.com/quarry-pm/quarry/internal/manifest"
)

var statusValidate bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active environment's installed packages",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusValidate, "validate", false, "Validate the manifest against its schema")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	envDir := config.EnvironmentDir()
	out := cmd.OutOrStdout()

	if statusValidate {
		result, err := manifest.ValidateFile(filepath.Join(envDir, manifest.FileName))
		if err != nil {
			return err
		}
		if result.Valid {
			fmt.Fprintln(out, "Manifest is valid.")
			return nil
		}
		fmt.Fprintf(out, "Manifest has %d issue(s):\n", len(result.Issues))
		for _, issue := range result.Issues {
			if issue.Path != "" {
				fmt.Fprintf(out, "  %s: %s\n", issue.Path, issue.Message)
			} else {
				fmt.Fprintf(out, "  %s\n", issue.Message)
			}
		}
		return fmt.Errorf("manifest validation failed")
	}

	m, err := manifest.Load(envDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Environment: %s\n", envDir)
	if len(m.Packages) == 0 {
		fmt.Fprintln(out, "No packages installed.")
		return nil
	}

	names := m.Names()
	sort.Strings(names)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tUUID\tVERSION\tHASH")
	for _, name := range names {
		entry := m.Packages[name]
		hash := entry.Hash
		if hash == "" {
			hash = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, entry.UUID, entry.Version, hash)
	}
	return w.Flush()
}
