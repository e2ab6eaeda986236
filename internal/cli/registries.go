package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quarry-pm/quarry/internal/config"
	"github.com/quarry-pm/quarry/internal/registry"
)

var registriesJSON bool

var registriesCmd = &cobra.Command{
	Use:   "registries",
	Short: "List registries discovered under the configured depots",
	RunE:  runRegistries,
}

func init() {
	registriesCmd.Flags().BoolVar(&registriesJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(registriesCmd)
}

// registryEntry represents a discovered registry for display.
type registryEntry struct {
	Name     string `json:"name"`
	UUID     string `json:"uuid"`
	Packages int    `json:"packages"`
	Path     string `json:"path"`
}

func runRegistries(cmd *cobra.Command, args []string) error {
	registries, err := registry.Discover(config.Depots())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(registries) == 0 {
		fmt.Fprintln(out, "No registries found.")
		return nil
	}

	entries := make([]registryEntry, 0, len(registries))
	for _, reg := range registries {
		entries = append(entries, registryEntry{
			Name:     reg.Name,
			UUID:     reg.UUID.String(),
			Packages: countListingRecords(reg.ListingPath()),
			Path:     reg.Path,
		})
	}

	if registriesJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling registries: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tUUID\tPACKAGES\tPATH")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", e.Name, e.UUID, e.Packages, e.Path)
	}
	return w.Flush()
}

// countListingRecords counts non-blank listing lines. Best effort — an
// unreadable listing just reports zero.
func countListingRecords(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			count++
		}
	}
	return count
}
