package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/quarry-pm/quarry/internal/config"
	"github.com/quarry-pm/quarry/internal/manifest"
	"github.com/quarry-pm/quarry/internal/registry"
	"github.com/quarry-pm/quarry/internal/resolve"
	"github.com/quarry-pm/quarry/internal/version"
)

var (
	resolveOutput string
	resolveDigest bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <name[@spec]>...",
	Short: "Resolve packages and collect their dependency graph",
	Long: `Resolve each requested package name to its unique identity, expand
declared dependencies transitively, and print the candidate versions that
could satisfy the request. A spec is an exact version ("Foo@1.2.0") or a
range ("Foo@>=1.0.0, <2.0.0"); omitting it admits all versions.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveOutput, "output", "o", "table", "Output format: table, yaml, or json")
	resolveCmd.Flags().BoolVar(&resolveDigest, "digest", false, "Print the canonical graph digest instead of the graph")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	req, err := parseRequest(args)
	if err != nil {
		return err
	}

	depots := config.Depots()
	logger.Debug("discovering registries", "depots", depots)
	registries, err := registry.Discover(depots)
	if err != nil {
		return err
	}
	if len(registries) == 0 {
		return fmt.Errorf("no registries found under configured depots %v", depots)
	}
	logger.Debug("discovered registries", "count", len(registries))

	envDir := config.EnvironmentDir()
	m, err := manifest.Load(envDir)
	if err != nil {
		return err
	}

	res, err := resolve.NewCollector(registries, m).Collect(req)
	if err != nil {
		return err
	}
	logger.Debug("collected graph", "packages", len(res.Graph))

	out := cmd.OutOrStdout()
	if resolveDigest {
		fmt.Fprintf(out, "%016x\n", res.Graph.Digest())
		return nil
	}

	doc := buildResolutionDoc(res)
	switch resolveOutput {
	case "yaml":
		data, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshaling graph: %w", err)
		}
		fmt.Fprint(out, string(data))
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling graph: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "table":
		printResolutionTable(cmd, res)
	default:
		return fmt.Errorf("unknown output format %q", resolveOutput)
	}
	return nil
}

// parseRequest turns "name" or "name@spec" arguments into a Request.
func parseRequest(args []string) (resolve.Request, error) {
	req := make(resolve.Request, len(args))
	for _, arg := range args {
		name := arg
		var spec *version.Spec

		if at := strings.Index(arg, "@"); at >= 0 {
			name = arg[:at]
			parsed, err := version.ParseSpec(arg[at+1:])
			if err != nil {
				return nil, fmt.Errorf("argument %q: %w", arg, err)
			}
			spec = parsed
		}
		if name == "" {
			return nil, fmt.Errorf("argument %q: missing package name", arg)
		}
		if _, ok := req[name]; ok {
			return nil, fmt.Errorf("package %q requested more than once", name)
		}
		req[name] = spec
	}
	return req, nil
}

// resolvedPackage is the serialized form of one graph entry.
type resolvedPackage struct {
	UUID     string                     `yaml:"uuid" json:"uuid"`
	Versions map[string]resolvedVersion `yaml:"versions" json:"versions"`
}

type resolvedVersion struct {
	Hash string            `yaml:"hash" json:"hash"`
	Deps map[string]string `yaml:"deps,omitempty" json:"deps,omitempty"`
}

func buildResolutionDoc(res *resolve.Resolution) map[string]resolvedPackage {
	doc := make(map[string]resolvedPackage, len(res.Graph))
	for name, versions := range res.Graph {
		pkg := resolvedPackage{
			UUID:     res.Fixed[name].String(),
			Versions: make(map[string]resolvedVersion, len(versions)),
		}
		for ver, av := range versions {
			rv := resolvedVersion{Hash: av.Hash}
			if len(av.Deps) > 0 {
				rv.Deps = make(map[string]string, len(av.Deps))
				for depName, depID := range av.Deps {
					rv.Deps[depName] = depID.String()
				}
			}
			pkg.Versions[ver] = rv
		}
		doc[name] = pkg
	}
	return doc
}

func printResolutionTable(cmd *cobra.Command, res *resolve.Resolution) {
	out := cmd.OutOrStdout()

	names := make([]string, 0, len(res.Graph))
	for name := range res.Graph {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		versions := make([]string, 0, len(res.Graph[name]))
		for ver := range res.Graph[name] {
			versions = append(versions, ver)
		}
		sort.Strings(versions)

		fmt.Fprintf(out, "%s [%s]\n", name, res.Fixed[name])
		if len(versions) == 0 {
			fmt.Fprintln(out, "  (no candidate versions)")
			continue
		}
		fmt.Fprintf(out, "  candidates: %s\n", strings.Join(versions, ", "))
	}
}
