package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/reglet-dev/reglet-rand/application/schema"
	"github.com/reglet-dev/reglet-rand/host"
	"github.com/reglet-dev/reglet-rand/infrastructure/parser"
	"github.com/spf13/cobra"
)

func newDescribeCmd(a *app) *cobra.Command {
	var format string
	var verify string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the module manifest",
		Long: `Print the types and functions the random module exports.

YAML output lists names, arity and effect flags. JSON output adds the request
and response schema of every function.

With --verify, read a manifest a guest was built against and check that this
host exports everything it declares.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if verify != "" {
				raw, err := os.ReadFile(verify)
				if err != nil {
					return fmt.Errorf("read manifest: %w", err)
				}
				m, err := host.NewLoader(host.WithRegistry(a.registry)).LoadManifest(raw)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d functions, %d types satisfied\n", verify, len(m.Functions), len(m.Types))
				return nil
			}

			switch format {
			case "yaml":
				out, err := parser.NewYamlManifestParser().Encode(a.registry.Manifest())
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			case "json":
				m, err := schema.Manifest(a.registry)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(m)
			default:
				return fmt.Errorf("unknown format %q (want yaml or json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVar(&verify, "verify", "", "Check a manifest file against this host instead of printing")
	return cmd
}
