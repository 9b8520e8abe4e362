package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reglet-dev/reglet-rand/host"
	wazeroadapter "github.com/reglet-dev/reglet-rand/infrastructure/wazero"
	"github.com/spf13/cobra"
)

func newWasmCmd(a *app) *cobra.Command {
	var export string
	var input string

	cmd := &cobra.Command{
		Use:   "wasm <module.wasm>",
		Short: "Run a WASM guest against the random host module",
		Long: `Instantiate a WASM guest, call one of its exports and print the bytes
its packed ptr+len result points at.

The guest imports functions from the module named in RAND_HOST_MODULE
(default "reglet_host") and must export "allocate".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wasmBytes, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read guest: %w", err)
			}

			ctx := cmd.Context()
			e, err := host.NewExecutor(ctx,
				host.WithHostFunctions(a.registry),
				host.WithLogger(a.logger),
				host.WithAdapterOptions(
					wazeroadapter.WithModuleName(a.cfg.HostModule),
					wazeroadapter.WithMaxRequestSize(a.cfg.MaxRequestSize),
				),
			)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close(ctx) }()

			name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			p, err := e.LoadPlugin(ctx, name, wasmBytes)
			if err != nil {
				return err
			}

			out, err := p.Call(ctx, export, []byte(input))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&export, "export", "run", "Guest export to call")
	cmd.Flags().StringVar(&input, "input", "", "Request bytes passed to the export as (ptr, len)")
	return cmd
}
