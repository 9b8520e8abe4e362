// Command reglet-rand hosts the random module for Lua scripts, WASM guests
// and HTTP callers.
//
// Configuration comes from RAND_* environment variables; see
// application/config.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/reglet-dev/reglet-rand/application/config"
	"github.com/reglet-dev/reglet-rand/application/module"
	"github.com/reglet-dev/reglet-rand/hostfuncs"
	rlog "github.com/reglet-dev/reglet-rand/log"
	"github.com/reglet-dev/reglet-rand/rand"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(config.Load).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is what every subcommand needs, built once before it runs.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	gen      *rand.Global
	registry *hostfuncs.HandlerRegistry
}

func newApp(cfg config.Config, logOut io.Writer) (*app, error) {
	logger := rlog.New(logOut, cfg.LogFormat, cfg.Level())

	gen, err := cfg.Global()
	if err != nil {
		return nil, err
	}
	if gen.Seeded() {
		logger.Info("global generator seeded from RAND_GLOBAL_SEED")
	}

	registry, err := module.NewRegistry(gen, logger)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}

	return &app{cfg: cfg, logger: logger, gen: gen, registry: registry}, nil
}

func newRootCmd(load func() (config.Config, error)) *cobra.Command {
	a := &app{}
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "reglet-rand",
		Short:         "Host the random module for Lua, WASM and HTTP callers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var cfg config.Config
			var err error
			if envFile != "" {
				cfg, err = config.LoadFile(envFile)
			} else {
				cfg, err = load()
			}
			if err != nil {
				return err
			}
			built, err := newApp(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			*a = *built
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Read RAND_* settings from a dotenv file")

	rootCmd.AddCommand(
		newDescribeCmd(a),
		newRunCmd(a),
		newServeCmd(a),
		newWasmCmd(a),
	)
	return rootCmd
}
