package main

import (
	"fmt"

	"github.com/Shopify/go-lua"
	luahost "github.com/reglet-dev/reglet-rand/infrastructure/lua"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <script.lua>",
		Short: "Run a Lua script with the random module available",
		Long: `Run a Lua script. The module is loaded with require, under the name in
RAND_LUA_MODULE (default "random"):

	local random = require "random"
	print(random.gen_int_range(1, 7))`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			l := luahost.NewState(a.gen, luahost.WithModuleName(a.cfg.LuaModule))
			if err := lua.DoFile(l, args[0]); err != nil {
				return fmt.Errorf("run %s: %w", args[0], err)
			}
			return nil
		},
	}
}
