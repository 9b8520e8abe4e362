package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/reglet-dev/reglet-rand/application/config"
	"github.com/reglet-dev/reglet-rand/domain/entities"
	"github.com/reglet-dev/reglet-rand/hostfuncs"
	"github.com/reglet-dev/reglet-rand/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, environ map[string]string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(func() (config.Config, error) { return config.LoadFrom(environ) })

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDescribe_YAML(t *testing.T) {
	out, err := execute(t, nil, "describe")
	require.NoError(t, err)
	assert.Contains(t, out, "name: random")
	assert.Contains(t, out, "name: XorShiftRng")
	assert.Contains(t, out, "name: xor_shift_next")
}

func TestDescribe_JSON(t *testing.T) {
	out, err := execute(t, nil, "describe", "--format", "json")
	require.NoError(t, err)

	var m entities.Manifest
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	fn, ok := m.Function(hostfuncs.FuncXorShiftNew)
	require.True(t, ok)
	assert.NotEmpty(t, fn.Request)
	assert.NotEmpty(t, fn.Response)
}

func TestDescribe_UnknownFormat(t *testing.T) {
	_, err := execute(t, nil, "describe", "--format", "toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "toml"`)
}

func TestDescribe_Verify(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(good, []byte("name: random\nfunctions:\n  - name: next_int\n    arity: 1\n    effectful: true\n"), 0o600))
	require.NoError(t, os.WriteFile(bad, []byte("name: random\nfunctions:\n  - name: next_long\n    arity: 1\n"), 0o600))

	out, err := execute(t, nil, "describe", "--verify", good)
	require.NoError(t, err)
	assert.Contains(t, out, "1 functions, 0 types satisfied")

	_, err = execute(t, nil, "describe", "--verify", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "next_long: function not exported")
}

func TestRun_LuaScript(t *testing.T) {
	_, err := execute(t, nil, "run", filepath.Join("..", "..", "examples", "lua", "dice.lua"))
	require.NoError(t, err)
}

func TestRun_CustomModuleName(t *testing.T) {
	script := filepath.Join(t.TempDir(), "rng.lua")
	require.NoError(t, os.WriteFile(script, []byte(`local rng = require "rng"; assert(rng.next_float() < 1)`), 0o600))

	_, err := execute(t, map[string]string{"RAND_LUA_MODULE": "rng"}, "run", script)
	require.NoError(t, err)
}

func TestRun_ScriptError(t *testing.T) {
	script := filepath.Join(t.TempDir(), "bad.lua")
	require.NoError(t, os.WriteFile(script, []byte(`require("random").gen_int_range(1, 1)`), 0o600))

	_, err := execute(t, nil, "run", script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty range")
}

func TestWasm_Guest(t *testing.T) {
	guest := filepath.Join(t.TempDir(), "seeder.wasm")
	payload := []byte(`{"seed":"AAAAAAAAAAAAAAAAAAAAAA=="}`)
	require.NoError(t, os.WriteFile(guest, testutil.GuestModule("rand_host", hostfuncs.FuncXorShiftNew, payload, true), 0o600))

	out, err := execute(t, map[string]string{"RAND_HOST_MODULE": "rand_host"}, "wasm", guest)
	require.NoError(t, err)
	testutil.AssertJSONEqual(t, `{"gen":"7V6tC+1erQvtXq0L7V6tCw=="}`, out)
}

func TestGlobalSeed_Reproducible(t *testing.T) {
	environ := map[string]string{
		"RAND_GLOBAL_SEED": "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
		"RAND_HOST_MODULE": "reglet_host",
	}
	guest := filepath.Join(t.TempDir(), "draw.wasm")
	require.NoError(t, os.WriteFile(guest, testutil.GuestModule("reglet_host", hostfuncs.FuncNextInt, nil, true), 0o600))

	first, err := execute(t, environ, "wasm", guest)
	require.NoError(t, err)
	second, err := execute(t, environ, "wasm", guest)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestConfigError(t *testing.T) {
	_, err := execute(t, map[string]string{"RAND_LOG_LEVEL": "loud"}, "describe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogLevel")

	cmd := newRootCmd(func() (config.Config, error) { return config.Config{}, errors.New("boom") })
	cmd.SetArgs([]string{"describe"})
	cmd.SetOut(&bytes.Buffer{})
	assert.EqualError(t, cmd.Execute(), "boom")
}

func TestEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "rand.env")
	require.NoError(t, os.WriteFile(envFile, []byte("RAND_LUA_MODULE=dice\n"), 0o600))
	script := filepath.Join(dir, "dice.lua")
	require.NoError(t, os.WriteFile(script, []byte(`assert(require("dice").gen_int_range(1, 2) == 1)`), 0o600))

	_, err := execute(t, nil, "--env-file", envFile, "run", script)
	require.NoError(t, err)
}
