package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paw-chain/poco/cmd/pocod/cmd"
	"github.com/paw-chain/poco/x/poco/types"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := cmd.NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestGenesisDefaultValidates(t *testing.T) {
	home := t.TempDir()
	out, _, err := execute(t, "genesis", "default", "--home", home)
	require.NoError(t, err)

	gs, err := types.UnmarshalGenesis([]byte(out))
	require.NoError(t, err)
	require.Equal(t, types.DefaultParams().Denom, gs.Params.Denom)

	path := filepath.Join(home, "genesis.json")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o600))
	out, _, err = execute(t, "genesis", "validate", path, "--home", home)
	require.NoError(t, err)
	require.Equal(t, path+": valid", strings.TrimSpace(out))
}

func TestGenesisValidateRejects(t *testing.T) {
	home := t.TempDir()

	notJSON := filepath.Join(home, "bad.json")
	require.NoError(t, os.WriteFile(notJSON, []byte("params: {}"), 0o600))
	_, _, err := execute(t, "genesis", "validate", notJSON, "--home", home)
	require.ErrorContains(t, err, "not valid JSON")

	invalid := filepath.Join(home, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"params":{"denom":""}}`), 0o600))
	_, stderr, err := execute(t, "genesis", "validate", invalid, "--home", home)
	require.Error(t, err)
	require.Contains(t, stderr, "genesis rejected")

	_, _, err = execute(t, "genesis", "validate", filepath.Join(home, "missing.json"), "--home", home)
	require.ErrorContains(t, err, "read genesis")
}

func TestConfigShowLayering(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "pocod.yaml"), []byte(`
domain-name: FromFile
domain-version: "9.9.9"
`), 0o600))
	t.Setenv("POCOD_EIP712_CHAIN_ID", "77")

	out, _, err := execute(t, "config", "show", "--home", home, "--domain-version", "1.0.0")
	require.NoError(t, err)
	require.Contains(t, out, "name: FromFile")
	require.Contains(t, out, "version: 1.0.0")
	require.Contains(t, out, "chain_id: 77")
	require.Contains(t, out, filepath.Join(home, "pocod.yaml"))
}

func TestConfigShowDefaults(t *testing.T) {
	out, _, err := execute(t, "config", "show", "--home", t.TempDir())
	require.NoError(t, err)
	d := types.DefaultDomain()
	require.Contains(t, out, "name: "+d.Name)
	require.Contains(t, out, d.VerifyingContract.Hex())
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "config", "show", "--home", t.TempDir(), "--log-level", "*:loud")
	require.Error(t, err)
}

func TestToolsMountedAtRoot(t *testing.T) {
	out, _, err := execute(t, "ids", "deal", "--home", t.TempDir(), "--request", "0x"+strings.Repeat("ab", 32))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "deal_id: 0x"))
}
