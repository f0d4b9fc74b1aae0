package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
)

func TestLoadWithOverridesAppliesYAMLFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("AXELAR_SOLANA_DATABASE_URL", "postgres://env-default")
	t.Setenv("AXELAR_SOLANA_VERIFIER_RPC", "https://env-verifier")

	keypair := base58.Encode([]byte{9, 9, 9})
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	content := "database_url: postgres://from-file\nsolana_includer_keypair: " + keypair + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadWithOverrides(path)
	require.NoError(t, err)
	require.Equal(t, "postgres://from-file", cfg.DatabaseURL)
	require.Equal(t, "https://env-verifier", cfg.VerifierRPC)
	require.Equal(t, []byte{9, 9, 9}, cfg.SolanaIncluderKeypair)
}

func TestLoadWithOverridesEmptyPathSkipsFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("AXELAR_SOLANA_DATABASE_URL", "postgres://env-only")

	cfg, err := LoadWithOverrides("")
	require.NoError(t, err)
	require.Equal(t, "postgres://env-only", cfg.DatabaseURL)
}

func TestLoadWithOverridesRejectsMalformedKeypair(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	require.NoError(t, os.WriteFile(path, []byte("solana_includer_keypair: \"not-base58-!!!\"\n"), 0o600))

	_, err := LoadWithOverrides(path)
	require.Error(t, err)
}
