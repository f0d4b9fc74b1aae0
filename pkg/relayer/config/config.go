// Package config loads the Relayer's environment-variable-driven
// configuration, following the teacher's single-prefix getEnv helper
// style (pkg/config/config.go) rather than a flag library.
package config

import (
	"fmt"
	"os"
)

const envPrefix = "AXELAR_SOLANA_"

// Config holds every setting spec.md §6 names for the Relayer. Each field
// maps to one recognized env var under the AXELAR_SOLANA_ prefix.
type Config struct {
	DatabaseURL      string
	AxelarApproverURL string

	SolanaIncluderRPC      string
	SolanaIncluderKeypair  []byte // base58-decoded signing key bytes

	SentinelGatewayAddress       string
	SentinelGatewayConfigAddress string
	SentinelRPC                  string

	VerifierRPC string

	HealthcheckBindAddr string
}

// Load reads configuration from environment variables. It does not
// validate; call Validate() separately so callers can decide whether a
// given deployment needs both transport directions or just one.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		AxelarApproverURL: getEnv("AXELAR_APPROVER_URL", ""),

		SolanaIncluderRPC: getEnv("SOLANA_INCLUDER_RPC", ""),

		SentinelGatewayAddress:       getEnv("SENTINEL_GATEWAY_ADDRESS", ""),
		SentinelGatewayConfigAddress: getEnv("SENTINEL_GATEWAY_CONFIG_ADDRESS", ""),
		SentinelRPC:                  getEnv("SENTINEL_RPC", ""),

		VerifierRPC: getEnv("VERIFIER_RPC", ""),

		HealthcheckBindAddr: getEnv("HEALTHCHECK_BIND_ADDR", "0.0.0.0:8081"),
	}

	if raw := getEnv("SOLANA_INCLUDER_KEYPAIR", ""); raw != "" {
		decoded, err := decodeBase58Keypair(raw)
		if err != nil {
			return nil, fmt.Errorf("%sSOLANA_INCLUDER_KEYPAIR: %w", envPrefix, err)
		}
		cfg.SolanaIncluderKeypair = decoded
	}

	return cfg, nil
}

// Validate enforces spec.md §6's rule that at least one of the two
// transport directions (Sentinel: Solana->Axelar, Includer: Axelar
// ->Solana) must be configured, and also requires DATABASE_URL and
// VERIFIER_RPC to be set.
func (c *Config) Validate() error {
	sentinelConfigured := c.SentinelRPC != "" && c.SentinelGatewayAddress != ""
	includerConfigured := c.SolanaIncluderRPC != "" && len(c.SolanaIncluderKeypair) != 0

	if !sentinelConfigured && !includerConfigured {
		return fmt.Errorf("at least one transport direction must be configured: " +
			"Sentinel needs SENTINEL_RPC + SENTINEL_GATEWAY_ADDRESS, " +
			"Includer needs SOLANA_INCLUDER_RPC + SOLANA_INCLUDER_KEYPAIR")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("%sDATABASE_URL is required", envPrefix)
	}
	if c.VerifierRPC == "" {
		return fmt.Errorf("%sVERIFIER_RPC is required", envPrefix)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

