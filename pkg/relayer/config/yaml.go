package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileOverrides is the subset of Config that may be supplied via an
// optional YAML file, layered over the env-var loader: present fields
// override the env-derived default, absent fields leave it untouched.
// The teacher keeps gopkg.in/yaml.v3 as a direct dependency without its
// own main.go ever parsing a YAML config; this is that wiring.
type fileOverrides struct {
	DatabaseURL                  *string `yaml:"database_url"`
	AxelarApproverURL            *string `yaml:"axelar_approver_url"`
	SolanaIncluderRPC            *string `yaml:"solana_includer_rpc"`
	SolanaIncluderKeypair        *string `yaml:"solana_includer_keypair"`
	SentinelGatewayAddress       *string `yaml:"sentinel_gateway_address"`
	SentinelGatewayConfigAddress *string `yaml:"sentinel_gateway_config_address"`
	SentinelRPC                  *string `yaml:"sentinel_rpc"`
	VerifierRPC                  *string `yaml:"verifier_rpc"`
	HealthcheckBindAddr          *string `yaml:"healthcheck_bind_addr"`
}

// LoadWithOverrides calls Load and then, if path is non-empty, layers a
// YAML override file on top of the env-derived Config. A missing path is
// not an error if path itself is empty; any other failure to read or
// parse the file is returned.
func LoadWithOverrides(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading override file %s: %w", path, err)
	}

	var overrides fileOverrides
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("config: parsing override file %s: %w", path, err)
	}

	if err := applyOverrides(cfg, &overrides); err != nil {
		return nil, fmt.Errorf("config: applying override file %s: %w", path, err)
	}
	return cfg, nil
}

func applyOverrides(cfg *Config, o *fileOverrides) error {
	if o.DatabaseURL != nil {
		cfg.DatabaseURL = *o.DatabaseURL
	}
	if o.AxelarApproverURL != nil {
		cfg.AxelarApproverURL = *o.AxelarApproverURL
	}
	if o.SolanaIncluderRPC != nil {
		cfg.SolanaIncluderRPC = *o.SolanaIncluderRPC
	}
	if o.SolanaIncluderKeypair != nil {
		decoded, err := decodeBase58Keypair(*o.SolanaIncluderKeypair)
		if err != nil {
			return fmt.Errorf("solana_includer_keypair: %w", err)
		}
		cfg.SolanaIncluderKeypair = decoded
	}
	if o.SentinelGatewayAddress != nil {
		cfg.SentinelGatewayAddress = *o.SentinelGatewayAddress
	}
	if o.SentinelGatewayConfigAddress != nil {
		cfg.SentinelGatewayConfigAddress = *o.SentinelGatewayConfigAddress
	}
	if o.SentinelRPC != nil {
		cfg.SentinelRPC = *o.SentinelRPC
	}
	if o.VerifierRPC != nil {
		cfg.VerifierRPC = *o.VerifierRPC
	}
	if o.HealthcheckBindAddr != nil {
		cfg.HealthcheckBindAddr = *o.HealthcheckBindAddr
	}
	return nil
}
