package config

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// decodeBase58Keypair decodes a Solana CLI-style base58 keypair string,
// the same encoding pkg/pda uses for account addresses.
func decodeBase58Keypair(raw string) ([]byte, error) {
	decoded, err := base58.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base58 keypair: %w", err)
	}
	if len(decoded) == 0 {
		return nil, fmt.Errorf("empty keypair")
	}
	return decoded, nil
}
