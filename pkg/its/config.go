package its

import (
	"log"

	"github.com/axelar-network/solana-bridge/pkg/pda"
	"github.com/axelar-network/solana-bridge/pkg/store"
)

const seedITSRoot = "its"

// ITSRootAddress derives the singleton ITS root PDA.
func ITSRootAddress(programID pda.Address) (pda.Address, uint8, error) {
	return pda.Find(programID, []byte(seedITSRoot))
}

// Config is the ITS root account: the hub it trusts, the set of source
// chains it accepts inbound traffic from, and its pause flag, per
// spec.md §4.5.
type Config struct {
	Bump              uint8
	HubChain          string
	HubAddress        string
	TrustedChains     map[string]bool
	Paused            bool
}

// IsTrustedSource reports whether sourceChain/sourceAddress is the
// configured hub, per spec.md §4.5's re-validation rule.
func (c Config) IsTrustedSource(sourceChain, sourceAddress string) bool {
	return sourceChain == c.HubChain && sourceAddress == c.HubAddress
}

// IsTrustedDestination reports whether a destination chain may receive
// outbound ITS traffic: the hub itself is always implicitly trusted, any
// other chain must be explicitly in TrustedChains.
func (c Config) IsTrustedDestination(destinationChain string) bool {
	if destinationChain == c.HubChain {
		return true
	}
	return c.TrustedChains[destinationChain]
}

// Service wraps the account store backing one ITS program instance.
type Service struct {
	ProgramID pda.Address
	Accounts  *store.AccountStore
	// Logger receives one line per deploy/link request, tagged with a
	// correlation id, so operators can trace a cross-chain token
	// registration through relayer logs. If unset, lines go to the standard
	// logger's output (log.Writer()).
	Logger *log.Logger
}

func (s *Service) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.New(log.Writer(), "[its] ", log.LstdFlags)
}

func (s *Service) loadConfig() (pda.Address, Config, error) {
	addr, _, err := ITSRootAddress(s.ProgramID)
	if err != nil {
		return addr, Config{}, err
	}
	var cfg Config
	if err := s.Accounts.LoadAccount(addr, &cfg); err != nil {
		return addr, Config{}, err
	}
	return addr, cfg, nil
}

// Initialize creates the ITS root config, idempotent by PDA existence
// like the Gateway's InitializeConfig.
func (s *Service) Initialize(hubChain, hubAddress string, trustedChains []string) (*Config, error) {
	addr, bump, err := ITSRootAddress(s.ProgramID)
	if err != nil {
		return nil, err
	}

	var existing Config
	if err := s.Accounts.LoadAccount(addr, &existing); err == nil {
		return &existing, nil
	} else if err != store.ErrAccountNotFound {
		return nil, err
	}

	trusted := make(map[string]bool, len(trustedChains))
	for _, c := range trustedChains {
		trusted[c] = true
	}
	cfg := Config{Bump: bump, HubChain: hubChain, HubAddress: hubAddress, TrustedChains: trusted}
	if err := s.Accounts.CreateAccount(addr, cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
