package store

import (
	"encoding/json"
	"fmt"

	"github.com/axelar-network/solana-bridge/pkg/pda"
)

// AccountStore provides typed load/save access to PDA-keyed accounts over
// a KV, the way the teacher's ledger.LedgerStore layers typed methods
// over its KV interface. Account payloads are JSON-encoded; this is a
// modeling convenience (a real Solana program serializes with Borsh) that
// keeps every "on-chain" package's account schema readable in Go without
// hand-rolled binary layouts for state nobody verifies off-chain.
type AccountStore struct {
	kv KV
}

// NewAccountStore wraps a KV backend in the account-store API.
func NewAccountStore(kv KV) *AccountStore {
	return &AccountStore{kv: kv}
}

// CreateAccount writes a brand-new account, failing if the address is
// already occupied. This mirrors Solana's allocate-at-PDA instruction
// pattern used by every Initialize* operation in the spec.
func (s *AccountStore) CreateAccount(addr pda.Address, value any) error {
	exists, err := s.kv.Has(addr[:])
	if err != nil {
		return err
	}
	if exists {
		return ErrAccountAlreadyExists
	}
	return s.saveAccount(addr, value)
}

// LoadAccount reads and JSON-decodes the account at addr into dest, which
// must be a pointer. Returns ErrAccountNotFound if nothing has been
// written there.
func (s *AccountStore) LoadAccount(addr pda.Address, dest any) error {
	raw, err := s.kv.Get(addr[:])
	if err != nil {
		return err
	}
	if raw == nil {
		return ErrAccountNotFound
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("store: decode account %s: %w", addr, err)
	}
	return nil
}

// SaveAccount overwrites an existing account. Callers that need
// create-or-fail semantics should use CreateAccount instead.
func (s *AccountStore) SaveAccount(addr pda.Address, value any) error {
	exists, err := s.kv.Has(addr[:])
	if err != nil {
		return err
	}
	if !exists {
		return ErrAccountNotFound
	}
	return s.saveAccount(addr, value)
}

func (s *AccountStore) saveAccount(addr pda.Address, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode account %s: %w", addr, err)
	}
	return s.kv.Set(addr[:], raw)
}

// AccountExists reports whether anything has been written at addr.
func (s *AccountStore) AccountExists(addr pda.Address) (bool, error) {
	return s.kv.Has(addr[:])
}
