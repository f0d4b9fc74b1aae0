// Package store provides the account-store abstraction every on-chain
// program package (gateway, its, tokenmanager) is built
// over. A real Solana program addresses accounts by a 32-byte public key
// and the runtime hands it a byte slice it owns exclusively; here an
// in-memory KV keyed by pkg/pda.Address plays that role, with the same
// "load, mutate, save" discipline a BPF program follows.
package store

import "errors"

var (
	// ErrAccountNotFound is returned when a lookup key has never been
	// written, mirroring a Solana account that has not been created.
	ErrAccountNotFound = errors.New("store: account not found")

	// ErrAccountAlreadyExists is returned by CreateAccount when the key
	// is already occupied, mirroring Solana's rent-exempt allocation
	// failing against an address that already has a nonzero lamport
	// balance.
	ErrAccountAlreadyExists = errors.New("store: account already exists")
)
