// Package pda implements deterministic program-derived address derivation,
// following Solana's find_program_address algorithm: repeatedly hash
// seeds || bump || program_id || marker until the result is off the
// ed25519 curve, searching bump values from 255 down to 0.
//
// Every package that needs to "re-derive an account address and compare"
// (spec.md §4.5, §9) goes through this package instead of implementing
// its own seed concatenation.
package pda

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// marker is Solana's fixed PDA domain-separation suffix.
const marker = "ProgramDerivedAddress"

// MaxSeedLength mirrors Solana's per-seed length limit.
const MaxSeedLength = 32

// MaxSeeds mirrors Solana's seed-count limit.
const MaxSeeds = 16

var (
	ErrSeedTooLong    = errors.New("pda: seed exceeds 32 bytes")
	ErrTooManySeeds   = errors.New("pda: more than 16 seeds")
	ErrNoValidAddress = errors.New("pda: unable to find a valid program address off curve")
)

// Address is a 32-byte Solana-style public key.
type Address [32]byte

// Find derives the canonical PDA and bump for the given seeds under
// programID, searching from bump 255 downward for the first address that
// does not lie on the ed25519 curve (i.e. has no corresponding private
// key — the defining property of a PDA).
func Find(programID Address, seeds ...[]byte) (Address, uint8, error) {
	if len(seeds) > MaxSeeds {
		return Address{}, 0, ErrTooManySeeds
	}
	for _, s := range seeds {
		if len(s) > MaxSeedLength {
			return Address{}, 0, ErrSeedTooLong
		}
	}

	for bump := 255; bump >= 0; bump-- {
		addr, err := Create(programID, append(append([][]byte{}, seeds...), []byte{byte(bump)}))
		if err == nil {
			return addr, uint8(bump), nil
		}
	}
	return Address{}, 0, ErrNoValidAddress
}

// Create computes sha256(seeds... || programID || marker) and rejects the
// result if it happens to be a valid ed25519 curve point, matching
// Solana's create_program_address semantics exactly (a PDA must NOT be a
// point any keypair could ever sign for).
func Create(programID Address, seeds [][]byte) (Address, error) {
	for _, s := range seeds {
		if len(s) > MaxSeedLength {
			return Address{}, ErrSeedTooLong
		}
	}
	if len(seeds) > MaxSeeds {
		return Address{}, ErrTooManySeeds
	}

	h := sha256.New()
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write(programID[:])
	h.Write([]byte(marker))
	sum := h.Sum(nil)

	var out Address
	copy(out[:], sum)

	if isOnCurve(out) {
		return Address{}, errors.New("pda: address is on curve")
	}
	return out, nil
}

// isOnCurve reports whether the compressed point encoding decodes onto
// the ed25519 curve.
func isOnCurve(a Address) bool {
	_, err := new(edwards25519.Point).SetBytes(a[:])
	return err == nil
}

// Seeds concatenates a label and a variable list of byte-slice-coercible
// fields into the seed list PDA derivation expects, per the seed table in
// spec.md §6.
func Seeds(fields ...[]byte) [][]byte {
	return fields
}

// U64LE encodes a little-endian 8-byte seed component (e.g. a flow
// epoch), matching spec.md's "flow-slot" seed table entry.
func U64LE(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// Equal is a constant-shape helper for "does this account really belong
// here" re-derivation checks (spec.md §9).
func Equal(a, b Address) bool {
	return bytes.Equal(a[:], b[:])
}

// String renders the address in the base58 form every Solana tool and
// log line uses.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// ParseAddress decodes a base58-encoded Solana address.
func ParseAddress(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Address{}, err
	}
	if len(b) != 32 {
		return Address{}, errors.New("pda: decoded address is not 32 bytes")
	}
	var out Address
	copy(out[:], b)
	return out, nil
}
