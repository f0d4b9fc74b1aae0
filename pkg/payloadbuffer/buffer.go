// Package payloadbuffer implements the Message Payload Buffer (C4):
// large cross-chain payloads that exceed a single Solana instruction's
// input limit are staged here in chunks and sealed by commit, per
// spec.md §4.4.
package payloadbuffer

import (
	"errors"

	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrAlreadyCommitted     = errors.New("payloadbuffer: buffer already committed")
	ErrAccountDataTooSmall  = errors.New("payloadbuffer: write would exceed the buffer's declared size")
	ErrNotCommitted         = errors.New("payloadbuffer: buffer has not been committed yet")
	ErrFunderMismatch       = errors.New("payloadbuffer: only the funder may close this buffer")
)

// Buffer is the Message Payload Buffer account, per spec.md §3 and §4.4.
// The header-then-payload layout described in the spec (bump, committed,
// payload_hash followed by the raw bytes) is modeled here as two fields
// so Go callers take RawPayload by reference rather than re-slicing a
// flat byte array; the on-chain contiguity requirement that motivates the
// real layout has no equivalent cost in this Go representation.
type Buffer struct {
	Bump        uint8
	CommandID   [32]byte
	Funder      [32]byte
	Committed   bool
	PayloadHash [32]byte
	Size        uint64
	RawPayload  []byte
}

// New initializes an uncommitted buffer of the declared size for a given
// command id.
func New(commandID [32]byte, funder [32]byte, size uint64, bump uint8) *Buffer {
	return &Buffer{
		Bump:       bump,
		CommandID:  commandID,
		Funder:     funder,
		Size:       size,
		RawPayload: make([]byte, size),
	}
}

// Write copies data into the buffer at offset. Fails if the buffer is
// already committed or the write would run past the declared size, per
// spec.md §4.4's invariants.
func (b *Buffer) Write(offset uint64, data []byte) error {
	if b.Committed {
		return ErrAlreadyCommitted
	}
	if offset+uint64(len(data)) > b.Size {
		return ErrAccountDataTooSmall
	}
	copy(b.RawPayload[offset:], data)
	return nil
}

// Commit computes and stores keccak256(raw_payload), flips Committed to
// true, and rejects any further writes.
func (b *Buffer) Commit() error {
	if b.Committed {
		return ErrAlreadyCommitted
	}
	b.PayloadHash = crypto.Keccak256Hash(b.RawPayload)
	b.Committed = true
	return nil
}

// Payload returns the sealed payload bytes by reference, mirroring the
// on-chain "borrow the tail slice" access pattern. Fails if the buffer
// has not been committed.
func (b *Buffer) Payload() ([]byte, error) {
	if !b.Committed {
		return nil, ErrNotCommitted
	}
	return b.RawPayload, nil
}

// Close is authorized only for the account's original funder, per
// spec.md §5 ("closable to reclaim rent").
func (b *Buffer) Close(caller [32]byte) error {
	if caller != b.Funder {
		return ErrFunderMismatch
	}
	b.RawPayload = nil
	return nil
}
