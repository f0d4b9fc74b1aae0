// Package event encodes and decodes the Gateway's structured log events.
// Per spec.md §6: each program emits logs as a sequence of raw byte
// segments, the first of which is a fixed label; downstream parsers match
// on the label and decode the remaining segments positionally with fixed
// per-field widths (32B for pubkeys/hashes, 8B little-endian for u64,
// length-prefixed UTF-8 for strings).
package event

import (
	"encoding/binary"
	"errors"
)

// Label identifies an event kind. Parsers switch on this before decoding
// the remaining segments.
type Label string

const (
	LabelMessageApproved           Label = "MESSAGE_APPROVED"
	LabelMessageExecuted           Label = "MESSAGE_EXECUTED"
	LabelOperatorshipTransferred   Label = "OPERATORSHIP_TRANSFERRED"
	LabelSignersRotated            Label = "SIGNERS_ROTATED"
	LabelCallContract              Label = "CALL_CONTRACT"
	LabelCallContractOffchainData  Label = "CALL_CONTRACT_OFFCHAIN_DATA"
)

// ErrUnknownLabel is returned by Decode when a log has no segments at
// all, so no label can be read. Decode does not check the label against
// the recognized labels above; callers compare Log.Label themselves.
var ErrUnknownLabel = errors.New("event: unknown log label")

// ErrTruncatedSegment is returned when a fixed-width or length-prefixed
// segment runs past the end of the log.
var ErrTruncatedSegment = errors.New("event: log truncated mid-segment")

// Log is a decoded sequence of raw byte segments with its label already
// split out, matching the wire shape a Solana program log line carries.
type Log struct {
	Label    Label
	Segments [][]byte
}

// Encode assembles a Log's wire form: the label followed by each segment,
// each length-prefixed with a u32 LE so a reader can split segments
// without interpreting their contents.
func Encode(label Label, segments ...[]byte) []byte {
	var out []byte
	out = appendSegment(out, []byte(label))
	for _, s := range segments {
		out = appendSegment(out, s)
	}
	return out
}

func appendSegment(buf, seg []byte) []byte {
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(seg)))
	buf = append(buf, lenBuf[:]...)
	return append(buf, seg...)
}

// Decode splits a raw log back into its label and segments.
func Decode(raw []byte) (Log, error) {
	var segments [][]byte
	pos := 0
	for pos < len(raw) {
		if pos+4 > len(raw) {
			return Log{}, ErrTruncatedSegment
		}
		n := binary.LittleEndian.Uint32(raw[pos : pos+4])
		pos += 4
		if pos+int(n) > len(raw) {
			return Log{}, ErrTruncatedSegment
		}
		segments = append(segments, raw[pos:pos+int(n)])
		pos += int(n)
	}
	if len(segments) == 0 {
		return Log{}, ErrUnknownLabel
	}
	return Log{Label: Label(segments[0]), Segments: segments[1:]}, nil
}

// PubkeySegment encodes a fixed 32-byte pubkey/hash field.
func PubkeySegment(b [32]byte) []byte {
	return b[:]
}

// U64Segment encodes a u64 as 8 little-endian bytes.
func U64Segment(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

// StringSegment encodes a UTF-8 string; the outer length prefix added by
// appendSegment already delimits it, so the segment is the raw bytes.
func StringSegment(s string) []byte {
	return []byte(s)
}

// DecodeU64Segment reads back a U64Segment.
func DecodeU64Segment(seg []byte) (uint64, error) {
	if len(seg) != 8 {
		return 0, ErrTruncatedSegment
	}
	return binary.LittleEndian.Uint64(seg), nil
}

// DecodePubkeySegment reads back a PubkeySegment.
func DecodePubkeySegment(seg []byte) ([32]byte, error) {
	var out [32]byte
	if len(seg) != 32 {
		return out, ErrTruncatedSegment
	}
	copy(out[:], seg)
	return out, nil
}
