package codec

import (
	"encoding/binary"
	"unicode/utf8"
)

// appendU16LE/appendU32LE/appendString implement the canonical length-prefixed
// binary format spec.md §6 requires for Gateway/ITS wire payloads: every
// variable-length field carries an explicit LE length prefix, every
// discriminant is a single leading byte.

func appendU16LE(buf []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendU32LE(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendU64LE(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendString(buf []byte, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, ErrInvalidUTF8
	}
	buf = appendU32LE(buf, uint32(len(s)))
	return append(buf, s...), nil
}

func appendBytes(buf []byte, b []byte) []byte {
	buf = appendU32LE(buf, uint32(len(b)))
	return append(buf, b...)
}

type reader struct {
	b   []byte
	pos int
}

func (r *reader) remaining() int { return len(r.b) - r.pos }

func (r *reader) readU16LE() (uint16, error) {
	if r.remaining() < 2 {
		return 0, ErrTruncated
	}
	v := binary.LittleEndian.Uint16(r.b[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *reader) readU32LE() (uint32, error) {
	if r.remaining() < 4 {
		return 0, ErrTruncated
	}
	v := binary.LittleEndian.Uint32(r.b[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) readU64LE() (uint64, error) {
	if r.remaining() < 8 {
		return 0, ErrTruncated
	}
	v := binary.LittleEndian.Uint64(r.b[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *reader) readFixed(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, ErrTruncated
	}
	out := r.b[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *reader) readString() (string, error) {
	n, err := r.readU32LE()
	if err != nil {
		return "", err
	}
	b, err := r.readFixed(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

func (r *reader) readBytes() ([]byte, error) {
	n, err := r.readU32LE()
	if err != nil {
		return nil, err
	}
	return r.readFixed(int(n))
}

func (r *reader) finished() bool { return r.pos == len(r.b) }
