package codec

// Exported wrappers around the canonical length-prefixed wire primitives,
// so other packages with their own sum-typed wire formats (pkg/its'
// GMPPayload) encode and decode with the exact same rules as Message and
// VerifierSet do, per spec.md §6's "single canonical length-prefixed
// binary format" requirement.

func AppendU16LE(buf []byte, v uint16) []byte { return appendU16LE(buf, v) }
func AppendU32LE(buf []byte, v uint32) []byte { return appendU32LE(buf, v) }
func AppendU64LE(buf []byte, v uint64) []byte { return appendU64LE(buf, v) }
func AppendString(buf []byte, s string) ([]byte, error) { return appendString(buf, s) }
func AppendBytes(buf []byte, b []byte) []byte { return appendBytes(buf, b) }

// Reader is a cursor over a wire-encoded buffer, exported for use by
// sibling wire formats.
type Reader struct {
	r reader
}

// NewReader wraps b for sequential decoding.
func NewReader(b []byte) *Reader { return &Reader{r: reader{b: b}} }

func (rd *Reader) ReadU16LE() (uint16, error)    { return rd.r.readU16LE() }
func (rd *Reader) ReadU32LE() (uint32, error)    { return rd.r.readU32LE() }
func (rd *Reader) ReadU64LE() (uint64, error)    { return rd.r.readU64LE() }
func (rd *Reader) ReadFixed(n int) ([]byte, error) { return rd.r.readFixed(n) }
func (rd *Reader) ReadString() (string, error)   { return rd.r.readString() }
func (rd *Reader) ReadBytes() ([]byte, error)    { return rd.r.readBytes() }
func (rd *Reader) Finished() bool                { return rd.r.finished() }
func (rd *Reader) Remaining() int                { return rd.r.remaining() }
