package codec

import "github.com/ethereum/go-ethereum/crypto"

// Message is the canonical cross-chain message record, per spec.md §3.
type Message struct {
	SourceChain         string
	MessageID           string
	SourceAddress       string
	DestinationChain    string
	DestinationAddress  [32]byte
	PayloadHash         [32]byte
}

const labelMessage = "message"

// EncodeMessage produces the canonical field encoding of a Message, in
// the field order declared in spec.md §3 (source_chain, message_id,
// source_address, destination_chain, destination_address, payload_hash).
func EncodeMessage(m Message) ([]byte, error) {
	var buf []byte
	var err error
	if buf, err = appendString(buf, m.SourceChain); err != nil {
		return nil, err
	}
	if buf, err = appendString(buf, m.MessageID); err != nil {
		return nil, err
	}
	if buf, err = appendString(buf, m.SourceAddress); err != nil {
		return nil, err
	}
	if buf, err = appendString(buf, m.DestinationChain); err != nil {
		return nil, err
	}
	buf = append(buf, m.DestinationAddress[:]...)
	buf = append(buf, m.PayloadHash[:]...)
	return buf, nil
}

// DecodeMessage is the inverse of EncodeMessage.
func DecodeMessage(b []byte) (Message, error) {
	r := &reader{b: b}
	var m Message
	var err error

	if m.SourceChain, err = r.readString(); err != nil {
		return Message{}, err
	}
	if m.MessageID, err = r.readString(); err != nil {
		return Message{}, err
	}
	if m.SourceAddress, err = r.readString(); err != nil {
		return Message{}, err
	}
	if m.DestinationChain, err = r.readString(); err != nil {
		return Message{}, err
	}
	dst, err := r.readFixed(32)
	if err != nil {
		return Message{}, err
	}
	copy(m.DestinationAddress[:], dst)
	ph, err := r.readFixed(32)
	if err != nil {
		return Message{}, err
	}
	copy(m.PayloadHash[:], ph)

	if !r.finished() {
		return Message{}, ErrTruncated
	}
	return m, nil
}

// HashMessage hashes a message's canonical encoding, independent of its
// position in any tree. This is the value an Incoming Message account
// stores as message_hash and that validate_message re-checks against.
func HashMessage(m Message) ([32]byte, error) {
	encoded, err := EncodeMessage(m)
	if err != nil {
		return [32]byte{}, err
	}
	return crypto.Keccak256Hash(encoded), nil
}

// CommandID derives keccak256(source_chain ‖ "-" ‖ message_id), per the
// seed table in spec.md §6.
func CommandID(sourceChain, messageID string) [32]byte {
	data := append([]byte(sourceChain), '-')
	data = append(data, messageID...)
	return crypto.Keccak256Hash(data)
}

// LeafHashMessage hashes a leaf as domain-prefix(0) ‖ label ‖ position(u16
// LE) ‖ set_size(u16 LE) ‖ encode(message), per spec.md §4.1.
func LeafHashMessage(position, setSize uint16, m Message) ([32]byte, error) {
	encoded, err := EncodeMessage(m)
	if err != nil {
		return [32]byte{}, err
	}
	buf := []byte{0}
	buf = append(buf, labelMessage...)
	buf = appendU16LE(buf, position)
	buf = appendU16LE(buf, setSize)
	buf = append(buf, encoded...)
	return crypto.Keccak256Hash(buf), nil
}

// MerkleisedMessage pairs a message with its claimed position in a
// payload tree and an inclusion proof, matching the "merkleised message"
// glossary entry.
type MerkleisedMessage struct {
	Message  Message
	Position uint16
	SetSize  uint16
	Proof    []ProofStep
}

// VerifyMessageInRoot checks that a merkleised message is included under
// the given payload root, catching the position/set_size inconsistency
// failure mode named in spec.md §4.1.
func VerifyMessageInRoot(mm MerkleisedMessage, root [32]byte) (bool, error) {
	if int(mm.SetSize) == 0 || int(mm.Position) >= int(mm.SetSize) {
		return false, ErrInconsistentLeaf
	}
	leaf, err := LeafHashMessage(mm.Position, mm.SetSize, mm.Message)
	if err != nil {
		return false, err
	}
	return VerifyProof(leaf, mm.Proof, root, mm.SetSize), nil
}
