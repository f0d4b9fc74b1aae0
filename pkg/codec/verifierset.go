package codec

import "github.com/ethereum/go-ethereum/crypto"

const labelVerifierSet = "verifier_set"

// Scheme identifies the key type a verifier-set leaf carries. The codec
// accepts both; spec.md §4.2 has the on-chain verifier reject Ed25519
// leaves outright (no compute budget for full Ed25519 verification) while
// still being able to decode and hash them like any other leaf.
type Scheme uint8

const (
	SchemeECDSASecp256k1 Scheme = 0
	SchemeEd25519        Scheme = 1
)

// Signer is one (public_key, weight) leaf of a verifier set, per spec.md
// §3. PubKey is 33 bytes (compressed secp256k1) or 32 bytes (Ed25519),
// selected by Scheme.
type Signer struct {
	Scheme Scheme
	PubKey []byte
	Weight uint64
}

// VerifierSet is an ordered list of signers plus a quorum threshold and a
// monotonically increasing epoch, per spec.md §3.
type VerifierSet struct {
	Signers []Signer
	Quorum  uint64
	Epoch   uint64
}

// EncodeVerifierSetLeaf produces the canonical field encoding of one
// verifier-set leaf: (position, set_size, quorum, epoch, signer_pubkey,
// signer_weight), per spec.md §3's root definition.
func EncodeVerifierSetLeaf(position, setSize uint16, quorum, epoch uint64, signer Signer) []byte {
	var buf []byte
	buf = appendU16LE(buf, position)
	buf = appendU16LE(buf, setSize)
	buf = appendU64LE(buf, quorum)
	buf = appendU64LE(buf, epoch)
	buf = append(buf, byte(signer.Scheme))
	buf = appendBytes(buf, signer.PubKey)
	buf = appendU64LE(buf, signer.Weight)
	return buf
}

// LeafHashVerifierSet hashes a verifier-set leaf with the domain prefix
// and label required by spec.md §4.1.
func LeafHashVerifierSet(position, setSize uint16, quorum, epoch uint64, signer Signer) [32]byte {
	buf := []byte{0}
	buf = append(buf, labelVerifierSet...)
	buf = appendU16LE(buf, position)
	buf = appendU16LE(buf, setSize)
	buf = append(buf, EncodeVerifierSetLeaf(position, setSize, quorum, epoch, signer)...)
	return crypto.Keccak256Hash(buf)
}

// Root computes the verifier set's Merkle root: the keccak256 tree over
// leaf hashes of every (position, set_size, quorum, epoch, pubkey,
// weight) tuple, in declared order. This root is the verifier set's
// identity, per spec.md §3.
func (vs VerifierSet) Root() ([32]byte, error) {
	setSize := uint16(len(vs.Signers))
	leaves := make([][32]byte, setSize)
	for i, signer := range vs.Signers {
		leaves[i] = LeafHashVerifierSet(uint16(i), setSize, vs.Quorum, vs.Epoch, signer)
	}
	return MerkleRoot(leaves)
}

// Signature is a 64-byte ECDSA-recoverable (r‖s) signature plus a
// recovery id, per spec.md §4.2. Ethereum-form recovery ids (27/28) are
// normalized to 0/1 by NormalizeRecoveryID before use.
type Signature struct {
	RS [64]byte
	V  uint8
}

// NormalizeRecoveryID maps Ethereum-style 27/28 recovery ids down to the
// 0/1 range go-ethereum's Ecrecover expects, per spec.md §4.2.
func NormalizeRecoveryID(v uint8) uint8 {
	if v >= 27 {
		return v - 27
	}
	return v
}

// EncodeSignature is the wire encoding of a signature leaf.
func EncodeSignature(sig Signature) []byte {
	buf := make([]byte, 0, 65)
	buf = append(buf, sig.RS[:]...)
	buf = append(buf, sig.V)
	return buf
}
