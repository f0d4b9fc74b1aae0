package sigverify

import (
	"bytes"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/axelar-network/solana-bridge/pkg/codec"
)

// Session is a Signature Verification Session, the account that
// accumulates recoverable-signature weight against a specific
// (gateway_root, payload_root) pair, per spec.md §3.
type Session struct {
	GatewayRoot [32]byte
	PayloadRoot [32]byte

	AccumulatedWeight Weight128
	Slots             SlotBits

	// SigningVerifierSetHash is the verifier-set root the first
	// successful leaf proved against. Every subsequent leaf in the same
	// session must prove against the same root; spec.md §4.2 forbids
	// mixing signers from two different verifier sets in one session.
	SigningVerifierSetHash [32]byte
	SigningVerifierSetLocked bool
}

// NewSession initializes an empty session for a given gateway root and
// payload root, per spec.md §4.1's InitializePayloadVerificationSession.
func NewSession(gatewayRoot, payloadRoot [32]byte) *Session {
	return &Session{GatewayRoot: gatewayRoot, PayloadRoot: payloadRoot}
}

// IsValid reports whether the session has reached quorum. Once quorum is
// reached the accumulated weight is saturated to MaxWeight128, so this
// remains true regardless of what happens to the session afterward.
func (s *Session) IsValid() bool {
	return s.AccumulatedWeight == MaxWeight128
}

// VerifierSetLeaf bundles the fields of one verifier-set Merkle leaf
// needed to verify a single signature against it, per spec.md §3.
type VerifierSetLeaf struct {
	Position uint16
	SetSize  uint16
	Quorum   uint64
	Epoch    uint64
	Signer   codec.Signer
}

// VerifySignature runs one step of the incremental verification lifecycle
// described in spec.md §4.2:
//
//  1. the leaf's slot must not already be marked used;
//  2. the leaf must prove into verifierSetRoot, and that root must match
//     (or establish) the session's locked signing verifier set;
//  3. the leaf's key must be ECDSA secp256k1 (Ed25519 is rejected
//     outright — no on-chain compute budget for it) and must recover
//     from sig over the session's payload root;
//  4. the leaf's weight is added to the session's accumulator, with
//     saturation;
//  5. the leaf's slot is marked used;
//  6. if accumulated weight has reached quorum, it is saturated to
//     MaxWeight128 so the session is permanently valid.
func VerifySignature(session *Session, leaf VerifierSetLeaf, proof []codec.ProofStep, verifierSetRoot [32]byte, sig codec.Signature) error {
	if leaf.Position >= MaxSlots {
		return ErrSlotOutOfBounds
	}
	if session.Slots.IsSet(leaf.Position) {
		return ErrSlotAlreadyVerified
	}

	leafHash := codec.LeafHashVerifierSet(leaf.Position, leaf.SetSize, leaf.Quorum, leaf.Epoch, leaf.Signer)
	if !codec.VerifyProof(leafHash, proof, verifierSetRoot, leaf.SetSize) {
		return ErrBadMerkleProof
	}

	if !session.SigningVerifierSetLocked {
		session.SigningVerifierSetHash = verifierSetRoot
		session.SigningVerifierSetLocked = true
	} else if session.SigningVerifierSetHash != verifierSetRoot {
		return ErrSigningSetMismatch
	}

	if leaf.Signer.Scheme != codec.SchemeECDSASecp256k1 {
		return ErrUnsupportedSignatureScheme
	}

	recoveredPub, err := recoverCompressedPubKey(session.PayloadRoot, sig)
	if err != nil {
		return ErrRecoveryFailed
	}
	if !bytes.Equal(recoveredPub, leaf.Signer.PubKey) {
		return ErrSignerMismatch
	}

	session.AccumulatedWeight = session.AccumulatedWeight.AddSaturating(leaf.Signer.Weight)
	session.Slots.Set(leaf.Position)

	if session.AccumulatedWeight.GTE(leaf.Quorum) {
		session.AccumulatedWeight = SaturateToMax()
	}

	return nil
}

// recoverCompressedPubKey recovers the compressed secp256k1 public key
// that produced sig over digest, using the same Ecrecover/SigToPub path
// as an EVM client would.
func recoverCompressedPubKey(digest [32]byte, sig codec.Signature) ([]byte, error) {
	recoverable := make([]byte, 65)
	copy(recoverable, sig.RS[:])
	recoverable[64] = codec.NormalizeRecoveryID(sig.V)

	pub, err := crypto.SigToPub(digest[:], recoverable)
	if err != nil {
		return nil, err
	}
	return crypto.CompressPubkey(pub), nil
}
