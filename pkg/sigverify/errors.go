package sigverify

import "errors"

// Proof and state errors, per spec.md §7.
var (
	ErrSessionAlreadyExists      = errors.New("sigverify: session already initialized for this (gateway_root, payload_root)")
	ErrSlotOutOfBounds           = errors.New("sigverify: leaf position exceeds the 256-slot field")
	ErrSlotAlreadyVerified       = errors.New("sigverify: slot already verified")
	ErrBadMerkleProof            = errors.New("sigverify: leaf does not prove against the signing verifier set root")
	ErrSigningSetMismatch        = errors.New("sigverify: signature proven against a different verifier set than the one locked on first success")
	ErrRecoveryFailed            = errors.New("sigverify: ECDSA public key recovery failed")
	ErrSignerMismatch            = errors.New("sigverify: recovered public key does not match the leaf's signer")
	ErrUnsupportedSignatureScheme = errors.New("sigverify: Ed25519 leaves are not verifiable on-chain (compute budget)")
	ErrQuorumNotReached          = errors.New("sigverify: accumulated weight has not reached quorum")
)
