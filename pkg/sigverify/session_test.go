package sigverify

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/axelar-network/solana-bridge/pkg/codec"
)

type testSigner struct {
	leaf codec.Signer
	sign func(digest [32]byte) codec.Signature
}

func newTestSigner(t *testing.T) testSigner {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	compressed := crypto.CompressPubkey(&key.PublicKey)

	return testSigner{
		leaf: codec.Signer{Scheme: codec.SchemeECDSASecp256k1, PubKey: compressed},
		sign: func(digest [32]byte) codec.Signature {
			raw, err := crypto.Sign(digest[:], key)
			require.NoError(t, err)
			var sig codec.Signature
			copy(sig.RS[:], raw[:64])
			sig.V = raw[64]
			return sig
		},
	}
}

func buildVerifierSet(signers []codec.Signer, quorum, epoch uint64) codec.VerifierSet {
	return codec.VerifierSet{Signers: signers, Quorum: quorum, Epoch: epoch}
}

// TestSingleHighWeightSignerReachesQuorum mirrors spec.md §8 scenario 1:
// two signers with weights 10 and 4 under quorum 10 — the first signer's
// weight alone is enough to make the session valid.
func TestSingleHighWeightSignerReachesQuorum(t *testing.T) {
	signerA := newTestSigner(t)
	signerB := newTestSigner(t)
	signerA.leaf.Weight = 10
	signerB.leaf.Weight = 4

	vs := buildVerifierSet([]codec.Signer{signerA.leaf, signerB.leaf}, 10, 1)
	root, err := vs.Root()
	require.NoError(t, err)

	leafHashes := make([][32]byte, len(vs.Signers))
	for i, s := range vs.Signers {
		leafHashes[i] = codec.LeafHashVerifierSet(uint16(i), uint16(len(vs.Signers)), vs.Quorum, vs.Epoch, s)
	}
	proofA, err := codec.MerkleProof(leafHashes, 0)
	require.NoError(t, err)

	payloadRoot := [32]byte{0xde, 0xad, 0xbe, 0xef}
	session := NewSession([32]byte{1}, payloadRoot)

	err = VerifySignature(session, VerifierSetLeaf{
		Position: 0, SetSize: 2, Quorum: vs.Quorum, Epoch: vs.Epoch, Signer: signerA.leaf,
	}, proofA, root, signerA.sign(payloadRoot))
	require.NoError(t, err)

	require.True(t, session.IsValid())
}

func TestSlotCannotBeReused(t *testing.T) {
	signerA := newTestSigner(t)
	signerA.leaf.Weight = 3

	vs := buildVerifierSet([]codec.Signer{signerA.leaf}, 10, 1)
	root, err := vs.Root()
	require.NoError(t, err)

	leafHash := codec.LeafHashVerifierSet(0, 1, vs.Quorum, vs.Epoch, signerA.leaf)
	proof, err := codec.MerkleProof([][32]byte{leafHash}, 0)
	require.NoError(t, err)

	payloadRoot := [32]byte{0x01}
	session := NewSession([32]byte{2}, payloadRoot)
	leaf := VerifierSetLeaf{Position: 0, SetSize: 1, Quorum: vs.Quorum, Epoch: vs.Epoch, Signer: signerA.leaf}

	require.NoError(t, VerifySignature(session, leaf, proof, root, signerA.sign(payloadRoot)))
	err = VerifySignature(session, leaf, proof, root, signerA.sign(payloadRoot))
	require.ErrorIs(t, err, ErrSlotAlreadyVerified)
}

func TestMismatchedSignerIsRejected(t *testing.T) {
	signerA := newTestSigner(t)
	signerB := newTestSigner(t)
	signerA.leaf.Weight = 5

	vs := buildVerifierSet([]codec.Signer{signerA.leaf}, 10, 1)
	root, err := vs.Root()
	require.NoError(t, err)

	leafHash := codec.LeafHashVerifierSet(0, 1, vs.Quorum, vs.Epoch, signerA.leaf)
	proof, err := codec.MerkleProof([][32]byte{leafHash}, 0)
	require.NoError(t, err)

	payloadRoot := [32]byte{0x09}
	session := NewSession([32]byte{3}, payloadRoot)
	leaf := VerifierSetLeaf{Position: 0, SetSize: 1, Quorum: vs.Quorum, Epoch: vs.Epoch, Signer: signerA.leaf}

	// Signature is valid but produced by a different key than the leaf claims.
	err = VerifySignature(session, leaf, proof, root, signerB.sign(payloadRoot))
	require.ErrorIs(t, err, ErrSignerMismatch)
}

func TestEd25519LeafIsRejected(t *testing.T) {
	signer := codec.Signer{Scheme: codec.SchemeEd25519, PubKey: make([]byte, 32), Weight: 1}
	vs := buildVerifierSet([]codec.Signer{signer}, 1, 1)
	root, err := vs.Root()
	require.NoError(t, err)

	leafHash := codec.LeafHashVerifierSet(0, 1, vs.Quorum, vs.Epoch, signer)
	proof, err := codec.MerkleProof([][32]byte{leafHash}, 0)
	require.NoError(t, err)

	session := NewSession([32]byte{4}, [32]byte{5})
	leaf := VerifierSetLeaf{Position: 0, SetSize: 1, Quorum: vs.Quorum, Epoch: vs.Epoch, Signer: signer}

	err = VerifySignature(session, leaf, proof, root, codec.Signature{})
	require.ErrorIs(t, err, ErrUnsupportedSignatureScheme)
}

func TestSigningSetCannotChangeMidSession(t *testing.T) {
	signerA := newTestSigner(t)
	signerB := newTestSigner(t)
	signerA.leaf.Weight = 2
	signerB.leaf.Weight = 2

	vsOne := buildVerifierSet([]codec.Signer{signerA.leaf}, 10, 1)
	rootOne, err := vsOne.Root()
	require.NoError(t, err)
	leafHashOne := codec.LeafHashVerifierSet(0, 1, vsOne.Quorum, vsOne.Epoch, signerA.leaf)
	proofOne, err := codec.MerkleProof([][32]byte{leafHashOne}, 0)
	require.NoError(t, err)

	// A second, differently-shaped verifier set (two signers, new epoch).
	// Its root differs from vsOne's even at the same leaf position.
	vsTwo := buildVerifierSet([]codec.Signer{signerA.leaf, signerB.leaf}, 10, 2)
	rootTwo, err := vsTwo.Root()
	require.NoError(t, err)
	leafHashTwoB := codec.LeafHashVerifierSet(1, 2, vsTwo.Quorum, vsTwo.Epoch, signerB.leaf)
	leafHashTwoA := codec.LeafHashVerifierSet(0, 2, vsTwo.Quorum, vsTwo.Epoch, signerA.leaf)
	proofTwo, err := codec.MerkleProof([][32]byte{leafHashTwoA, leafHashTwoB}, 1)
	require.NoError(t, err)

	payloadRoot := [32]byte{0x07}
	session := NewSession([32]byte{6}, payloadRoot)

	leafOne := VerifierSetLeaf{Position: 0, SetSize: 1, Quorum: vsOne.Quorum, Epoch: vsOne.Epoch, Signer: signerA.leaf}
	require.NoError(t, VerifySignature(session, leafOne, proofOne, rootOne, signerA.sign(payloadRoot)))

	// Different slot (1), but proving against vsTwo's root while the
	// session is already locked to vsOne's root.
	leafTwo := VerifierSetLeaf{Position: 1, SetSize: 2, Quorum: vsTwo.Quorum, Epoch: vsTwo.Epoch, Signer: signerB.leaf}
	err = VerifySignature(session, leafTwo, proofTwo, rootTwo, signerB.sign(payloadRoot))
	require.ErrorIs(t, err, ErrSigningSetMismatch)
}
