package gateway

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/axelar-network/solana-bridge/pkg/codec"
	"github.com/axelar-network/solana-bridge/pkg/gateway/event"
	"github.com/axelar-network/solana-bridge/pkg/pda"
	"github.com/axelar-network/solana-bridge/pkg/sigverify"
	"github.com/axelar-network/solana-bridge/pkg/store"
)

type weightedSigner struct {
	leaf codec.Signer
	sign func(digest [32]byte) codec.Signature
}

func newWeightedSigner(t *testing.T, weight uint64) weightedSigner {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	compressed := crypto.CompressPubkey(&key.PublicKey)

	return weightedSigner{
		leaf: codec.Signer{Scheme: codec.SchemeECDSASecp256k1, PubKey: compressed, Weight: weight},
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

func newTestGateway() *Gateway {
	return &Gateway{
		ProgramID: pda.Address{0xAA, 0xBB},
		Accounts:  store.NewAccountStore(store.NewMemoryKV()),
		Clock:     NewManualClock(1_000_000),
	}
}

// driveSessionToQuorum submits every signer's proof against the given
// payload root until the session is valid, returning the session address.
func driveSessionToQuorum(t *testing.T, g *Gateway, vs codec.VerifierSet, signers []weightedSigner, payloadRoot [32]byte) pda.Address {
	t.Helper()
	sessionAddr, err := g.InitializePayloadVerificationSession(payloadRoot)
	require.NoError(t, err)

	root, err := vs.Root()
	require.NoError(t, err)

	leafHashes := make([][32]byte, len(vs.Signers))
	for i, s := range vs.Signers {
		leafHashes[i] = codec.LeafHashVerifierSet(uint16(i), uint16(len(vs.Signers)), vs.Quorum, vs.Epoch, s)
	}

	for i, signer := range signers {
		proof, err := codec.MerkleProof(leafHashes, i)
		require.NoError(t, err)
		leaf := sigverify.VerifierSetLeaf{
			Position: uint16(i), SetSize: uint16(len(vs.Signers)), Quorum: vs.Quorum, Epoch: vs.Epoch, Signer: signer.leaf,
		}
		err = g.VerifySignature(sessionAddr, leaf, proof, root, signer.sign(payloadRoot))
		require.NoError(t, err)

		var session sigverify.Session
		require.NoError(t, g.Accounts.LoadAccount(sessionAddr, &session))
		if session.IsValid() {
			break
		}
	}
	return sessionAddr
}

func setupGatewayWithVerifierSet(t *testing.T, g *Gateway, signers []weightedSigner, quorum uint64) codec.VerifierSet {
	t.Helper()
	vsSigners := make([]codec.Signer, len(signers))
	for i, s := range signers {
		vsSigners[i] = s.leaf
	}
	vs := codec.VerifierSet{Signers: vsSigners, Quorum: quorum, Epoch: 1}

	_, err := g.InitializeConfig(pda.Address{0x01}, [32]byte{0x02}, []codec.VerifierSet{vs}, 1, 3600)
	require.NoError(t, err)
	return vs
}

func buildSingleMessagePayload(m codec.Message) (payloadRoot [32]byte, mm codec.MerkleisedMessage) {
	leafHash, err := codec.LeafHashMessage(0, 1, m)
	if err != nil {
		panic(err)
	}
	root, err := codec.MerkleRoot([][32]byte{leafHash})
	if err != nil {
		panic(err)
	}
	proof, err := codec.MerkleProof([][32]byte{leafHash}, 0)
	if err != nil {
		panic(err)
	}
	return root, codec.MerkleisedMessage{Message: m, Position: 0, SetSize: 1, Proof: proof}
}

// TestApproveThenExecute mirrors spec.md §8 scenario 1.
func TestApproveThenExecute(t *testing.T) {
	g := newTestGateway()
	signerA := newWeightedSigner(t, 10)
	signerB := newWeightedSigner(t, 4)
	setupGatewayWithVerifierSet(t, g, []weightedSigner{signerA, signerB}, 10)

	msg := codec.Message{SourceChain: "evm", MessageID: "tx-1", SourceAddress: "0xabc", DestinationChain: "solana", PayloadHash: [32]byte{0xAA}}
	payloadRoot, mm := buildSingleMessagePayload(msg)

	vs := codec.VerifierSet{Signers: []codec.Signer{signerA.leaf, signerB.leaf}, Quorum: 10, Epoch: 1}
	driveSessionToQuorum(t, g, vs, []weightedSigner{signerA}, payloadRoot)

	var logs [][]byte
	g.Logs = func(raw []byte) { logs = append(logs, raw) }

	require.NoError(t, g.ApproveMessage(mm, payloadRoot))

	commandID := codec.CommandID(msg.SourceChain, msg.MessageID)
	incomingAddr, _, err := IncomingMessageAddress(g.ProgramID, commandID)
	require.NoError(t, err)
	var record IncomingMessage
	require.NoError(t, g.Accounts.LoadAccount(incomingAddr, &record))
	require.Equal(t, msg.PayloadHash, record.PayloadHash)

	require.Len(t, logs, 1)
	decoded, err := event.Decode(logs[0])
	require.NoError(t, err)
	require.Equal(t, event.LabelMessageApproved, decoded.Label)
	require.Len(t, decoded.Segments, 7)
	gotPayloadHash, err := event.DecodePubkeySegment(decoded.Segments[2])
	require.NoError(t, err)
	require.Equal(t, msg.PayloadHash, gotPayloadHash)
	require.Equal(t, msg.SourceChain, string(decoded.Segments[3]))
	require.Equal(t, msg.MessageID, string(decoded.Segments[4]))
	require.Equal(t, msg.SourceAddress, string(decoded.Segments[5]))
	require.Equal(t, msg.DestinationChain, string(decoded.Segments[6]))

	require.NoError(t, g.ValidateMessage(msg))

	err = g.ValidateMessage(msg)
	require.ErrorIs(t, err, ErrMessageNotApproved)
}

// TestTamperedMessageRejected mirrors spec.md §8 scenario 2.
func TestTamperedMessageRejected(t *testing.T) {
	g := newTestGateway()
	signerA := newWeightedSigner(t, 10)
	signerB := newWeightedSigner(t, 4)
	setupGatewayWithVerifierSet(t, g, []weightedSigner{signerA, signerB}, 10)

	msg := codec.Message{SourceChain: "evm", MessageID: "tx-1", SourceAddress: "0xabc", DestinationChain: "solana", PayloadHash: [32]byte{0xAA}}
	payloadRoot, mm := buildSingleMessagePayload(msg)

	vs := codec.VerifierSet{Signers: []codec.Signer{signerA.leaf, signerB.leaf}, Quorum: 10, Epoch: 1}
	driveSessionToQuorum(t, g, vs, []weightedSigner{signerA}, payloadRoot)

	require.NoError(t, g.ApproveMessage(mm, payloadRoot))

	tampered := msg
	tampered.PayloadHash = [32]byte{0xBB}
	err := g.ValidateMessage(tampered)
	require.ErrorIs(t, err, ErrMessageHasBeenTamperedWith)
}

// TestRotationAuthorizationRules mirrors spec.md §8 scenario 3.
func TestRotationAuthorizationRules(t *testing.T) {
	g := newTestGateway()
	signerA1 := newWeightedSigner(t, 10)
	signerA2 := newWeightedSigner(t, 4)
	vsA := setupGatewayWithVerifierSet(t, g, []weightedSigner{signerA1, signerA2}, 10)

	operator := pda.Address{0x01}

	// Rotate A -> B, signed by A (the then-latest set), as a non-operator.
	signerB1 := newWeightedSigner(t, 10)
	vsB := codec.VerifierSet{Signers: []codec.Signer{signerB1.leaf}, Quorum: 10, Epoch: 2}

	g.Clock.(*ManualClock).Advance(3600)
	payloadRootAB := [32]byte{0x10}
	sessionAB := driveSessionToQuorum(t, g, vsA, []weightedSigner{signerA1}, payloadRootAB)
	rootA, err := vsA.Root()
	require.NoError(t, err)
	require.NoError(t, g.RotateSigners(vsB, sessionAB, rootA, false, pda.Address{}))

	// Further rotation B -> C, signed by A (now stale, not latest): must
	// fail unless submitted by the operator.
	signerC1 := newWeightedSigner(t, 10)
	vsC := codec.VerifierSet{Signers: []codec.Signer{signerC1.leaf}, Quorum: 10, Epoch: 3}

	g.Clock.(*ManualClock).Advance(3600)
	payloadRootAC := [32]byte{0x11}
	sessionAC := driveSessionToQuorum(t, g, vsA, []weightedSigner{signerA1}, payloadRootAC)

	err = g.RotateSigners(vsC, sessionAC, rootA, false, pda.Address{})
	require.ErrorIs(t, err, ErrProofNotSignedByLatestSigners)

	// Same rotation submitted by the operator succeeds (A is still within
	// the retention window of 1 prior epoch).
	g.Clock.(*ManualClock).Advance(3600)
	require.NoError(t, g.RotateSigners(vsC, sessionAC, rootA, true, operator))
}
