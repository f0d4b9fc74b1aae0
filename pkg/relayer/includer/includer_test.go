package includer

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/require"

	"github.com/axelar-network/solana-bridge/pkg/codec"
)

type fakeSubmitter struct {
	sent       []*solana.Transaction
	signature  solana.Signature
	sendErr    error
	blockhash  solana.Hash
}

func (f *fakeSubmitter) SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error) {
	f.sent = append(f.sent, tx)
	if f.sendErr != nil {
		return solana.Signature{}, f.sendErr
	}
	return f.signature, nil
}

func (f *fakeSubmitter) GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	return &rpc.GetLatestBlockhashResult{
		Value: &rpc.LatestBlockhashResult{Blockhash: f.blockhash},
	}, nil
}

func testApprovalRequest() ApprovalRequest {
	return ApprovalRequest{
		Message: codec.MerkleisedMessage{
			Message: codec.Message{
				SourceChain:      "evm",
				MessageID:        "msg-1",
				SourceAddress:    "0xabc",
				DestinationChain: "solana",
			},
			Position: 0,
			SetSize:  1,
		},
		PayloadRoot: [32]byte{1, 2, 3},
	}
}

func TestSubmitBroadcastsSignedTransaction(t *testing.T) {
	wallet := solana.NewWallet()
	submitter := &fakeSubmitter{signature: solana.Signature{9, 9, 9}}

	inc, err := New(submitter, wallet.PrivateKey, solana.NewWallet().PublicKey())
	require.NoError(t, err)

	sig, err := inc.Submit(context.Background(), testApprovalRequest())
	require.NoError(t, err)
	require.Equal(t, submitter.signature, sig)
	require.Len(t, submitter.sent, 1)
}

func TestNewRejectsWrongSizedKeypair(t *testing.T) {
	submitter := &fakeSubmitter{}
	_, err := New(submitter, []byte{1, 2, 3}, solana.NewWallet().PublicKey())
	require.Error(t, err)
}

func TestSubmitPropagatesBroadcastError(t *testing.T) {
	wallet := solana.NewWallet()
	submitter := &fakeSubmitter{sendErr: errBroadcastFailed}

	inc, err := New(submitter, wallet.PrivateKey, solana.NewWallet().PublicKey())
	require.NoError(t, err)

	_, err = inc.Submit(context.Background(), testApprovalRequest())
	require.Error(t, err)
}

var errBroadcastFailed = errTest("rpc node rejected transaction")

type errTest string

func (e errTest) Error() string { return string(e) }
