// Package includer is the Relayer's Axelar-to-Solana transport
// direction named in spec.md §4.7: a thin shell that takes an approved
// message from Axelar and submits the Solana transaction that records
// its approval on the Gateway. As with pkg/relayer/sentinel, spec.md
// leaves this component's internals unspecified; this implementation
// follows the teacher's pkg/anchor submission shape (build, sign,
// broadcast) against gagliardetto/solana-go's rpc.Client instead of an
// Ethereum anchor transaction; it does not wait for confirmation.
package includer

import (
	"context"
	"fmt"
	"log"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/axelar-network/solana-bridge/pkg/codec"
	"github.com/axelar-network/solana-bridge/pkg/gateway"
	"github.com/axelar-network/solana-bridge/pkg/pda"
)

// TxSubmitter is the subset of gagliardetto/solana-go's rpc.Client the
// Includer needs, so tests can substitute an in-memory double instead of
// a live RPC endpoint.
type TxSubmitter interface {
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
}

// ApprovalRequest is one message Axelar has finished verifying and wants
// recorded as approved on the Solana Gateway.
type ApprovalRequest struct {
	Message     codec.MerkleisedMessage
	PayloadRoot [32]byte
}

// Includer submits approve_message transactions against one Gateway
// program deployment.
type Includer struct {
	submitter        TxSubmitter
	signer           solana.PrivateKey
	gatewayProgramID solana.PublicKey
	logger           *log.Logger
}

// New constructs an Includer. keypair is the base58-decoded signing key
// from config.Config.SolanaIncluderKeypair.
func New(submitter TxSubmitter, keypair []byte, gatewayProgramID solana.PublicKey) (*Includer, error) {
	if len(keypair) != ed25519PrivateKeySize {
		return nil, fmt.Errorf("includer: keypair must be %d bytes, got %d", ed25519PrivateKeySize, len(keypair))
	}
	return &Includer{
		submitter:        submitter,
		signer:           solana.PrivateKey(keypair),
		gatewayProgramID: gatewayProgramID,
		logger:           log.New(log.Writer(), "[relayer/includer] ", log.LstdFlags),
	}, nil
}

const ed25519PrivateKeySize = 64

// Submit builds, signs, and broadcasts the transaction recording req's
// approval. The instruction's account list is re-derived from the
// message itself (command id, incoming-message PDA), never trusted from
// req's caller, following the same re-derive-and-check discipline
// pkg/its.HandleInbound applies on the program side.
func (i *Includer) Submit(ctx context.Context, req ApprovalRequest) (solana.Signature, error) {
	commandID := codec.CommandID(req.Message.Message.SourceChain, req.Message.Message.MessageID)

	gatewayProgramAddr := pda.Address(i.gatewayProgramID)
	incomingAddr, _, err := gateway.IncomingMessageAddress(gatewayProgramAddr, commandID)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("includer: deriving incoming message PDA: %w", err)
	}

	data, err := codec.EncodeMessage(req.Message.Message)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("includer: encoding message: %w", err)
	}

	instruction := solana.NewInstruction(
		i.gatewayProgramID,
		solana.AccountMetaSlice{
			{PublicKey: solana.PublicKey(incomingAddr), IsSigner: false, IsWritable: true},
			{PublicKey: i.signer.PublicKey(), IsSigner: true, IsWritable: true},
			{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		},
		data,
	)

	latest, err := i.submitter.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("includer: fetching blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{instruction},
		latest.Value.Blockhash,
		solana.TransactionPayer(i.signer.PublicKey()),
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("includer: building transaction: %w", err)
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(i.signer.PublicKey()) {
			return &i.signer
		}
		return nil
	}); err != nil {
		return solana.Signature{}, fmt.Errorf("includer: signing transaction: %w", err)
	}

	sig, err := i.submitter.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("includer: broadcasting transaction: %w", err)
	}
	i.logger.Printf("message %s approved, tx %s", req.Message.Message.MessageID, sig)
	return sig, nil
}
