// Package gateway implements the Gateway Core: the message approval
// lifecycle, signer-set rotation, and outbound CallContract emission
// described in spec.md §4.3. Each exported method models one Solana
// instruction: it loads the accounts it needs from a store.AccountStore,
// applies the instruction's checks and effects atomically, and returns an
// error instead of partially updating state on failure — mirroring a
// Solana transaction's all-or-nothing semantics.
package gateway

import (
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/axelar-network/solana-bridge/pkg/codec"
	"github.com/axelar-network/solana-bridge/pkg/gateway/event"
	"github.com/axelar-network/solana-bridge/pkg/pda"
	"github.com/axelar-network/solana-bridge/pkg/sigverify"
	"github.com/axelar-network/solana-bridge/pkg/store"
)

// Gateway wraps the account store backing one Gateway program instance.
type Gateway struct {
	ProgramID pda.Address
	Accounts  *store.AccountStore
	Clock     Clock

	// Logs receives every event this Gateway emits, in spec.md §6's
	// segmented-log wire form. Tests and the relayer's Sentinel both
	// consume this the same way a Solana log subscription would.
	Logs func(raw []byte)
}

func (g *Gateway) emit(raw []byte) {
	if g.Logs != nil {
		g.Logs(raw)
	}
}

func gatewayRootSeed(configAddr pda.Address) [32]byte {
	var out [32]byte
	copy(out[:], configAddr[:])
	return out
}

// InitializeConfig creates the root config PDA and one Verifier-Set
// Tracker PDA per initial verifier set, per spec.md §4.3. Idempotent by
// PDA existence: calling it again on an already-initialized gateway
// returns the existing config rather than erroring.
func (g *Gateway) InitializeConfig(operator pda.Address, domainSeparator [32]byte, initialVerifierSets []codec.VerifierSet, previousRetention uint64, minRotationDelay int64) (*Config, error) {
	addr, bump, err := ConfigAddress(g.ProgramID)
	if err != nil {
		return nil, err
	}

	var existing Config
	if err := g.Accounts.LoadAccount(addr, &existing); err == nil {
		return &existing, nil
	} else if err != store.ErrAccountNotFound {
		return nil, err
	}

	cfg := Config{
		Bump:                         bump,
		OperatorPubkey:               operator,
		DomainSeparator:              domainSeparator,
		CurrentEpoch:                 uint64(len(initialVerifierSets)),
		PreviousVerifierSetRetention: previousRetention,
		MinimumRotationDelaySeconds:  minRotationDelay,
		LastRotationTimestamp:        g.Clock.Now(),
	}

	for i, vs := range initialVerifierSets {
		root, err := vs.Root()
		if err != nil {
			return nil, err
		}
		trackerAddr, trackerBump, err := VerifierSetTrackerAddress(g.ProgramID, root)
		if err != nil {
			return nil, err
		}
		tracker := VerifierSetTracker{Bump: trackerBump, Root: root, Epoch: uint64(i + 1)}
		if err := g.Accounts.CreateAccount(trackerAddr, tracker); err != nil {
			return nil, err
		}
	}

	if err := g.Accounts.CreateAccount(addr, cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (g *Gateway) loadConfig() (pda.Address, Config, error) {
	addr, _, err := ConfigAddress(g.ProgramID)
	if err != nil {
		return addr, Config{}, err
	}
	var cfg Config
	if err := g.Accounts.LoadAccount(addr, &cfg); err != nil {
		if err == store.ErrAccountNotFound {
			return addr, Config{}, ErrNotInitialized
		}
		return addr, Config{}, err
	}
	return addr, cfg, nil
}

// InitializePayloadVerificationSession creates a Signature Verification
// Session PDA for the given payload root, failing if one already exists,
// per spec.md §4.2 step 1.
func (g *Gateway) InitializePayloadVerificationSession(payloadRoot [32]byte) (pda.Address, error) {
	configAddr, _, err := g.loadConfig()
	if err != nil {
		return pda.Address{}, err
	}

	gatewayRoot := gatewayRootSeed(configAddr)
	sessionAddr, _, err := SignatureSessionAddress(g.ProgramID, gatewayRoot, payloadRoot)
	if err != nil {
		return pda.Address{}, err
	}

	session := sigverify.NewSession(gatewayRoot, payloadRoot)
	if err := g.Accounts.CreateAccount(sessionAddr, session); err != nil {
		if err == store.ErrAccountAlreadyExists {
			return pda.Address{}, ErrAlreadyInitialized
		}
		return pda.Address{}, err
	}
	return sessionAddr, nil
}

// VerifySignature loads the session at sessionAddr, applies one
// incremental signature check, and persists the result. Errors returned
// by pkg/sigverify are surfaced unchanged so callers can branch on them
// with errors.Is.
func (g *Gateway) VerifySignature(sessionAddr pda.Address, leaf sigverify.VerifierSetLeaf, proof []codec.ProofStep, verifierSetRoot [32]byte, sig codec.Signature) error {
	var session sigverify.Session
	if err := g.Accounts.LoadAccount(sessionAddr, &session); err != nil {
		return err
	}

	if err := sigverify.VerifySignature(&session, leaf, proof, verifierSetRoot, sig); err != nil {
		return err
	}

	return g.Accounts.SaveAccount(sessionAddr, session)
}

// ApproveMessage records a message's approval, per spec.md §4.3.
// Requires: the gateway is initialized; the session for payloadRoot
// exists and has reached quorum; the message's leaf hash is contained in
// payloadRoot; and no prior approval exists for its command_id.
func (g *Gateway) ApproveMessage(mm codec.MerkleisedMessage, payloadRoot [32]byte) error {
	configAddr, _, err := g.loadConfig()
	if err != nil {
		return err
	}

	gatewayRoot := gatewayRootSeed(configAddr)
	sessionAddr, _, err := SignatureSessionAddress(g.ProgramID, gatewayRoot, payloadRoot)
	if err != nil {
		return err
	}
	var session sigverify.Session
	if err := g.Accounts.LoadAccount(sessionAddr, &session); err != nil {
		if err == store.ErrAccountNotFound {
			return ErrSessionNotValid
		}
		return err
	}
	if !session.IsValid() {
		return ErrSessionNotValid
	}

	ok, err := codec.VerifyMessageInRoot(mm, payloadRoot)
	if err != nil {
		return err
	}
	if !ok {
		return ErrLeafNotInRoot
	}

	commandID := codec.CommandID(mm.Message.SourceChain, mm.Message.MessageID)
	incomingAddr, incomingBump, err := IncomingMessageAddress(g.ProgramID, commandID)
	if err != nil {
		return err
	}
	if exists, err := g.Accounts.AccountExists(incomingAddr); err != nil {
		return err
	} else if exists {
		return ErrMessageAlreadyApproved
	}

	messageHash, err := codec.HashMessage(mm.Message)
	if err != nil {
		return err
	}

	_, signingBump, err := CallContractSigningAddress(g.ProgramID, mm.Message.DestinationAddress)
	if err != nil {
		return err
	}

	record := IncomingMessage{
		Bump:           incomingBump,
		SigningPDABump: signingBump,
		Status:         StatusApproved,
		MessageHash:    messageHash,
		PayloadHash:    mm.Message.PayloadHash,
	}
	if err := g.Accounts.CreateAccount(incomingAddr, record); err != nil {
		return err
	}

	g.emit(event.Encode(event.LabelMessageApproved,
		event.PubkeySegment(commandID),
		event.PubkeySegment(mm.Message.DestinationAddress),
		event.PubkeySegment(mm.Message.PayloadHash),
		event.StringSegment(mm.Message.SourceChain),
		event.StringSegment(mm.Message.MessageID),
		event.StringSegment(mm.Message.SourceAddress),
		event.StringSegment(mm.Message.DestinationChain),
	))
	return nil
}

// ValidateMessage is called by a destination program via CPI (a signing
// PDA derived from (destination_program, command_id) in a real
// deployment; here the caller supplies the message and command_id is
// derived from its source_chain and message_id). Requires status=Approved and a matching message hash;
// transitions the record to Executed, per spec.md §4.3.
func (g *Gateway) ValidateMessage(m codec.Message) error {
	commandID := codec.CommandID(m.SourceChain, m.MessageID)
	addr, _, err := IncomingMessageAddress(g.ProgramID, commandID)
	if err != nil {
		return err
	}

	var record IncomingMessage
	if err := g.Accounts.LoadAccount(addr, &record); err != nil {
		if err == store.ErrAccountNotFound {
			return ErrMessageNotApproved
		}
		return err
	}
	if record.Status != StatusApproved {
		return ErrMessageNotApproved
	}

	gotHash, err := codec.HashMessage(m)
	if err != nil {
		return err
	}
	if gotHash != record.MessageHash {
		return ErrMessageHasBeenTamperedWith
	}

	record.Status = StatusExecuted
	if err := g.Accounts.SaveAccount(addr, record); err != nil {
		return err
	}

	g.emit(event.Encode(event.LabelMessageExecuted, event.PubkeySegment(commandID)))
	return nil
}

// RotateSigners bumps current_epoch and creates a tracker PDA for the new
// verifier set, per spec.md §4.3. The proof session must be valid and
// signed either by the latest verifier set, or by the operator (who may
// use any retained set). Same-root rotations are idempotent no-ops.
func (g *Gateway) RotateSigners(newSet codec.VerifierSet, provingSessionAddr pda.Address, provingVerifierSetRoot [32]byte, submittedByOperator bool, submitter pda.Address) error {
	configAddr, cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	if submittedByOperator && submitter != cfg.OperatorPubkey {
		return ErrWrongOperator
	}

	var session sigverify.Session
	if err := g.Accounts.LoadAccount(provingSessionAddr, &session); err != nil {
		if err == store.ErrAccountNotFound {
			return ErrSessionNotValid
		}
		return err
	}
	if !session.IsValid() {
		return ErrSessionNotValid
	}
	if session.SigningVerifierSetHash != provingVerifierSetRoot {
		return ErrSessionNotValid
	}

	provingTrackerAddr, _, err := VerifierSetTrackerAddress(g.ProgramID, provingVerifierSetRoot)
	if err != nil {
		return err
	}
	var provingTracker VerifierSetTracker
	if err := g.Accounts.LoadAccount(provingTrackerAddr, &provingTracker); err != nil {
		if err == store.ErrAccountNotFound {
			return ErrVerifierSetNotFound
		}
		return err
	}

	if !submittedByOperator && provingTracker.Epoch != cfg.CurrentEpoch {
		return ErrProofNotSignedByLatestSigners
	}
	if submittedByOperator {
		oldestRetained := int64(cfg.CurrentEpoch) - int64(cfg.PreviousVerifierSetRetention)
		if int64(provingTracker.Epoch) < oldestRetained {
			return ErrVerifierSetRetired
		}
	}

	newRoot, err := newSet.Root()
	if err != nil {
		return err
	}
	newTrackerAddr, newTrackerBump, err := VerifierSetTrackerAddress(g.ProgramID, newRoot)
	if err != nil {
		return err
	}
	if exists, err := g.Accounts.AccountExists(newTrackerAddr); err != nil {
		return err
	} else if exists {
		// Same-root rotation: idempotent no-op.
		return nil
	}

	if g.Clock.Now()-cfg.LastRotationTimestamp < cfg.MinimumRotationDelaySeconds {
		return ErrRotationDelayNotElapsed
	}

	cfg.CurrentEpoch++
	cfg.LastRotationTimestamp = g.Clock.Now()
	tracker := VerifierSetTracker{Bump: newTrackerBump, Root: newRoot, Epoch: cfg.CurrentEpoch}
	if err := g.Accounts.CreateAccount(newTrackerAddr, tracker); err != nil {
		return err
	}
	if err := g.Accounts.SaveAccount(configAddr, cfg); err != nil {
		return err
	}

	g.emit(event.Encode(event.LabelSignersRotated, event.PubkeySegment(newRoot), event.U64Segment(cfg.CurrentEpoch)))
	return nil
}

// CallContract emits an outbound call event carrying the full payload.
// The caller must sign from the PDA derived under
// CallContractSigningAddress; in this library form that signature is
// represented by the caller supplying its own program id, which this
// method re-derives and records as the true caller.
func (g *Gateway) CallContract(callerProgramID pda.Address, destinationChain, destinationAddress string, payload []byte) error {
	signingPDA, _, err := CallContractSigningAddress(g.ProgramID, callerProgramID)
	if err != nil {
		return err
	}
	payloadHash := crypto.Keccak256Hash(payload)

	g.emit(event.Encode(event.LabelCallContract,
		event.PubkeySegment(pdaToBytes(signingPDA)),
		event.StringSegment(destinationChain),
		event.StringSegment(destinationAddress),
		event.PubkeySegment(payloadHash),
		payload,
	))
	return nil
}

// CallContractOffchainData emits an outbound call event carrying only the
// payload's hash, for payloads posted out-of-band.
func (g *Gateway) CallContractOffchainData(callerProgramID pda.Address, destinationChain, destinationAddress string, payloadHash [32]byte) error {
	signingPDA, _, err := CallContractSigningAddress(g.ProgramID, callerProgramID)
	if err != nil {
		return err
	}

	g.emit(event.Encode(event.LabelCallContractOffchainData,
		event.PubkeySegment(pdaToBytes(signingPDA)),
		event.StringSegment(destinationChain),
		event.StringSegment(destinationAddress),
		event.PubkeySegment(payloadHash),
	))
	return nil
}

// TransferOperatorship reassigns the operator, authorized by either the
// current operator or the program upgrade authority.
func (g *Gateway) TransferOperatorship(newOperator pda.Address, submitter pda.Address, submitterIsUpgradeAuthority bool) error {
	configAddr, cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if !submitterIsUpgradeAuthority && submitter != cfg.OperatorPubkey {
		return ErrWrongOperator
	}

	oldOperator := cfg.OperatorPubkey
	cfg.OperatorPubkey = newOperator
	if err := g.Accounts.SaveAccount(configAddr, cfg); err != nil {
		return err
	}

	g.emit(event.Encode(event.LabelOperatorshipTransferred,
		event.PubkeySegment(pdaToBytes(oldOperator)),
		event.PubkeySegment(pdaToBytes(newOperator)),
	))
	return nil
}

func pdaToBytes(a pda.Address) [32]byte {
	var out [32]byte
	copy(out[:], a[:])
	return out
}
