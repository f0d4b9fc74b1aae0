package tokenmanager

import (
	"github.com/axelar-network/solana-bridge/pkg/pda"
	"github.com/axelar-network/solana-bridge/pkg/roles"
	"github.com/axelar-network/solana-bridge/pkg/store"
)

// TokenOps abstracts the SPL-token-level effects a Token Manager drives:
// mint/burn/transfer against the mint and ATAs it owns. A real program
// would CPI into the SPL Token / Token-2022 programs for these; here they
// are injected so Manager's dispatch logic can be exercised and tested
// without a live Solana runtime.
type TokenOps interface {
	MintTo(mint, destinationATA [32]byte, amount uint64) error
	Burn(mint, sourceATA [32]byte, amount uint64) error
	BurnWithAllowance(mint, sourceATA, authority [32]byte, amount uint64) error
	TransferFromManagerATA(managerATA, destinationATA [32]byte, amount uint64) error
	TransferToManagerATA(sourceATA, managerATA [32]byte, amount uint64) error
	// ApplyTransferFee returns the net amount after the mint's
	// transfer-fee-config extension (LockUnlockFee only).
	ApplyTransferFee(mint [32]byte, amount uint64) (net uint64, fee uint64, err error)
}

// Manager drives Token Manager creation and type-dispatched transfers
// over an account store, per spec.md §4.6.
type Manager struct {
	ProgramID pda.Address
	Accounts  *store.AccountStore
	Flow      *Flow
}

// CreateOptions carries the creation-time validation inputs spec.md §4.6
// requires per type.
type CreateOptions struct {
	MintAuthority         [32]byte // must equal the TM PDA for NativeInterchainToken
	HasTransferFeeConfig  bool     // must be true for LockUnlockFee
}

// Create deploys a new Token Manager, enforcing the per-type validation
// rules from spec.md §4.6.
func (m *Manager) Create(itsRoot pda.Address, tokenID [32]byte, typ ManagerType, tokenAddress, managerATA [32]byte, flowLimit uint64, opts CreateOptions) (*TokenManager, error) {
	addr, bump, err := Address(m.ProgramID, itsRoot, tokenID)
	if err != nil {
		return nil, err
	}

	switch typ {
	case NativeInterchainToken:
		tmBytes := [32]byte(addr)
		if opts.MintAuthority != tmBytes {
			return nil, ErrMintAuthorityMismatch
		}
	case LockUnlockFee:
		if !opts.HasTransferFeeConfig {
			return nil, ErrMissingTransferFeeExt
		}
	case MintBurn, MintBurnFrom, LockUnlock:
		// no extra creation-time validation beyond the common path
	default:
		return nil, ErrUnknownManagerType
	}

	tm := TokenManager{
		Bump:            bump,
		TokenID:         tokenID,
		Type:            typ,
		TokenAddress:    tokenAddress,
		TokenManagerATA: managerATA,
		FlowLimit:       flowLimit,
	}
	if err := m.Accounts.CreateAccount(addr, tm); err != nil {
		return nil, err
	}
	return &tm, nil
}

// SetFlowLimit updates flow_limit, the only mutable field on a Token
// Manager. Requires the caller hold OPERATOR or FLOW_LIMITER on the
// resource, per spec.md §4.6.
func (m *Manager) SetFlowLimit(itsRoot pda.Address, tokenID [32]byte, newLimit uint64, caller roles.Record) error {
	if !caller.Has(roles.RoleOperator) && !caller.Has(roles.RoleFlowLimiter) {
		return roles.ErrRoleNotHeld
	}

	addr, _, err := Address(m.ProgramID, itsRoot, tokenID)
	if err != nil {
		return err
	}
	var tm TokenManager
	if err := m.Accounts.LoadAccount(addr, &tm); err != nil {
		return err
	}
	tm.FlowLimit = newLimit
	return m.Accounts.SaveAccount(addr, tm)
}

// Inbound credits amount to user per the Token Manager's type, updates
// Flow Slot flow_in, and returns the amount actually credited (after fee
// deduction for LockUnlockFee).
func (m *Manager) Inbound(itsRoot pda.Address, tokenID [32]byte, userATA [32]byte, amount uint64, now int64, ops TokenOps) (uint64, error) {
	addr, _, err := Address(m.ProgramID, itsRoot, tokenID)
	if err != nil {
		return 0, err
	}
	var tm TokenManager
	if err := m.Accounts.LoadAccount(addr, &tm); err != nil {
		return 0, err
	}

	if err := m.Flow.RecordInbound(addr, tm.FlowLimit, amount, now); err != nil {
		return 0, err
	}

	switch tm.Type {
	case NativeInterchainToken, MintBurn, MintBurnFrom:
		if err := ops.MintTo(tm.TokenAddress, userATA, amount); err != nil {
			return 0, err
		}
		return amount, nil
	case LockUnlock:
		if err := ops.TransferFromManagerATA(tm.TokenManagerATA, userATA, amount); err != nil {
			return 0, err
		}
		return amount, nil
	case LockUnlockFee:
		net, _, err := ops.ApplyTransferFee(tm.TokenAddress, amount)
		if err != nil {
			return 0, err
		}
		if err := ops.TransferFromManagerATA(tm.TokenManagerATA, userATA, net); err != nil {
			return 0, err
		}
		return net, nil
	default:
		return 0, ErrUnknownManagerType
	}
}

// Outbound debits amount from user per the Token Manager's type and
// updates Flow Slot flow_out.
func (m *Manager) Outbound(itsRoot pda.Address, tokenID [32]byte, userATA [32]byte, mintAuthority [32]byte, amount uint64, now int64, ops TokenOps) error {
	addr, _, err := Address(m.ProgramID, itsRoot, tokenID)
	if err != nil {
		return err
	}
	var tm TokenManager
	if err := m.Accounts.LoadAccount(addr, &tm); err != nil {
		return err
	}

	if err := m.Flow.RecordOutbound(addr, tm.FlowLimit, amount, now); err != nil {
		return err
	}

	switch tm.Type {
	case NativeInterchainToken, MintBurn:
		return ops.Burn(tm.TokenAddress, userATA, amount)
	case MintBurnFrom:
		return ops.BurnWithAllowance(tm.TokenAddress, userATA, mintAuthority, amount)
	case LockUnlock, LockUnlockFee:
		return ops.TransferToManagerATA(userATA, tm.TokenManagerATA, amount)
	default:
		return ErrUnknownManagerType
	}
}
