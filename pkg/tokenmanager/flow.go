package tokenmanager

import (
	"github.com/axelar-network/solana-bridge/pkg/pda"
	"github.com/axelar-network/solana-bridge/pkg/store"
)

// Flow wraps the account store operations for flow-limit accounting, per
// spec.md §4.6. A flow_limit of zero disables the check entirely.
type Flow struct {
	ProgramID pda.Address
	Accounts  *store.AccountStore
}

func (f *Flow) loadOrCreateSlot(tmAddr pda.Address, epoch uint64) (pda.Address, FlowSlot, error) {
	addr, _, err := FlowSlotAddress(f.ProgramID, tmAddr, epoch)
	if err != nil {
		return addr, FlowSlot{}, err
	}

	var slot FlowSlot
	if err := f.Accounts.LoadAccount(addr, &slot); err != nil {
		if err != store.ErrAccountNotFound {
			return addr, FlowSlot{}, err
		}
		slot = FlowSlot{TokenManager: tmAddr, Epoch: epoch}
		if err := f.Accounts.CreateAccount(addr, slot); err != nil {
			return addr, FlowSlot{}, err
		}
	}
	return addr, slot, nil
}

// RecordOutbound enforces and records an outbound transfer of n at time
// now, per spec.md §4.6: flow_out' = flow_out + n; flow_out' - flow_in
// must stay <= limit.
func (f *Flow) RecordOutbound(tmAddr pda.Address, limit uint64, n uint64, now int64) error {
	epoch := FlowEpoch(now)
	addr, slot, err := f.loadOrCreateSlot(tmAddr, epoch)
	if err != nil {
		return err
	}

	newOut := slot.FlowOut + n
	if limit != 0 && newOut > slot.FlowIn+limit {
		return ErrFlowLimitExceeded
	}
	slot.FlowOut = newOut
	return f.Accounts.SaveAccount(addr, slot)
}

// RecordInbound is RecordOutbound's symmetric counterpart over flow_in.
func (f *Flow) RecordInbound(tmAddr pda.Address, limit uint64, n uint64, now int64) error {
	epoch := FlowEpoch(now)
	addr, slot, err := f.loadOrCreateSlot(tmAddr, epoch)
	if err != nil {
		return err
	}

	newIn := slot.FlowIn + n
	if limit != 0 && newIn > slot.FlowOut+limit {
		return ErrFlowLimitExceeded
	}
	slot.FlowIn = newIn
	return f.Accounts.SaveAccount(addr, slot)
}

// CloseStale resets a Flow Slot old enough to no longer matter for
// accounting by overwriting it with a zero FlowSlot; the account stays in
// the store and no rent is reclaimed. A slot that is not yet stale is left
// unchanged and nil is returned. Callable by anyone.
func (f *Flow) CloseStale(tmAddr pda.Address, epoch uint64, currentEpoch uint64) error {
	addr, _, err := FlowSlotAddress(f.ProgramID, tmAddr, epoch)
	if err != nil {
		return err
	}
	var slot FlowSlot
	if err := f.Accounts.LoadAccount(addr, &slot); err != nil {
		return err
	}
	if !slot.IsStale(currentEpoch) {
		return nil
	}
	return f.Accounts.SaveAccount(addr, FlowSlot{}) // zeroed in place; a real program would close the account and reclaim rent
}
