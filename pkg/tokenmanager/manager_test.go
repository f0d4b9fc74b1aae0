package tokenmanager

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/axelar-network/solana-bridge/pkg/pda"
	"github.com/axelar-network/solana-bridge/pkg/roles"
	"github.com/axelar-network/solana-bridge/pkg/store"
)

type fakeOps struct {
	minted map[[32]byte]uint64
}

func newFakeOps() *fakeOps {
	return &fakeOps{minted: make(map[[32]byte]uint64)}
}

func (f *fakeOps) MintTo(mint, ata [32]byte, amount uint64) error {
	f.minted[ata] += amount
	return nil
}
func (f *fakeOps) Burn(mint, ata [32]byte, amount uint64) error { return nil }
func (f *fakeOps) BurnWithAllowance(mint, ata, authority [32]byte, amount uint64) error {
	return nil
}
func (f *fakeOps) TransferFromManagerATA(managerATA, destinationATA [32]byte, amount uint64) error {
	f.minted[destinationATA] += amount
	return nil
}
func (f *fakeOps) TransferToManagerATA(sourceATA, managerATA [32]byte, amount uint64) error {
	return nil
}
func (f *fakeOps) ApplyTransferFee(mint [32]byte, amount uint64) (uint64, uint64, error) {
	return amount, 0, nil
}

func newTestManager() (*Manager, pda.Address) {
	programID := pda.Address{0x01}
	accounts := store.NewAccountStore(store.NewMemoryKV())
	return &Manager{
		ProgramID: programID,
		Accounts:  accounts,
		Flow:      &Flow{ProgramID: programID, Accounts: accounts},
	}, programID
}

// TestFlowLimit mirrors spec.md §8 scenario 4.
func TestFlowLimit(t *testing.T) {
	m, programID := newTestManager()
	itsRoot, _, err := pda.Find(programID, []byte("its"))
	require.NoError(t, err)

	tokenID := [32]byte{7}
	tmAddr, _, err := Address(programID, itsRoot, tokenID)
	require.NoError(t, err)
	_, err = m.Create(itsRoot, tokenID, NativeInterchainToken, [32]byte{9}, [32]byte{}, 800, CreateOptions{MintAuthority: [32]byte(tmAddr)})
	require.NoError(t, err)

	ops := newFakeOps()
	userATA := [32]byte{5}
	now := int64(1_000_000)

	_, err = m.Inbound(itsRoot, tokenID, userATA, 800, now, ops)
	require.NoError(t, err)

	_, err = m.Inbound(itsRoot, tokenID, userATA, 1, now, ops)
	require.ErrorIs(t, err, ErrFlowLimitExceeded)

	// Advance past an epoch boundary: a fresh flow slot resets accounting.
	laterEpoch := now + FlowEpochSeconds
	_, err = m.Inbound(itsRoot, tokenID, userATA, 800, laterEpoch, ops)
	require.NoError(t, err)

	require.Equal(t, uint64(1600), ops.minted[userATA])
}

func TestNativeInterchainTokenCreationRequiresMatchingMintAuthority(t *testing.T) {
	m, programID := newTestManager()
	itsRoot, _, err := pda.Find(programID, []byte("its"))
	require.NoError(t, err)

	_, err = m.Create(itsRoot, [32]byte{1}, NativeInterchainToken, [32]byte{2}, [32]byte{}, 0, CreateOptions{MintAuthority: [32]byte{0x99}})
	require.ErrorIs(t, err, ErrMintAuthorityMismatch)
}

func TestLockUnlockFeeCreationRequiresExtension(t *testing.T) {
	m, programID := newTestManager()
	itsRoot, _, err := pda.Find(programID, []byte("its"))
	require.NoError(t, err)

	_, err = m.Create(itsRoot, [32]byte{1}, LockUnlockFee, [32]byte{2}, [32]byte{3}, 0, CreateOptions{})
	require.ErrorIs(t, err, ErrMissingTransferFeeExt)
}

func TestSetFlowLimitRequiresRole(t *testing.T) {
	m, programID := newTestManager()
	itsRoot, _, err := pda.Find(programID, []byte("its"))
	require.NoError(t, err)

	tokenID := [32]byte{1}
	_, err = m.Create(itsRoot, tokenID, MintBurn, [32]byte{2}, [32]byte{}, 0, CreateOptions{})
	require.NoError(t, err)

	err = m.SetFlowLimit(itsRoot, tokenID, 500, roles.Record{})
	require.ErrorIs(t, err, roles.ErrRoleNotHeld)

	err = m.SetFlowLimit(itsRoot, tokenID, 500, roles.Record{Bits: roles.RoleFlowLimiter})
	require.NoError(t, err)
}
