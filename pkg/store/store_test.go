package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/axelar-network/solana-bridge/pkg/pda"
)

type testAccount struct {
	Value uint64
}

func TestCreateAccountRejectsDuplicate(t *testing.T) {
	s := NewAccountStore(NewMemoryKV())
	addr := pda.Address{1, 2, 3}

	require.NoError(t, s.CreateAccount(addr, testAccount{Value: 1}))
	err := s.CreateAccount(addr, testAccount{Value: 2})
	require.ErrorIs(t, err, ErrAccountAlreadyExists)
}

func TestLoadAccountRoundTrips(t *testing.T) {
	s := NewAccountStore(NewMemoryKV())
	addr := pda.Address{4, 5, 6}
	require.NoError(t, s.CreateAccount(addr, testAccount{Value: 42}))

	var got testAccount
	require.NoError(t, s.LoadAccount(addr, &got))
	require.Equal(t, uint64(42), got.Value)
}

func TestLoadAccountMissingReturnsNotFound(t *testing.T) {
	s := NewAccountStore(NewMemoryKV())
	var got testAccount
	err := s.LoadAccount(pda.Address{9}, &got)
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestSaveAccountRequiresExisting(t *testing.T) {
	s := NewAccountStore(NewMemoryKV())
	err := s.SaveAccount(pda.Address{7}, testAccount{Value: 1})
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestSaveAccountOverwrites(t *testing.T) {
	s := NewAccountStore(NewMemoryKV())
	addr := pda.Address{8}
	require.NoError(t, s.CreateAccount(addr, testAccount{Value: 1}))
	require.NoError(t, s.SaveAccount(addr, testAccount{Value: 2}))

	var got testAccount
	require.NoError(t, s.LoadAccount(addr, &got))
	require.Equal(t, uint64(2), got.Value)
}
