package pda

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindIsDeterministic(t *testing.T) {
	var programID Address
	programID[0] = 0x01

	addr1, bump1, err := Find(programID, []byte("gateway"))
	require.NoError(t, err)

	addr2, bump2, err := Find(programID, []byte("gateway"))
	require.NoError(t, err)

	require.Equal(t, addr1, addr2)
	require.Equal(t, bump1, bump2)
	require.False(t, isOnCurve(addr1))
}

func TestFindDiffersBySeed(t *testing.T) {
	var programID Address
	programID[0] = 0x02

	a, _, err := Find(programID, []byte("incoming-message"), []byte("command-1"))
	require.NoError(t, err)
	b, _, err := Find(programID, []byte("incoming-message"), []byte("command-2"))
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestSeedTooLongRejected(t *testing.T) {
	var programID Address
	_, _, err := Find(programID, make([]byte, 33))
	require.ErrorIs(t, err, ErrSeedTooLong)
}

func TestAddressRoundTripsThroughBase58(t *testing.T) {
	var programID Address
	programID[5] = 0x42

	addr, _, err := Find(programID, []byte("ver-set-tracker"))
	require.NoError(t, err)

	parsed, err := ParseAddress(addr.String())
	require.NoError(t, err)
	require.True(t, Equal(addr, parsed))
}
