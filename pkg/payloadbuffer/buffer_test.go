package payloadbuffer

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

// TestBufferCommit mirrors spec.md §8 scenario 5.
func TestBufferCommit(t *testing.T) {
	buf := New([32]byte{1}, [32]byte{2}, 1000, 1)

	chunk1 := make([]byte, 334)
	chunk2 := make([]byte, 333)
	chunk3 := make([]byte, 333)
	for i := range chunk1 {
		chunk1[i] = byte(i)
	}
	for i := range chunk2 {
		chunk2[i] = byte(i + 1)
	}
	for i := range chunk3 {
		chunk3[i] = byte(i + 2)
	}

	require.NoError(t, buf.Write(0, chunk1))
	require.NoError(t, buf.Write(334, chunk2))
	require.NoError(t, buf.Write(667, chunk3))

	require.NoError(t, buf.Commit())

	want := crypto.Keccak256Hash(append(append(append([]byte{}, chunk1...), chunk2...), chunk3...))
	require.Equal(t, [32]byte(want), buf.PayloadHash)

	err := buf.Write(0, []byte{0x01})
	require.ErrorIs(t, err, ErrAlreadyCommitted)
}

func TestWriteRejectsOverflow(t *testing.T) {
	buf := New([32]byte{1}, [32]byte{2}, 10, 1)
	err := buf.Write(8, []byte{1, 2, 3})
	require.ErrorIs(t, err, ErrAccountDataTooSmall)
}

func TestCloseRequiresFunder(t *testing.T) {
	buf := New([32]byte{1}, [32]byte{2}, 10, 1)
	err := buf.Close([32]byte{0x99})
	require.ErrorIs(t, err, ErrFunderMismatch)
	require.NoError(t, buf.Close([32]byte{2}))
}
