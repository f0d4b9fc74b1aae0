package event

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrips(t *testing.T) {
	commandID := [32]byte{1, 2, 3}
	raw := Encode(LabelMessageApproved, PubkeySegment(commandID), U64Segment(42), StringSegment("evm"))

	log, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, LabelMessageApproved, log.Label)
	require.Len(t, log.Segments, 3)

	gotCommandID, err := DecodePubkeySegment(log.Segments[0])
	require.NoError(t, err)
	require.Equal(t, commandID, gotCommandID)

	gotU64, err := DecodeU64Segment(log.Segments[1])
	require.NoError(t, err)
	require.Equal(t, uint64(42), gotU64)

	require.Equal(t, "evm", string(log.Segments[2]))
}

func TestDecodeRejectsTruncatedSegment(t *testing.T) {
	raw := Encode(LabelSignersRotated, U64Segment(1))
	_, err := Decode(raw[:len(raw)-2])
	require.ErrorIs(t, err, ErrTruncatedSegment)
}
