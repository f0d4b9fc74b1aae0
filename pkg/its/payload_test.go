package its

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeInterchainTransferRoundTrips(t *testing.T) {
	p := InnerPayload{InterchainTransfer: &InterchainTransfer{
		TokenID:            [32]byte{1, 2, 3},
		SourceAddress:      "0xabc",
		DestinationAddress: [32]byte{4, 5, 6},
		Amount:             1000,
		Data:               []byte{0xAA, 0xBB},
	}}
	raw, err := EncodeInner(p)
	require.NoError(t, err)

	got, err := DecodeInner(raw)
	require.NoError(t, err)
	require.Equal(t, p.InterchainTransfer, got.InterchainTransfer)
}

func TestEncodeDecodeDeployInterchainTokenRoundTrips(t *testing.T) {
	p := InnerPayload{DeployInterchainToken: &DeployInterchainToken{
		TokenID:  [32]byte{9},
		Name:     "Wrapped Foo",
		Symbol:   "wFOO",
		URI:      "https://example.com/foo.json",
		Decimals: 6,
		Minter:   [32]byte{7},
	}}
	raw, err := EncodeInner(p)
	require.NoError(t, err)

	got, err := DecodeInner(raw)
	require.NoError(t, err)
	require.Equal(t, p.DeployInterchainToken, got.DeployInterchainToken)
}

func TestReceiveFromHubEnvelopeRoundTrips(t *testing.T) {
	env := ReceiveFromHub{
		SourceChain: "evm",
		Payload: InnerPayload{LinkToken: &LinkToken{
			TokenID:          [32]byte{1},
			TokenManagerType: 3,
			TokenAddress:     [32]byte{2},
			Params:           []byte{0x01},
		}},
	}
	raw, err := EncodeReceiveFromHub(env)
	require.NoError(t, err)

	got, err := DecodeReceiveFromHub(raw)
	require.NoError(t, err)
	require.Equal(t, env.SourceChain, got.SourceChain)
	require.Equal(t, env.Payload.LinkToken, got.Payload.LinkToken)
}

func TestDecodeInnerRejectsUnknownDiscriminant(t *testing.T) {
	_, err := DecodeInner([]byte{0xFF})
	require.ErrorIs(t, err, ErrUnknownDiscriminant)
}
