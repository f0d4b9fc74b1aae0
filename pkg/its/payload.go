// Package its implements the Interchain Token Service dispatcher (C5):
// the GMP payload sum type, the hub-wrapping envelope, and the inbound
// re-derive-and-check / outbound builder logic described in spec.md §4.5.
package its

import (
	"github.com/axelar-network/solana-bridge/pkg/codec"
)

// Discriminant is the leading byte of every GMP payload variant, per
// spec.md §6.
type Discriminant uint8

const (
	DiscInterchainTransfer     Discriminant = 0
	DiscDeployInterchainToken  Discriminant = 1
	DiscLinkToken              Discriminant = 2
	DiscReceiveFromHub         Discriminant = 10
	DiscSendToHub              Discriminant = 11
)

// InnerPayload is the sum type of messages the hub forwards: every
// legitimate inbound ITS payload's inner variant, per spec.md §4.5.
// Exactly one of the three pointers is non-nil; exhaustive switches
// should use Discriminant(), not a type switch, to force new variants to
// be wired in deliberately.
type InnerPayload struct {
	InterchainTransfer    *InterchainTransfer
	DeployInterchainToken *DeployInterchainToken
	LinkToken             *LinkToken
}

// Discriminant reports which variant is populated.
func (p InnerPayload) Discriminant() (Discriminant, error) {
	switch {
	case p.InterchainTransfer != nil:
		return DiscInterchainTransfer, nil
	case p.DeployInterchainToken != nil:
		return DiscDeployInterchainToken, nil
	case p.LinkToken != nil:
		return DiscLinkToken, nil
	default:
		return 0, ErrEmptyPayload
	}
}

// InterchainTransfer carries a token movement plus optional calldata.
type InterchainTransfer struct {
	TokenID      [32]byte
	SourceAddress  string
	DestinationAddress [32]byte
	Amount       uint64
	Data         []byte
}

// DeployInterchainToken carries the parameters for a natively-minted
// token's first deployment on this chain.
type DeployInterchainToken struct {
	TokenID  [32]byte
	Name     string
	Symbol   string
	URI      string
	Decimals uint8
	Minter   [32]byte
}

// LinkToken binds a Token Manager of a requested type to an existing
// mint already present on this chain.
type LinkToken struct {
	TokenID           [32]byte
	TokenManagerType  uint8
	TokenAddress      [32]byte
	Params            []byte
}

// ReceiveFromHub is the envelope every legitimate inbound ITS payload
// arrives wrapped in.
type ReceiveFromHub struct {
	SourceChain string
	Payload     InnerPayload
}

// SendToHub is the envelope every outbound ITS payload is wrapped in
// before being handed to the Gateway's call_contract.
type SendToHub struct {
	DestinationChain string
	Payload          InnerPayload
}

// EncodeInner encodes one inner payload variant with its discriminant
// byte leading the canonical field encoding.
func EncodeInner(p InnerPayload) ([]byte, error) {
	disc, err := p.Discriminant()
	if err != nil {
		return nil, err
	}
	buf := []byte{byte(disc)}
	var body []byte

	switch disc {
	case DiscInterchainTransfer:
		t := p.InterchainTransfer
		body = codec.AppendBytes(body, t.TokenID[:])
		if body, err = codec.AppendString(body, t.SourceAddress); err != nil {
			return nil, err
		}
		body = append(body, t.DestinationAddress[:]...)
		body = codec.AppendU64LE(body, t.Amount)
		body = codec.AppendBytes(body, t.Data)
	case DiscDeployInterchainToken:
		d := p.DeployInterchainToken
		body = codec.AppendBytes(body, d.TokenID[:])
		if body, err = codec.AppendString(body, d.Name); err != nil {
			return nil, err
		}
		if body, err = codec.AppendString(body, d.Symbol); err != nil {
			return nil, err
		}
		if body, err = codec.AppendString(body, d.URI); err != nil {
			return nil, err
		}
		body = append(body, d.Decimals)
		body = append(body, d.Minter[:]...)
	case DiscLinkToken:
		l := p.LinkToken
		body = codec.AppendBytes(body, l.TokenID[:])
		body = append(body, l.TokenManagerType)
		body = append(body, l.TokenAddress[:]...)
		body = codec.AppendBytes(body, l.Params)
	}
	return append(buf, body...), nil
}

// DecodeInner is the inverse of EncodeInner.
func DecodeInner(b []byte) (InnerPayload, error) {
	if len(b) == 0 {
		return InnerPayload{}, ErrEmptyPayload
	}
	disc := Discriminant(b[0])
	r := codec.NewReader(b[1:])

	switch disc {
	case DiscInterchainTransfer:
		tokenID, err := r.ReadBytes()
		if err != nil {
			return InnerPayload{}, err
		}
		source, err := r.ReadString()
		if err != nil {
			return InnerPayload{}, err
		}
		dest, err := r.ReadFixed(32)
		if err != nil {
			return InnerPayload{}, err
		}
		amount, err := r.ReadU64LE()
		if err != nil {
			return InnerPayload{}, err
		}
		data, err := r.ReadBytes()
		if err != nil {
			return InnerPayload{}, err
		}
		if !r.Finished() {
			return InnerPayload{}, ErrTrailingBytes
		}
		t := &InterchainTransfer{SourceAddress: source, Amount: amount, Data: data}
		copy(t.TokenID[:], tokenID)
		copy(t.DestinationAddress[:], dest)
		return InnerPayload{InterchainTransfer: t}, nil

	case DiscDeployInterchainToken:
		tokenID, err := r.ReadBytes()
		if err != nil {
			return InnerPayload{}, err
		}
		name, err := r.ReadString()
		if err != nil {
			return InnerPayload{}, err
		}
		symbol, err := r.ReadString()
		if err != nil {
			return InnerPayload{}, err
		}
		uri, err := r.ReadString()
		if err != nil {
			return InnerPayload{}, err
		}
		decimalsB, err := r.ReadFixed(1)
		if err != nil {
			return InnerPayload{}, err
		}
		minter, err := r.ReadFixed(32)
		if err != nil {
			return InnerPayload{}, err
		}
		if !r.Finished() {
			return InnerPayload{}, ErrTrailingBytes
		}
		d := &DeployInterchainToken{Name: name, Symbol: symbol, URI: uri, Decimals: decimalsB[0]}
		copy(d.TokenID[:], tokenID)
		copy(d.Minter[:], minter)
		return InnerPayload{DeployInterchainToken: d}, nil

	case DiscLinkToken:
		tokenID, err := r.ReadBytes()
		if err != nil {
			return InnerPayload{}, err
		}
		typB, err := r.ReadFixed(1)
		if err != nil {
			return InnerPayload{}, err
		}
		tokenAddr, err := r.ReadFixed(32)
		if err != nil {
			return InnerPayload{}, err
		}
		params, err := r.ReadBytes()
		if err != nil {
			return InnerPayload{}, err
		}
		if !r.Finished() {
			return InnerPayload{}, ErrTrailingBytes
		}
		l := &LinkToken{TokenManagerType: typB[0], Params: params}
		copy(l.TokenID[:], tokenID)
		copy(l.TokenAddress[:], tokenAddr)
		return InnerPayload{LinkToken: l}, nil

	default:
		return InnerPayload{}, ErrUnknownDiscriminant
	}
}

// EncodeReceiveFromHub wraps an inner payload in its hub envelope.
func EncodeReceiveFromHub(env ReceiveFromHub) ([]byte, error) {
	inner, err := EncodeInner(env.Payload)
	if err != nil {
		return nil, err
	}
	buf := []byte{byte(DiscReceiveFromHub)}
	buf, err = codec.AppendString(buf, env.SourceChain)
	if err != nil {
		return nil, err
	}
	return codec.AppendBytes(buf, inner), nil
}

// DecodeReceiveFromHub is the inverse of EncodeReceiveFromHub.
func DecodeReceiveFromHub(b []byte) (ReceiveFromHub, error) {
	if len(b) == 0 || Discriminant(b[0]) != DiscReceiveFromHub {
		return ReceiveFromHub{}, ErrUnknownDiscriminant
	}
	r := codec.NewReader(b[1:])
	sourceChain, err := r.ReadString()
	if err != nil {
		return ReceiveFromHub{}, err
	}
	innerBytes, err := r.ReadBytes()
	if err != nil {
		return ReceiveFromHub{}, err
	}
	if !r.Finished() {
		return ReceiveFromHub{}, ErrTrailingBytes
	}
	inner, err := DecodeInner(innerBytes)
	if err != nil {
		return ReceiveFromHub{}, err
	}
	return ReceiveFromHub{SourceChain: sourceChain, Payload: inner}, nil
}

// EncodeSendToHub wraps an outbound inner payload in its hub envelope.
func EncodeSendToHub(env SendToHub) ([]byte, error) {
	inner, err := EncodeInner(env.Payload)
	if err != nil {
		return nil, err
	}
	buf := []byte{byte(DiscSendToHub)}
	buf, err = codec.AppendString(buf, env.DestinationChain)
	if err != nil {
		return nil, err
	}
	return codec.AppendBytes(buf, inner), nil
}
