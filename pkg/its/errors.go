package its

import "errors"

var (
	ErrEmptyPayload          = errors.New("its: no inner payload variant is populated")
	ErrTrailingBytes         = errors.New("its: trailing bytes after decoding a fully-consumed variant")
	ErrUnknownDiscriminant   = errors.New("its: unknown GMP payload discriminant")
	ErrUntrustedSourceChain  = errors.New("its: source chain is not in the trusted set")
	ErrUntrustedSourceAddress = errors.New("its: source address does not match the configured hub address")
	ErrUntrustedDestinationChain = errors.New("its: destination chain is not in the trusted set")
	ErrServicePaused         = errors.New("its: the ITS service is paused")
	ErrAccountMismatch       = errors.New("its: caller-supplied account does not match its re-derived address")
	ErrZeroAmount            = errors.New("its: zero-amount transfer is not permitted")
)
