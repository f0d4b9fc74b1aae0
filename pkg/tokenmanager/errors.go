package tokenmanager

import "errors"

var (
	ErrFlowLimitExceeded      = errors.New("tokenmanager: transfer would exceed the flow limit for this epoch")
	ErrUnknownManagerType     = errors.New("tokenmanager: unrecognized token manager type")
	ErrMintAuthorityMismatch  = errors.New("tokenmanager: NativeInterchainToken mint authority must be the token manager PDA")
	ErrMissingTransferFeeExt  = errors.New("tokenmanager: LockUnlockFee requires a mint with a transfer-fee-config extension")
	ErrImmutableFieldChanged  = errors.New("tokenmanager: token_address and type are immutable after creation")
)
