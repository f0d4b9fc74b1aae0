package gateway

import "errors"

// Sentinel errors for the Gateway Core, grouped per the error taxonomy:
// authorization, state, and policy failures a caller can branch on.
var (
	// Authorization
	ErrMissingSigner         = errors.New("gateway: required signer missing")
	ErrWrongOperator         = errors.New("gateway: caller is not the current operator")
	ErrWrongUpgradeAuthority = errors.New("gateway: caller is not the program upgrade authority")

	// State
	ErrAlreadyInitialized          = errors.New("gateway: account already initialized")
	ErrNotInitialized              = errors.New("gateway: gateway config not initialized")
	ErrVerifierSetNotFound         = errors.New("gateway: verifier set tracker not found")
	ErrVerifierSetRetired          = errors.New("gateway: verifier set has aged out of the retention window")
	ErrRotationDelayNotElapsed     = errors.New("gateway: minimum rotation delay has not elapsed")
	ErrProofNotSignedByLatestSigners = errors.New("gateway: rotation proof was not signed by the latest verifier set")
	ErrMessageAlreadyExecuted      = errors.New("gateway: message already executed")
	ErrMessageNotApproved          = errors.New("gateway: message is not in the Approved state")
	ErrMessageHasBeenTamperedWith  = errors.New("gateway: message hash does not match the approved record")
	ErrMessageAlreadyApproved      = errors.New("gateway: message already approved")

	// Proof
	ErrSessionNotValid = errors.New("gateway: signature verification session has not reached quorum")
	ErrLeafNotInRoot    = errors.New("gateway: message leaf is not contained in the payload root")
)
