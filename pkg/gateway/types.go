package gateway

import "github.com/axelar-network/solana-bridge/pkg/pda"

// Config is the Gateway's root account, per spec.md §3's "Gateway Config".
type Config struct {
	Bump                           uint8
	OperatorPubkey                 pda.Address
	DomainSeparator                [32]byte
	CurrentEpoch                   uint64
	PreviousVerifierSetRetention   uint64
	MinimumRotationDelaySeconds    int64
	LastRotationTimestamp          int64
}

// VerifierSetTracker records that a given verifier-set root was, at some
// point, the active signing set for a given epoch.
type VerifierSetTracker struct {
	Bump  uint8
	Root  [32]byte
	Epoch uint64
}

// MessageStatus is the lifecycle state of an Incoming Message.
type MessageStatus uint8

const (
	StatusApproved MessageStatus = iota
	StatusExecuted
)

// IncomingMessage is the per-command_id approval record, per spec.md §3.
type IncomingMessage struct {
	Bump           uint8
	SigningPDABump uint8
	Status         MessageStatus
	MessageHash    [32]byte
	PayloadHash    [32]byte
}
