package gateway

import "github.com/axelar-network/solana-bridge/pkg/pda"

// Seed labels, per spec.md §6's PDA seed table.
const (
	seedGatewayRoot        = "gateway"
	seedVerifierSetTracker = "ver-set-tracker"
	seedSignatureSession   = "gtw-sig-verif"
	seedIncomingMessage    = "incoming-message"
	seedCallContractSigner = "gtw-call-contract"
)

// ConfigAddress derives the single Gateway root config PDA.
func ConfigAddress(programID pda.Address) (pda.Address, uint8, error) {
	return pda.Find(programID, []byte(seedGatewayRoot))
}

// VerifierSetTrackerAddress derives the tracker PDA for a given verifier
// set root.
func VerifierSetTrackerAddress(programID pda.Address, root [32]byte) (pda.Address, uint8, error) {
	return pda.Find(programID, []byte(seedVerifierSetTracker), root[:])
}

// SignatureSessionAddress derives the Signature Verification Session PDA,
// keyed by (gateway_root, payload_root).
func SignatureSessionAddress(programID pda.Address, gatewayRoot, payloadRoot [32]byte) (pda.Address, uint8, error) {
	return pda.Find(programID, []byte(seedSignatureSession), gatewayRoot[:], payloadRoot[:])
}

// IncomingMessageAddress derives the Incoming Message PDA for a command id.
func IncomingMessageAddress(programID pda.Address, commandID [32]byte) (pda.Address, uint8, error) {
	return pda.Find(programID, []byte(seedIncomingMessage), commandID[:])
}

// CallContractSigningAddress derives the PDA a caller program must sign
// from to invoke CallContract / CallContractOffchainData.
func CallContractSigningAddress(programID, callerProgramID pda.Address) (pda.Address, uint8, error) {
	return pda.Find(programID, []byte(seedCallContractSigner), callerProgramID[:])
}
