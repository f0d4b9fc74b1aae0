package tokenmanager

import "github.com/axelar-network/solana-bridge/pkg/pda"

const (
	seedInterchainToken = "interchain-token"
	seedTokenManager    = "token-manager"
	seedFlowSlot        = "flow-slot"
)

// InterchainTokenMintAddress derives the mint PDA for a token deployed
// natively through ITS.
func InterchainTokenMintAddress(programID, itsRoot pda.Address, tokenID [32]byte) (pda.Address, uint8, error) {
	return pda.Find(programID, []byte(seedInterchainToken), itsRoot[:], tokenID[:])
}

// Address derives the Token Manager PDA for (its_root, token_id).
func Address(programID, itsRoot pda.Address, tokenID [32]byte) (pda.Address, uint8, error) {
	return pda.Find(programID, []byte(seedTokenManager), itsRoot[:], tokenID[:])
}

// FlowSlotAddress derives the Flow Slot PDA for (token_manager, epoch).
func FlowSlotAddress(programID, tokenManager pda.Address, epoch uint64) (pda.Address, uint8, error) {
	return pda.Find(programID, []byte(seedFlowSlot), tokenManager[:], pda.U64LE(epoch))
}
