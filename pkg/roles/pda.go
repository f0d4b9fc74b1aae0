package roles

import "github.com/axelar-network/solana-bridge/pkg/pda"

const (
	seedUserRoles    = "user-roles"
	seedRoleProposal = "role-proposal"
)

// RecordAddress derives the User Roles PDA for (resource, user), per
// spec.md §6's seed table.
func RecordAddress(programID pda.Address, resource, user [32]byte) (pda.Address, uint8, error) {
	return pda.Find(programID, []byte(seedUserRoles), resource[:], user[:])
}

// ProposalAddress derives the Role Proposal PDA for (resource, origin,
// destination).
func ProposalAddress(programID pda.Address, resource, origin, destination [32]byte) (pda.Address, uint8, error) {
	return pda.Find(programID, []byte(seedRoleProposal), resource[:], origin[:], destination[:])
}
