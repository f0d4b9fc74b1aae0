package roles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProposeRequiresRole(t *testing.T) {
	origin := Record{Resource: [32]byte{1}, User: [32]byte{2}, Bits: RoleFlowLimiter}
	_, err := Propose(origin, [32]byte{3}, RoleOperator)
	require.ErrorIs(t, err, ErrRoleNotHeld)
}

func TestProposeAcceptMovesRole(t *testing.T) {
	origin := Record{Resource: [32]byte{1}, User: [32]byte{2}, Bits: RoleOperator | RoleFlowLimiter}
	destination := Record{Resource: [32]byte{1}, User: [32]byte{3}}

	p, err := Propose(origin, destination.User, RoleOperator)
	require.NoError(t, err)

	require.NoError(t, Accept(p, &origin, &destination))
	require.False(t, origin.Has(RoleOperator))
	require.True(t, origin.Has(RoleFlowLimiter))
	require.True(t, destination.Has(RoleOperator))
}

func TestGrantRevoke(t *testing.T) {
	r := Record{}
	r.Grant(RoleMinter)
	require.True(t, r.Has(RoleMinter))
	r.Revoke(RoleMinter)
	require.False(t, r.Has(RoleMinter))
}
