package its

import (
	"github.com/google/uuid"

	"github.com/axelar-network/solana-bridge/pkg/codec"
	"github.com/axelar-network/solana-bridge/pkg/gateway"
	"github.com/axelar-network/solana-bridge/pkg/pda"
	"github.com/axelar-network/solana-bridge/pkg/roles"
	"github.com/axelar-network/solana-bridge/pkg/tokenmanager"
)

// InboundAccounts are the downstream addresses the relayer supplies along
// with an inbound message. HandleInbound re-derives every one of these
// from the payload itself and rejects the call if any differ, per
// spec.md §4.5 step 4 ("This removes trust in the relayer's account
// selection").
type InboundAccounts struct {
	TokenManager pda.Address
	Mint         pda.Address
	UserATA      pda.Address
}

func rederiveTokenAccounts(itsProgramID, itsRoot pda.Address, tokenID [32]byte) (tm pda.Address, mint pda.Address, err error) {
	tm, _, err = tokenmanager.Address(itsProgramID, itsRoot, tokenID)
	if err != nil {
		return
	}
	mint, _, err = tokenmanager.InterchainTokenMintAddress(itsProgramID, itsRoot, tokenID)
	return
}

// HandleInbound implements spec.md §4.5's inbound path: re-validate via
// the Gateway, decode and authorize the hub envelope, re-derive every
// downstream account, and dispatch on the inner payload's variant.
func (s *Service) HandleInbound(gw *gateway.Gateway, m codec.Message, rawPayload []byte, supplied InboundAccounts, tm *tokenmanager.Manager, ops tokenmanager.TokenOps, now int64) error {
	if err := gw.ValidateMessage(m); err != nil {
		return err
	}

	itsRootAddr, cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Paused {
		return ErrServicePaused
	}

	env, err := DecodeReceiveFromHub(rawPayload)
	if err != nil {
		return err
	}
	if !cfg.IsTrustedSource(m.SourceChain, m.SourceAddress) {
		return ErrUntrustedSourceAddress
	}
	if _, ok := cfg.TrustedChains[env.SourceChain]; !ok {
		return ErrUntrustedSourceChain
	}

	switch disc, err := env.Payload.Discriminant(); {
	case err != nil:
		return err
	case disc == DiscInterchainTransfer:
		return s.handleInterchainTransfer(itsRootAddr, env.Payload.InterchainTransfer, supplied, tm, ops, now)
	case disc == DiscDeployInterchainToken:
		return s.handleDeployInterchainToken(itsRootAddr, env.Payload.DeployInterchainToken, tm)
	case disc == DiscLinkToken:
		return s.handleLinkToken(itsRootAddr, env.Payload.LinkToken, supplied, tm)
	default:
		return ErrUnknownDiscriminant
	}
}

func (s *Service) handleInterchainTransfer(itsRootAddr pda.Address, t *InterchainTransfer, supplied InboundAccounts, tm *tokenmanager.Manager, ops tokenmanager.TokenOps, now int64) error {
	if t.Amount == 0 {
		return ErrZeroAmount
	}

	gotTM, gotMint, err := rederiveTokenAccounts(s.ProgramID, itsRootAddr, t.TokenID)
	if err != nil {
		return err
	}
	if gotTM != supplied.TokenManager || gotMint != supplied.Mint {
		return ErrAccountMismatch
	}

	_, err = tm.Inbound(itsRootAddr, t.TokenID, pdaBytes(supplied.UserATA), t.Amount, now, ops)
	return err
}

func (s *Service) handleDeployInterchainToken(itsRootAddr pda.Address, d *DeployInterchainToken, tm *tokenmanager.Manager) error {
	requestID := uuid.New()
	s.logger().Printf("request %s: deploy_interchain_token token_id=%x name=%q uri=%q", requestID, d.TokenID, d.Name, d.URI)

	mintAddr, _, err := tokenmanager.InterchainTokenMintAddress(s.ProgramID, itsRootAddr, d.TokenID)
	if err != nil {
		return err
	}
	tmAddr, _, err := tokenmanager.Address(s.ProgramID, itsRootAddr, d.TokenID)
	if err != nil {
		return err
	}

	_, err = tm.Create(itsRootAddr, d.TokenID, tokenmanager.NativeInterchainToken, pdaBytes(mintAddr), [32]byte{}, 0, tokenmanager.CreateOptions{
		MintAuthority: pdaBytes(tmAddr),
	})
	if err != nil {
		s.logger().Printf("request %s: deploy_interchain_token failed: %v", requestID, err)
		return err
	}

	if err := s.grantRoles(pdaBytes(tmAddr), d.Minter, roles.RoleMinter|roles.RoleOperator); err != nil {
		s.logger().Printf("request %s: deploy_interchain_token failed granting minter roles: %v", requestID, err)
		return err
	}
	return nil
}

// grantRoles creates the User Roles record for (resource, user) holding
// bits, per spec.md §4.5's "minter as both minter and operator" rule for
// a freshly deployed NativeInterchainToken.
func (s *Service) grantRoles(resource, user [32]byte, bits roles.Role) error {
	addr, _, err := roles.RecordAddress(s.ProgramID, resource, user)
	if err != nil {
		return err
	}
	record := roles.Record{Resource: resource, User: user, Bits: bits}
	return s.Accounts.CreateAccount(addr, record)
}

func (s *Service) handleLinkToken(itsRootAddr pda.Address, l *LinkToken, supplied InboundAccounts, tm *tokenmanager.Manager) error {
	requestID := uuid.New()
	s.logger().Printf("request %s: link_token token_id=%x manager_type=%d", requestID, l.TokenID, l.TokenManagerType)

	gotTM, _, err := tokenmanager.Address(s.ProgramID, itsRootAddr, l.TokenID)
	if err != nil {
		return err
	}
	if gotTM != supplied.TokenManager {
		s.logger().Printf("request %s: link_token rejected: account mismatch", requestID)
		return ErrAccountMismatch
	}

	_, err = tm.Create(itsRootAddr, l.TokenID, tokenmanager.ManagerType(l.TokenManagerType), l.TokenAddress, [32]byte{}, 0, tokenmanager.CreateOptions{})
	if err != nil {
		s.logger().Printf("request %s: link_token failed: %v", requestID, err)
	}
	return err
}

func pdaBytes(a pda.Address) [32]byte {
	var out [32]byte
	copy(out[:], a[:])
	return out
}

// OutboundRequest is the input to InterchainTransferOut, the only
// outbound ITS builder in this package: it debits/burns locally, updates
// flow_out, wraps the transfer in SendToHub, and calls the Gateway's
// call_contract. No gas payment is requested from a gas-service account.
type OutboundRequest struct {
	TokenID          [32]byte
	DestinationChain string
	UserATA          [32]byte
	MintAuthority    [32]byte
	Amount           uint64
}

// InterchainTransferOut debits the user's local balance, updates
// flow_out, and emits the wrapped SendToHub payload via the Gateway.
func (s *Service) InterchainTransferOut(gw *gateway.Gateway, callerProgramID pda.Address, req OutboundRequest, tm *tokenmanager.Manager, ops tokenmanager.TokenOps, now int64) error {
	itsRootAddr, cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	if cfg.Paused {
		return ErrServicePaused
	}
	if !cfg.IsTrustedDestination(req.DestinationChain) {
		return ErrUntrustedDestinationChain
	}
	if req.Amount == 0 {
		return ErrZeroAmount
	}

	if err := tm.Outbound(itsRootAddr, req.TokenID, req.UserATA, req.MintAuthority, req.Amount, now, ops); err != nil {
		return err
	}

	env := SendToHub{
		DestinationChain: req.DestinationChain,
		Payload: InnerPayload{InterchainTransfer: &InterchainTransfer{
			TokenID:            req.TokenID,
			DestinationAddress: req.UserATA,
			Amount:             req.Amount,
		}},
	}
	payload, err := EncodeSendToHub(env)
	if err != nil {
		return err
	}
	return gw.CallContract(callerProgramID, cfg.HubChain, cfg.HubAddress, payload)
}

// SetPaused flips the service's pause flag; OPERATOR only.
func (s *Service) SetPaused(paused bool, caller roles.Record) error {
	if !caller.Has(roles.RoleOperator) {
		return roles.ErrRoleNotHeld
	}
	addr, cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	cfg.Paused = paused
	return s.Accounts.SaveAccount(addr, cfg)
}
