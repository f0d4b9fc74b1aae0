// Package sentinel is the Relayer's Solana-to-Axelar transport
// direction named in spec.md §4.7: a thin shell that tails the
// Gateway's logs and turns each observed CALL_CONTRACT event into a
// SolanaToAxelarMessage for the Verifier. The spec deliberately leaves
// this component unspecified beyond its message contract; this
// implementation follows the teacher's chain.strategy observer shape
// (pkg/chain/strategy/evm_observer.go's subscribe-decode-forward loop)
// applied to Solana program logs instead of EVM events.
package sentinel

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"

	"github.com/axelar-network/solana-bridge/pkg/codec"
	"github.com/axelar-network/solana-bridge/pkg/gateway/event"
	"github.com/axelar-network/solana-bridge/pkg/relayer/amplifierpb"
	"github.com/axelar-network/solana-bridge/pkg/relayer/verifier"
)

// ErrStreamClosed is returned by Run when the underlying log
// subscription ends without an error (the cluster closed the socket).
var ErrStreamClosed = errors.New("sentinel: log subscription closed")

// LogEntry is one Solana transaction's log output, decoupled from
// gagliardetto/solana-go's ws.LogResult so tests can supply it without a
// live websocket connection.
type LogEntry struct {
	Signature string
	Logs      []string
	Err       error
}

// Subscription streams LogEntry values for transactions mentioning a
// given program id, matching the shape of
// (*ws.Client).LogsSubscribeMentions's returned subscription.
type Subscription interface {
	Recv(ctx context.Context) (*LogEntry, error)
	Close() error
}

// SolanaToAxelarMessage is the contract named in spec.md §4.7: a decoded
// Axelar message plus the Solana signature that produced it.
type SolanaToAxelarMessage struct {
	Message   codec.Message
	Signature string
}

// Sentinel tails one Gateway program's logs and forwards decoded
// CALL_CONTRACT events to a Verifier.
type Sentinel struct {
	gatewayProgramID solana.PublicKey
	sourceChain      string
	logger           *log.Logger
}

// New constructs a Sentinel for the given Gateway program, tagging
// forwarded messages with sourceChain (the Axelar-facing chain name for
// this Solana deployment, e.g. "solana").
func New(gatewayProgramID solana.PublicKey, sourceChain string) *Sentinel {
	return &Sentinel{
		gatewayProgramID: gatewayProgramID,
		sourceChain:      sourceChain,
		logger:           log.New(log.Writer(), "[relayer/sentinel] ", log.LstdFlags),
	}
}

// Run drains sub until ctx is cancelled or the subscription ends,
// forwarding each decoded CALL_CONTRACT event to v. Entries that fail to
// decode (not ours, or a non-Gateway program's logs) are skipped, not
// fatal — a cluster multiplexes many programs' logs onto one
// subscription in practice.
func (s *Sentinel) Run(ctx context.Context, sub Subscription, v *verifier.Verifier) error {
	defer sub.Close()
	for {
		entry, err := sub.Recv(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return ctx.Err()
			}
			return fmt.Errorf("sentinel: recv: %w", err)
		}
		if entry == nil {
			return ErrStreamClosed
		}
		if entry.Err != nil {
			s.logger.Printf("tx %s: cluster reported an error, skipping: %v", entry.Signature, entry.Err)
			continue
		}

		msg, err := s.decodeCallContract(entry)
		if err != nil {
			continue
		}

		req := &amplifierpb.VerifyRequest{
			MessageID:      msg.Message.MessageID,
			Signature:      msg.Signature,
			EncodedMessage: mustEncode(msg.Message),
		}
		if err := v.Enqueue(ctx, req); err != nil {
			return fmt.Errorf("sentinel: enqueue: %w", err)
		}
	}
}

const programDataPrefix = "Program data: "

// decodeCallContract scans one transaction's log lines for an
// Anchor-style "Program data: <base64>" line, decodes it as a Gateway
// event.Log, and builds the corresponding codec.Message on a
// CALL_CONTRACT label. Any other label, or no matching line, is not an
// error: most transactions a subscription surfaces are not Gateway
// outbound calls.
func (s *Sentinel) decodeCallContract(entry *LogEntry) (SolanaToAxelarMessage, error) {
	for logIndex, line := range entry.Logs {
		raw, ok := strings.CutPrefix(line, programDataPrefix)
		if !ok {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			continue
		}
		lg, err := event.Decode(decoded)
		if err != nil || lg.Label != event.LabelCallContract {
			continue
		}
		if len(lg.Segments) < 4 {
			continue
		}

		destinationChain := string(lg.Segments[1])
		if !utf8.ValidString(destinationChain) || !utf8.ValidString(entry.Signature) {
			continue
		}
		destinationAddress := string(lg.Segments[2])
		payloadHash, err := event.DecodePubkeySegment(lg.Segments[3])
		if err != nil {
			continue
		}
		payload := lg.Segments[4:]
		var fullPayload []byte
		for _, seg := range payload {
			fullPayload = append(fullPayload, seg...)
		}
		_ = fullPayload // not forwarded: only the payload hash travels in the Message

		return SolanaToAxelarMessage{
			Message: codec.Message{
				SourceChain:        s.sourceChain,
				MessageID:          fmt.Sprintf("%s-%d", entry.Signature, logIndex),
				SourceAddress:      s.gatewayProgramID.String(),
				DestinationChain:   destinationChain,
				DestinationAddress: destinationAddressBytes(destinationAddress),
				PayloadHash:        payloadHash,
			},
			Signature: entry.Signature,
		}, nil
	}
	return SolanaToAxelarMessage{}, errNoCallContractEvent
}

var errNoCallContractEvent = errors.New("sentinel: no CALL_CONTRACT event in this transaction's logs")

func destinationAddressBytes(addr string) [32]byte {
	var out [32]byte
	copy(out[:], addr)
	return out
}

func mustEncode(m codec.Message) []byte {
	encoded, err := codec.EncodeMessage(m)
	if err != nil {
		// EncodeMessage only fails on a string field that is not valid
		// UTF-8; decodeCallContract skips events whose destination chain
		// or signature is not valid UTF-8, and the source chain comes
		// from the Sentinel's own configuration.
		panic(fmt.Sprintf("sentinel: encoding a freshly decoded message: %v", err))
	}
	return encoded
}
