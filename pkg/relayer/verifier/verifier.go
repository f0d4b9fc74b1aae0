// Package verifier implements the Relayer Verifier (C7): a bounded
// request channel feeding the external Amplifier's bidirectional
// "Verify" stream, a pending map deduplicating in-flight messages, and
// cooperative cancellation racing the response stream's recv, per
// spec.md §4.7. Structurally this is the teacher's pkg/batch.Collector
// pattern (a mutex-guarded in-memory accumulator backed by a database
// repository) narrowed from a multi-batch Merkle accumulator to a
// single pending map keyed by message_id.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/axelar-network/solana-bridge/pkg/relayer/amplifierpb"
	"github.com/axelar-network/solana-bridge/pkg/relayer/metrics"
)

// ErrUnknownMessageID is fatal: the Amplifier responded about a
// message_id the Verifier never sent, per spec.md §4.7.
var ErrUnknownMessageID = errors.New("verifier: response referenced an unknown message_id")

// ErrCancelled is returned by Run when ctx is cancelled.
var ErrCancelled = errors.New("verifier: cancelled")

// Stream is the subset of amplifierpb's generated stream client the
// Verifier needs, so tests can substitute an in-memory double instead of
// a real grpc.ClientConn.
type Stream interface {
	Send(*amplifierpb.VerifyRequest) error
	Recv() (*amplifierpb.VerifyResponse, error)
	CloseSend() error
}

// SignatureRecorder is the durable state store's write path the
// Verifier calls on an Ok response. pkg/relayer/store.Client satisfies
// this directly.
type SignatureRecorder interface {
	RecordSignature(ctx context.Context, messageID, signature string) error
}

// Verifier owns the pending map and the bounded request channel for one
// run of the Verify stream. Per spec.md §5, it cannot be restarted in
// place once Run returns — construct a new Verifier for the next run.
type Verifier struct {
	mu         sync.Mutex
	pending    map[string]string
	enqueuedAt map[string]time.Time
	requests   chan *amplifierpb.VerifyRequest
	logger     *log.Logger
	metrics    *metrics.Verifier
}

// Option configures optional Verifier behavior.
type Option func(*Verifier)

// WithMetrics records pending-map size, verify latency, and terminal
// error counts against m.
func WithMetrics(m *metrics.Verifier) Option {
	return func(v *Verifier) { v.metrics = m }
}

// New constructs a Verifier with the given request channel capacity.
func New(bufferSize int, opts ...Option) *Verifier {
	v := &Verifier{
		pending:    make(map[string]string),
		enqueuedAt: make(map[string]time.Time),
		requests:   make(chan *amplifierpb.VerifyRequest, bufferSize),
		logger:     log.New(log.Writer(), "[relayer/verifier] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// PendingCount reports the number of in-flight (unresolved) messages.
func (v *Verifier) PendingCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.pending)
}

// Enqueue applies spec.md §4.7's dedup rule and, on first occurrence,
// queues the request for sending. It blocks if the request channel is
// full, or until ctx is done.
func (v *Verifier) Enqueue(ctx context.Context, req *amplifierpb.VerifyRequest) error {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if !v.admit(req) {
		return nil
	}
	select {
	case v.requests <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// admit records req in the pending map if it is new, returning whether
// the caller should forward it to the stream.
func (v *Verifier) admit(req *amplifierpb.VerifyRequest) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	existing, ok := v.pending[req.MessageID]
	if !ok {
		v.pending[req.MessageID] = req.Signature
		v.enqueuedAt[req.MessageID] = time.Now()
		if v.metrics != nil {
			v.metrics.PendingMessages.Set(float64(len(v.pending)))
		}
		return true
	}
	if existing == req.Signature {
		return false // duplicate, same signature: drop silently
	}
	v.logger.Printf("request %s: dropping message %s: conflicting signature (have %s, got %s)",
		req.RequestID, req.MessageID, existing, req.Signature)
	return false
}

// Run drives one full lifecycle of the Verify stream: a sender goroutine
// drains the request channel into stream.Send, a receiver goroutine
// drains stream.Recv into a channel, and this goroutine races ctx.Done
// against the next response, exactly per spec.md §5's suspension-point
// cancellation model. Run consumes the request channel exclusively and
// must not be called twice on the same Verifier.
func (v *Verifier) Run(ctx context.Context, stream Stream, recorder SignatureRecorder) error {
	sendErrCh := make(chan error, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				sendErrCh <- nil
				return
			case req, ok := <-v.requests:
				if !ok {
					sendErrCh <- nil
					return
				}
				if err := stream.Send(req); err != nil {
					sendErrCh <- err
					return
				}
			}
		}
	}()

	recvCh := make(chan *amplifierpb.VerifyResponse, 1)
	recvErrCh := make(chan error, 1)
	go func() {
		for {
			resp, err := stream.Recv()
			if err != nil {
				recvErrCh <- err
				return
			}
			recvCh <- resp
		}
	}()

	for {
		select {
		case <-ctx.Done():
			stream.CloseSend()
			v.countTerminalError("cancelled")
			return ErrCancelled
		case err := <-sendErrCh:
			if err != nil {
				v.countTerminalError("send")
				return fmt.Errorf("verifier: send failed: %w", err)
			}
		case err := <-recvErrCh:
			if errors.Is(err, io.EOF) {
				return nil
			}
			v.countTerminalError("recv")
			return fmt.Errorf("verifier: recv failed: %w", err)
		case resp := <-recvCh:
			if err := v.handleResponse(ctx, resp, recorder); err != nil {
				reason := "record"
				if errors.Is(err, ErrUnknownMessageID) {
					reason = "unknown_message_id"
				}
				v.countTerminalError(reason)
				return err
			}
		}
	}
}

func (v *Verifier) countTerminalError(reason string) {
	if v.metrics != nil {
		v.metrics.TerminalErrors.WithLabelValues(reason).Inc()
	}
}

func (v *Verifier) handleResponse(ctx context.Context, resp *amplifierpb.VerifyResponse, recorder SignatureRecorder) error {
	if resp.IsEmpty() {
		return nil
	}

	v.mu.Lock()
	signature, ok := v.pending[resp.MessageID]
	enqueuedAt, hadTimestamp := v.enqueuedAt[resp.MessageID]
	if ok {
		delete(v.pending, resp.MessageID)
		delete(v.enqueuedAt, resp.MessageID)
	}
	pendingCount := len(v.pending)
	v.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMessageID, resp.MessageID)
	}

	if v.metrics != nil {
		v.metrics.PendingMessages.Set(float64(pendingCount))
		if hadTimestamp {
			v.metrics.VerifyLatency.Observe(time.Since(enqueuedAt).Seconds())
		}
	}

	if resp.Ok != nil {
		return recorder.RecordSignature(ctx, resp.MessageID, signature)
	}

	if v.metrics != nil {
		v.metrics.Rejections.Inc()
	}
	v.logger.Printf("message %s rejected by amplifier: %s", resp.MessageID, resp.Err.Reason)
	return nil
}
