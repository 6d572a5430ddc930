package promptwallet

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pitabwire/util"
	"github.com/rs/xid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pitabwire/promptwallet/capability"
	"github.com/pitabwire/promptwallet/localization"
	"github.com/pitabwire/promptwallet/workerpool"
)

var tracer = otel.Tracer("github.com/pitabwire/promptwallet")

type settlement struct {
	result any
	err    error
}

// RequestHandle is the settlement surface of one admitted request. Approve
// and Reject are mutually exclusive and each is usable at most once; the
// losing call gets ErrAlreadySettled. Settlement clears the arbitrator's
// single in-flight slot before it returns.
type RequestHandle struct {
	id     string
	method capability.Method
	args   any

	arb      *Arbitrator
	consumed atomic.Bool
	done     chan settlement
}

func (h *RequestHandle) ID() string {
	return h.id
}

func (h *RequestHandle) Method() capability.Method {
	return h.method
}

func (h *RequestHandle) Args() any {
	return h.args
}

// Approve resolves the caller's blocked request with result.
func (h *RequestHandle) Approve(result any) error {
	return h.settle(settlement{result: result})
}

// Reject fails the caller's blocked request with the supplied reason.
func (h *RequestHandle) Reject(reason string) error {
	return h.settle(settlement{err: &RejectedError{Reason: reason}})
}

func (h *RequestHandle) settle(st settlement) error {
	if !h.consumed.CompareAndSwap(false, true) {
		return ErrAlreadySettled
	}

	// The slot must be empty before the caller can observe settlement, so
	// a follow-up request admitted right after is never refused. done is
	// buffered so delivery never blocks on the waiting caller.
	h.arb.clear(h)
	h.done <- st
	return nil
}

// Arbitrator owns the single in-flight request slot. It admits one request
// at a time, surfaces it to the renderer and settles the caller once the
// approver decides.
type Arbitrator struct {
	mu     sync.Mutex
	active *RequestHandle

	renderer   Renderer
	translator localization.Manager
	pool       workerpool.WorkerPool
	timeout    time.Duration
}

// ArbitratorOption configures an Arbitrator.
type ArbitratorOption func(*Arbitrator)

// WithArbitratorRenderer sets the decision surface prompts are handed to.
func WithArbitratorRenderer(renderer Renderer) ArbitratorOption {
	return func(a *Arbitrator) {
		a.renderer = renderer
	}
}

// WithArbitratorTranslator sets the localization collaborator used for
// prompt text and the busy message.
func WithArbitratorTranslator(translator localization.Manager) ArbitratorOption {
	return func(a *Arbitrator) {
		a.translator = translator
	}
}

// WithArbitratorPool sets the worker pool settlement notifications are
// dispatched on so a slow renderer never blocks settlement.
func WithArbitratorPool(pool workerpool.WorkerPool) ArbitratorOption {
	return func(a *Arbitrator) {
		a.pool = pool
	}
}

// WithArbitratorTimeout bounds how long an admitted request waits for a
// decision. Zero keeps the wait unbounded.
func WithArbitratorTimeout(timeout time.Duration) ArbitratorOption {
	return func(a *Arbitrator) {
		a.timeout = timeout
	}
}

// NewArbitrator creates an arbitrator with an empty slot.
func NewArbitrator(opts ...ArbitratorOption) *Arbitrator {
	a := &Arbitrator{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Active returns the prompt of the request currently awaiting a decision,
// or nil when the slot is empty.
func (a *Arbitrator) Active() *Prompt {
	a.mu.Lock()
	handle := a.active
	a.mu.Unlock()

	if handle == nil {
		return nil
	}
	return a.promptFor(handle)
}

// Pending reports whether a request is currently awaiting a decision.
func (a *Arbitrator) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active != nil
}

// Admit submits a request for arbitration and blocks until the approver
// settles it, the context is cancelled, or the configured timeout elapses.
// While another request is pending the new caller fails immediately with
// ErrBusy and the active request is untouched.
func (a *Arbitrator) Admit(ctx context.Context, method capability.Method, args any) (any, error) {
	ctx, span := tracer.Start(ctx, "wallet.arbitrate",
		trace.WithAttributes(attribute.String("wallet.method", method.String())))
	defer span.End()

	a.mu.Lock()
	if a.active != nil {
		a.mu.Unlock()

		span.SetStatus(otelcodes.Error, "busy")
		return nil, fmt.Errorf("%s: %w", a.translate(ctx, localization.MessageIDBusy), ErrBusy)
	}

	handle := &RequestHandle{
		id:     xid.New().String(),
		method: method,
		args:   args,
		arb:    a,
		done:   make(chan settlement, 1),
	}
	a.active = handle
	a.mu.Unlock()

	span.SetAttributes(attribute.String("wallet.request_id", handle.id))
	util.Log(ctx).
		WithField("request", handle.id).
		WithField("method", method.String()).
		Debug("wallet request awaiting decision")

	if a.renderer != nil {
		a.renderer.Render(ctx, a.promptFor(handle))
	}

	var timeoutCh <-chan time.Time
	if a.timeout > 0 {
		timer := time.NewTimer(a.timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case st := <-handle.done:
		return a.settled(span, st)

	case <-timeoutCh:
		timeoutErr := fmt.Errorf("wallet prompt timed out after %v: %w", a.timeout, context.DeadlineExceeded)
		if err := handle.settle(settlement{err: timeoutErr}); err != nil {
			// Lost the race against a real decision, honour that decision.
			return a.settled(span, <-handle.done)
		}
		return a.settled(span, <-handle.done)

	case <-ctx.Done():
		if err := handle.settle(settlement{err: ctx.Err()}); err != nil {
			return a.settled(span, <-handle.done)
		}
		return a.settled(span, <-handle.done)
	}
}

func (a *Arbitrator) settled(span trace.Span, st settlement) (any, error) {
	if st.err != nil {
		span.RecordError(st.err)
		span.SetStatus(otelcodes.Error, "request failed")
		return nil, st.err
	}

	span.SetStatus(otelcodes.Ok, "")
	return st.result, nil
}

// clear empties the slot held by h and tells the renderer nothing is
// pending anymore. Clearing happens before the settling call returns so a
// follow-up request admitted from the renderer callback is never refused.
func (a *Arbitrator) clear(h *RequestHandle) {
	a.mu.Lock()
	if a.active == h {
		a.active = nil
	}
	a.mu.Unlock()

	if a.renderer == nil {
		return
	}

	ctx := context.Background()
	task := func() {
		a.renderer.Render(ctx, nil)
	}

	if a.pool != nil {
		if err := a.pool.Submit(ctx, task); err == nil {
			return
		}
	}
	task()
}

func (a *Arbitrator) promptFor(h *RequestHandle) *Prompt {
	return &Prompt{
		ID:        h.id,
		Method:    h.method,
		Args:      h.args,
		Language:  a.language(),
		Translate: a.translate,
		OnApprove: h.Approve,
		OnReject:  h.Reject,
	}
}

func (a *Arbitrator) language() string {
	if a.translator == nil {
		return ""
	}
	return a.translator.DefaultLanguage()
}

// translate resolves messageID through the localization collaborator, with
// the message id itself as fallback text.
func (a *Arbitrator) translate(ctx context.Context, messageID string) string {
	if a.translator == nil {
		return messageID
	}
	return a.translator.Translate(ctx, ctx, messageID)
}
