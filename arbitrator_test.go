package promptwallet_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pitabwire/promptwallet"
	"github.com/pitabwire/promptwallet/capability"
	"github.com/pitabwire/promptwallet/localization"
)

// captureRenderer records every hand-off the arbitrator makes, pending
// prompts and the nil delivered on settlement alike.
type captureRenderer struct {
	mu      sync.Mutex
	prompts chan *promptwallet.Prompt
	cleared int
}

func newCaptureRenderer() *captureRenderer {
	return &captureRenderer{prompts: make(chan *promptwallet.Prompt, 4)}
}

func (r *captureRenderer) Render(_ context.Context, prompt *promptwallet.Prompt) {
	if prompt == nil {
		r.mu.Lock()
		r.cleared++
		r.mu.Unlock()
		return
	}
	r.prompts <- prompt
}

func (r *captureRenderer) clearCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cleared
}

func (r *captureRenderer) waitPrompt(t *testing.T) *promptwallet.Prompt {
	t.Helper()
	select {
	case prompt := <-r.prompts:
		return prompt
	case <-time.After(2 * time.Second):
		t.Fatal("no prompt was rendered within time limit")
		return nil
	}
}

type admitOutcome struct {
	result any
	err    error
}

func admitAsync(
	arb *promptwallet.Arbitrator, method capability.Method, args any,
) <-chan admitOutcome {
	out := make(chan admitOutcome, 1)
	go func() {
		result, err := arb.Admit(context.Background(), method, args)
		out <- admitOutcome{result: result, err: err}
	}()
	return out
}

func TestArbitratorRoundTrip(t *testing.T) {
	renderer := newCaptureRenderer()
	arb := promptwallet.NewArbitrator(promptwallet.WithArbitratorRenderer(renderer))

	outcome := admitAsync(arb, capability.MethodSendPayment,
		capability.SendPaymentArgs{PaymentRequest: "lnbc1pvjluez"})

	prompt := renderer.waitPrompt(t)
	require.Equal(t, capability.MethodSendPayment, prompt.Method)
	require.NotEmpty(t, prompt.ID)
	require.True(t, arb.Pending())

	err := prompt.OnApprove(capability.SendPaymentResult{Preimage: "abc"})
	require.NoError(t, err)

	settled := <-outcome
	require.NoError(t, settled.err)
	require.Equal(t, capability.SendPaymentResult{Preimage: "abc"}, settled.result)

	require.False(t, arb.Pending(), "slot should be empty after settlement")
	require.Nil(t, arb.Active())
	require.Equal(t, 1, renderer.clearCount(), "renderer should be told nothing is pending")
}

func TestArbitratorBusy(t *testing.T) {
	renderer := newCaptureRenderer()
	translator := localization.NewManager("localization", "en")
	arb := promptwallet.NewArbitrator(
		promptwallet.WithArbitratorRenderer(renderer),
		promptwallet.WithArbitratorTranslator(translator),
	)

	first := admitAsync(arb, capability.MethodMakeInvoice, capability.MakeInvoiceArgs{Amount: 21})
	firstPrompt := renderer.waitPrompt(t)

	// A second admission while the first is pending fails immediately and
	// never becomes active.
	_, err := arb.Admit(context.Background(), capability.MethodSignMessage,
		capability.SignMessageArgs{Message: "hello"})
	require.ErrorIs(t, err, promptwallet.ErrBusy)
	require.Contains(t, err.Error(), "Another wallet request is already awaiting your decision")

	require.True(t, arb.Pending())
	require.Equal(t, capability.MethodMakeInvoice, arb.Active().Method)

	require.NoError(t, firstPrompt.OnReject("declined"))

	settled := <-first
	require.ErrorIs(t, settled.err, promptwallet.ErrRejected)
	var rejected *promptwallet.RejectedError
	require.ErrorAs(t, settled.err, &rejected)
	require.Equal(t, "declined", rejected.Reason)

	// Slot is reusable straight away.
	next := admitAsync(arb, capability.MethodGetInfo, nil)
	nextPrompt := renderer.waitPrompt(t)
	require.NoError(t, nextPrompt.OnApprove(capability.GetInfoResult{Node: capability.NodeInfo{Alias: "carol"}}))
	require.NoError(t, (<-next).err)
}

func TestArbitratorSettlementExclusivity(t *testing.T) {
	testCases := []struct {
		name   string
		first  func(p *promptwallet.Prompt) error
		second func(p *promptwallet.Prompt) error
	}{
		{
			name:   "approve then reject",
			first:  func(p *promptwallet.Prompt) error { return p.OnApprove("ok") },
			second: func(p *promptwallet.Prompt) error { return p.OnReject("late") },
		},
		{
			name:   "reject then approve",
			first:  func(p *promptwallet.Prompt) error { return p.OnReject("no") },
			second: func(p *promptwallet.Prompt) error { return p.OnApprove("late") },
		},
		{
			name:   "approve twice",
			first:  func(p *promptwallet.Prompt) error { return p.OnApprove("ok") },
			second: func(p *promptwallet.Prompt) error { return p.OnApprove("again") },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			renderer := newCaptureRenderer()
			arb := promptwallet.NewArbitrator(promptwallet.WithArbitratorRenderer(renderer))

			outcome := admitAsync(arb, capability.MethodSignMessage,
				capability.SignMessageArgs{Message: "m"})
			prompt := renderer.waitPrompt(t)

			require.NoError(t, tc.first(prompt))
			require.ErrorIs(t, tc.second(prompt), promptwallet.ErrAlreadySettled)

			// Only the first settlement is observable by the caller.
			settled := <-outcome
			if settled.err != nil {
				var rejected *promptwallet.RejectedError
				require.ErrorAs(t, settled.err, &rejected)
				require.NotEqual(t, "late", rejected.Reason)
			} else {
				require.Equal(t, "ok", settled.result)
			}

			require.False(t, arb.Pending())
		})
	}
}

func TestArbitratorContextCancellation(t *testing.T) {
	renderer := newCaptureRenderer()
	arb := promptwallet.NewArbitrator(promptwallet.WithArbitratorRenderer(renderer))

	ctx, cancel := context.WithCancel(context.Background())
	outcome := make(chan admitOutcome, 1)
	go func() {
		result, err := arb.Admit(ctx, capability.MethodKeysend, capability.KeysendArgs{Amount: 10})
		outcome <- admitOutcome{result: result, err: err}
	}()

	renderer.waitPrompt(t)
	cancel()

	settled := <-outcome
	require.ErrorIs(t, settled.err, context.Canceled)
	require.False(t, arb.Pending(), "cancellation should release the slot")
}

func TestArbitratorPromptTimeout(t *testing.T) {
	renderer := newCaptureRenderer()
	arb := promptwallet.NewArbitrator(
		promptwallet.WithArbitratorRenderer(renderer),
		promptwallet.WithArbitratorTimeout(20*time.Millisecond),
	)

	outcome := admitAsync(arb, capability.MethodMakeInvoice, capability.MakeInvoiceArgs{Amount: 1})
	renderer.waitPrompt(t)

	settled := <-outcome
	require.ErrorIs(t, settled.err, context.DeadlineExceeded)
	require.False(t, arb.Pending())
}

func TestArbitratorSlotReusableImmediatelyAfterSettlement(t *testing.T) {
	prompts := make(chan *promptwallet.Prompt, 1)
	renderer := promptwallet.RendererFunc(func(_ context.Context, p *promptwallet.Prompt) {
		if p != nil {
			prompts <- p
		}
	})
	arb := promptwallet.NewArbitrator(promptwallet.WithArbitratorRenderer(renderer))

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			select {
			case p := <-prompts:
				_ = p.OnApprove("ok")
			case <-stop:
				return
			}
		}
	}()

	// The approver settles from another goroutine; the caller re-admits the
	// instant it observes settlement. The slot must be free every time.
	for range 200 {
		res, err := arb.Admit(context.Background(), capability.MethodGetInfo, nil)
		require.NoError(t, err)
		require.Equal(t, "ok", res)
		require.False(t, arb.Pending())
	}
}

func TestArbitratorWithoutRendererStaysPending(t *testing.T) {
	arb := promptwallet.NewArbitrator()

	outcome := admitAsync(arb, capability.MethodGetInfo, nil)

	require.Eventually(t, arb.Pending, time.Second, 5*time.Millisecond)

	select {
	case settled := <-outcome:
		t.Fatalf("request settled without a decision: %+v", settled)
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, arb.Active().OnReject("shutting down"))
	require.ErrorIs(t, (<-outcome).err, promptwallet.ErrRejected)
}
