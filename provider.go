package promptwallet

import (
	"context"
	"fmt"

	"github.com/pitabwire/promptwallet/capability"
)

// WalletProvider is the capability surface a host hands its callers. The
// fallback Provider implements it by routing every call through the
// arbitrator; a native wallet integration can implement it directly.
type WalletProvider interface {
	Methods() []capability.Method
	Supports(method capability.Method) bool

	GetInfo(ctx context.Context) (*capability.GetInfoResult, error)
	MakeInvoice(ctx context.Context, args capability.MakeInvoiceArgs) (*capability.MakeInvoiceResult, error)
	SendPayment(ctx context.Context, args capability.SendPaymentArgs) (*capability.SendPaymentResult, error)
	Keysend(ctx context.Context, args capability.KeysendArgs) (*capability.KeysendResult, error)
	SignMessage(ctx context.Context, args capability.SignMessageArgs) (*capability.SignMessageResult, error)
	VerifyMessage(ctx context.Context, args capability.VerifyMessageArgs) (*capability.VerifyMessageResult, error)

	Request(ctx context.Context, method string, args any) (any, error)
}

// Provider intercepts wallet capability calls and turns each one into a
// single arbitration round trip. It holds no state of its own beyond the
// immutable supported method set.
type Provider struct {
	arbitrator *Arbitrator
	supported  map[capability.Method]bool
	methods    []capability.Method
}

var _ WalletProvider = (*Provider)(nil)

// NewProvider builds a provider over the supplied arbitrator that exposes
// exactly the given methods. Every supported method must have a prompt
// handler registered, otherwise construction fails with
// MisconfiguredProviderError naming the missing ones.
func NewProvider(
	arbitrator *Arbitrator,
	methods []capability.Method,
	handlers map[capability.Method]PromptHandler,
) (*Provider, error) {
	supported := make(map[capability.Method]bool, len(methods))
	var missing []capability.Method
	for _, m := range methods {
		if supported[m] {
			continue
		}
		supported[m] = true

		if _, ok := handlers[m]; !ok {
			missing = append(missing, m)
		}
	}

	if len(missing) > 0 {
		return nil, &MisconfiguredProviderError{Missing: missing}
	}

	return &Provider{
		arbitrator: arbitrator,
		supported:  supported,
		methods:    append([]capability.Method(nil), methods...),
	}, nil
}

// Methods lists the capability methods this provider intercepts.
func (p *Provider) Methods() []capability.Method {
	return append([]capability.Method(nil), p.methods...)
}

// Supports reports whether the provider intercepts the given method.
func (p *Provider) Supports(method capability.Method) bool {
	return p.supported[method]
}

// Request is the untyped entry point. The method name must belong to the
// provider's supported set; anything else fails before arbitration with no
// side effects.
func (p *Provider) Request(ctx context.Context, method string, args any) (any, error) {
	m, err := capability.Parse(method)
	if err != nil {
		return nil, &UnsupportedMethodError{Method: capability.Method(method)}
	}
	return p.admit(ctx, m, args)
}

func (p *Provider) GetInfo(ctx context.Context) (*capability.GetInfoResult, error) {
	return resultAs[capability.GetInfoResult](p.admit(ctx, capability.MethodGetInfo, nil))
}

func (p *Provider) MakeInvoice(ctx context.Context, args capability.MakeInvoiceArgs) (*capability.MakeInvoiceResult, error) {
	return resultAs[capability.MakeInvoiceResult](p.admit(ctx, capability.MethodMakeInvoice, args))
}

func (p *Provider) SendPayment(ctx context.Context, args capability.SendPaymentArgs) (*capability.SendPaymentResult, error) {
	return resultAs[capability.SendPaymentResult](p.admit(ctx, capability.MethodSendPayment, args))
}

func (p *Provider) Keysend(ctx context.Context, args capability.KeysendArgs) (*capability.KeysendResult, error) {
	return resultAs[capability.KeysendResult](p.admit(ctx, capability.MethodKeysend, args))
}

func (p *Provider) SignMessage(ctx context.Context, args capability.SignMessageArgs) (*capability.SignMessageResult, error) {
	return resultAs[capability.SignMessageResult](p.admit(ctx, capability.MethodSignMessage, args))
}

func (p *Provider) VerifyMessage(ctx context.Context, args capability.VerifyMessageArgs) (*capability.VerifyMessageResult, error) {
	return resultAs[capability.VerifyMessageResult](p.admit(ctx, capability.MethodVerifyMessage, args))
}

// admit forwards one call to the arbitrator. One call, one admission
// attempt; the outcome is returned untouched.
func (p *Provider) admit(ctx context.Context, method capability.Method, args any) (any, error) {
	if !p.supported[method] {
		return nil, &UnsupportedMethodError{Method: method}
	}

	return p.arbitrator.Admit(ctx, method, args)
}

// resultAs narrows an approval result to the method's natural shape.
func resultAs[T any](res any, err error) (*T, error) {
	if err != nil {
		return nil, err
	}

	switch v := res.(type) {
	case *T:
		return v, nil
	case T:
		return &v, nil
	default:
		return nil, fmt.Errorf("approval returned unexpected result type %T", res)
	}
}
