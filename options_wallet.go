package promptwallet

import (
	"context"
	"time"

	"github.com/pitabwire/promptwallet/capability"
)

// WithMethods Option that restricts which capability methods the provider
// intercepts. Everything outside this set fails fast with
// ErrUnsupportedMethod.
func WithMethods(methods ...capability.Method) Option {
	return func(_ context.Context, s *Service) {
		s.methods = methods
	}
}

// WithHandlers Option that registers the per-method prompt handlers the
// renderer dispatches to. Every supported method needs one; validation
// happens once at construction.
func WithHandlers(handlers map[capability.Method]PromptHandler) Option {
	return func(_ context.Context, s *Service) {
		s.handlers = handlers
	}
}

// WithRenderer Option that replaces the default handler dispatching
// renderer with a custom decision surface.
func WithRenderer(renderer Renderer) Option {
	return func(_ context.Context, s *Service) {
		s.renderer = renderer
	}
}

// WithForceInstall Option that makes Install displace an already present
// provider instead of staying inert.
func WithForceInstall() Option {
	return func(_ context.Context, s *Service) {
		s.forceInstall = true
	}
}

// WithPromptTimeout Option that bounds how long an admitted request waits
// for a human decision. Zero preserves unbounded waiting.
func WithPromptTimeout(timeout time.Duration) Option {
	return func(_ context.Context, s *Service) {
		s.promptTimeout = timeout
	}
}
