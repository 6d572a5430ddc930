package promptwallet

import (
	"context"

	"github.com/pitabwire/util"

	"github.com/pitabwire/promptwallet/capability"
)

// TranslateFunc resolves a message id to display text for the prompt surface.
type TranslateFunc func(ctx context.Context, messageID string) string

// Prompt is the data handed to the renderer whenever a request becomes
// pending. OnApprove and OnReject settle the caller's blocked request; each
// is usable at most once and the second settlement attempt returns
// ErrAlreadySettled.
type Prompt struct {
	ID        string
	Method    capability.Method
	Args      any
	Language  string
	Translate TranslateFunc
	OnApprove func(result any) error
	OnReject  func(reason string) error
}

// Renderer is the external decision surface. Render receives the active
// prompt on each pending transition and nil once that request settles.
// The arbitrator never dictates how, or whether, anything is shown.
type Renderer interface {
	Render(ctx context.Context, prompt *Prompt)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, prompt *Prompt)

func (f RendererFunc) Render(ctx context.Context, prompt *Prompt) {
	f(ctx, prompt)
}

// PromptHandler displays a single capability method's prompt view.
type PromptHandler interface {
	Show(ctx context.Context, prompt *Prompt)
}

// PromptHandlerFunc adapts a function to the PromptHandler interface.
type PromptHandlerFunc func(ctx context.Context, prompt *Prompt)

func (f PromptHandlerFunc) Show(ctx context.Context, prompt *Prompt) {
	f(ctx, prompt)
}

// HandlerRenderer dispatches each prompt to the handler registered for its
// method. A prompt for a method without a handler is dropped with a warning,
// leaving the request pending.
type HandlerRenderer struct {
	handlers map[capability.Method]PromptHandler
}

// NewHandlerRenderer builds a renderer over a per-method handler map.
func NewHandlerRenderer(handlers map[capability.Method]PromptHandler) *HandlerRenderer {
	return &HandlerRenderer{handlers: handlers}
}

// Handlers exposes the registered handler map for construction time
// validation against a provider's supported method set.
func (r *HandlerRenderer) Handlers() map[capability.Method]PromptHandler {
	return r.handlers
}

func (r *HandlerRenderer) Render(ctx context.Context, prompt *Prompt) {
	if prompt == nil {
		return
	}

	handler, ok := r.handlers[prompt.Method]
	if !ok {
		util.Log(ctx).
			WithField("method", prompt.Method.String()).
			WithField("request", prompt.ID).
			Warn("no prompt handler registered, request will stay pending")
		return
	}

	handler.Show(ctx, prompt)
}
