package promptwallet

import (
	"sync"
)

// Registry is the host's explicit provider slot, replacing an ambient
// global. The host retrieves the current provider itself and routes wallet
// calls through whatever Current returns.
type Registry struct {
	mu      sync.Mutex
	current WalletProvider
}

// NewRegistry creates an empty provider slot.
func NewRegistry() *Registry {
	return &Registry{}
}

// Current returns the provider presently occupying the slot, or nil.
func (r *Registry) Current() WalletProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Install places p into the slot and returns the provider it displaced.
// When a provider is already installed and force is false the slot is left
// untouched and installed is false; the caller is expected to stay inert.
func (r *Registry) Install(p WalletProvider, force bool) (previous WalletProvider, installed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous = r.current
	if previous != nil && !force {
		return previous, false
	}

	r.current = p
	return previous, true
}

// Restore puts a previously displaced provider back into the slot.
func (r *Registry) Restore(previous WalletProvider) {
	r.mu.Lock()
	r.current = previous
	r.mu.Unlock()
}
