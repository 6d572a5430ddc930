package promptwallet

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pitabwire/promptwallet/capability"
)

var (
	// ErrBusy is returned to a caller whose request arrived while another
	// request was still awaiting a decision. The wrapping error carries the
	// localized busy message.
	ErrBusy = errors.New("another wallet request is pending")

	// ErrUnsupportedMethod is returned when a provider is asked for a
	// capability it was not configured to intercept.
	ErrUnsupportedMethod = errors.New("capability method not supported")

	// ErrRejected is returned to a caller whose request the approver declined.
	ErrRejected = errors.New("wallet request rejected")

	// ErrAlreadySettled is returned when a request handle is approved or
	// rejected after it has already been settled.
	ErrAlreadySettled = errors.New("wallet request already settled")
)

// MisconfiguredProviderError reports supported methods that have no prompt
// handler registered. It is fatal at construction time.
type MisconfiguredProviderError struct {
	Missing []capability.Method
}

func (e *MisconfiguredProviderError) Error() string {
	missing := make([]string, 0, len(e.Missing))
	for _, m := range e.Missing {
		missing = append(missing, m.String())
	}
	sort.Strings(missing)
	return fmt.Sprintf("provider misconfigured, no prompt handler for: %s", strings.Join(missing, ", "))
}

// UnsupportedMethodError identifies the method a caller asked for outside the
// configured set.
type UnsupportedMethodError struct {
	Method capability.Method
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("capability method %q not supported", e.Method)
}

func (e *UnsupportedMethodError) Unwrap() error {
	return ErrUnsupportedMethod
}

// RejectedError carries the approver's reason for declining a request.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	if e.Reason == "" {
		return ErrRejected.Error()
	}
	return fmt.Sprintf("wallet request rejected: %s", e.Reason)
}

func (e *RejectedError) Unwrap() error {
	return ErrRejected
}
