// Package capability enumerates the wallet capability methods a provider
// can expose together with their argument and result shapes.
package capability

import (
	"fmt"
)

// Method identifies one asynchronous wallet capability.
type Method string

const (
	// MethodGetInfo reports node details of the backing wallet.
	MethodGetInfo Method = "getInfo"
	// MethodMakeInvoice creates a payment request.
	MethodMakeInvoice Method = "makeInvoice"
	// MethodSendPayment settles a supplied payment request.
	MethodSendPayment Method = "sendPayment"
	// MethodKeysend pays a node directly without an invoice.
	MethodKeysend Method = "keysend"
	// MethodSignMessage signs an arbitrary message with the wallet key.
	MethodSignMessage Method = "signMessage"
	// MethodVerifyMessage checks a signature produced by MethodSignMessage.
	MethodVerifyMessage Method = "verifyMessage"
)

// All lists every method the capability surface defines, in a stable order.
func All() []Method {
	return []Method{
		MethodGetInfo,
		MethodMakeInvoice,
		MethodSendPayment,
		MethodKeysend,
		MethodSignMessage,
		MethodVerifyMessage,
	}
}

// Valid reports whether m is one of the defined capability methods.
func (m Method) Valid() bool {
	switch m {
	case MethodGetInfo, MethodMakeInvoice, MethodSendPayment,
		MethodKeysend, MethodSignMessage, MethodVerifyMessage:
		return true
	default:
		return false
	}
}

func (m Method) String() string {
	return string(m)
}

// Parse converts a raw method name into a Method.
func Parse(name string) (Method, error) {
	m := Method(name)
	if !m.Valid() {
		return "", fmt.Errorf("unknown capability method %q", name)
	}
	return m, nil
}

// NodeInfo describes the node behind the wallet.
type NodeInfo struct {
	Alias  string `json:"alias"`
	Pubkey string `json:"pubkey"`
	Color  string `json:"color,omitempty"`
}

// GetInfoResult is the outcome of a getInfo call.
type GetInfoResult struct {
	Node    NodeInfo `json:"node"`
	Methods []string `json:"methods,omitempty"`
}

// MakeInvoiceArgs carries the requested invoice parameters.
// Amounts are in satoshis; zero values leave the choice to the approver.
type MakeInvoiceArgs struct {
	Amount        int64  `json:"amount,omitempty"`
	DefaultAmount int64  `json:"defaultAmount,omitempty"`
	MinimumAmount int64  `json:"minimumAmount,omitempty"`
	MaximumAmount int64  `json:"maximumAmount,omitempty"`
	DefaultMemo   string `json:"defaultMemo,omitempty"`
}

// MakeInvoiceResult is the outcome of a makeInvoice call.
type MakeInvoiceResult struct {
	PaymentRequest string `json:"paymentRequest"`
}

// SendPaymentArgs carries the payment request to settle.
type SendPaymentArgs struct {
	PaymentRequest string `json:"paymentRequest"`
}

// SendPaymentResult is the proof of a settled payment.
type SendPaymentResult struct {
	Preimage string `json:"preimage"`
}

// KeysendArgs carries a spontaneous payment to a node.
type KeysendArgs struct {
	Destination   string            `json:"destination"`
	Amount        int64             `json:"amount"`
	CustomRecords map[string]string `json:"customRecords,omitempty"`
}

// KeysendResult is the proof of a settled keysend payment.
type KeysendResult struct {
	Preimage string `json:"preimage"`
}

// SignMessageArgs carries the message to sign.
type SignMessageArgs struct {
	Message string `json:"message"`
}

// SignMessageResult is the outcome of a signMessage call.
type SignMessageResult struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

// VerifyMessageArgs carries a signature and the message it should cover.
type VerifyMessageArgs struct {
	Signature string `json:"signature"`
	Message   string `json:"message"`
}

// VerifyMessageResult is the outcome of a verifyMessage call.
type VerifyMessageResult struct {
	Valid bool `json:"valid"`
}
