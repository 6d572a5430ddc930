package capability_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pitabwire/promptwallet/capability"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    capability.Method
		wantErr bool
	}{
		{name: "get info", input: "getInfo", want: capability.MethodGetInfo},
		{name: "make invoice", input: "makeInvoice", want: capability.MethodMakeInvoice},
		{name: "send payment", input: "sendPayment", want: capability.MethodSendPayment},
		{name: "keysend", input: "keysend", want: capability.MethodKeysend},
		{name: "sign message", input: "signMessage", want: capability.MethodSignMessage},
		{name: "verify message", input: "verifyMessage", want: capability.MethodVerifyMessage},
		{name: "wrong case", input: "GetInfo", wantErr: true},
		{name: "unknown", input: "teleportSats", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := capability.Parse(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				require.Contains(t, err.Error(), "unknown capability method")
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestAllAreValid(t *testing.T) {
	all := capability.All()
	require.Len(t, all, 6)

	seen := make(map[capability.Method]bool, len(all))
	for _, m := range all {
		require.True(t, m.Valid(), "method %q should be valid", m)
		require.False(t, seen[m], "method %q listed twice", m)
		seen[m] = true
	}

	require.False(t, capability.Method("payInvoice").Valid())
}

func TestMethodString(t *testing.T) {
	require.Equal(t, "signMessage", capability.MethodSignMessage.String())
}
