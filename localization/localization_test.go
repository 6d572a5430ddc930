package localization_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pitabwire/promptwallet/localization"
)

const busyEnglish = "Another wallet request is already awaiting your decision"
const busySwahili = "Ombi lingine la pochi bado linasubiri uamuzi wako"

func newTestManager(t *testing.T) localization.Manager {
	t.Helper()
	return localization.NewManager(".", "en", "sw")
}

func TestTranslateBusyMessage(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()

	require.Equal(t, busyEnglish, manager.Translate(ctx, "en", localization.MessageIDBusy))
	require.Equal(t, busySwahili, manager.Translate(ctx, "sw", localization.MessageIDBusy))
}

func TestTranslateFallsBackToDefaultLanguage(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()

	require.Equal(t, "en", manager.DefaultLanguage())
	require.Equal(t, busyEnglish, manager.Translate(ctx, nil, localization.MessageIDBusy))

	manager.SetDefaultLanguage("sw")
	require.Equal(t, "sw", manager.DefaultLanguage())
	require.Equal(t, busySwahili, manager.Translate(ctx, nil, localization.MessageIDBusy))

	// Empty tags leave the default untouched.
	manager.SetDefaultLanguage("")
	require.Equal(t, "sw", manager.DefaultLanguage())
}

func TestMissingFolderFallsBackToShippedPacks(t *testing.T) {
	var manager localization.Manager
	require.NotPanics(t, func() {
		manager = localization.NewManager("does-not-exist", "en", "sw")
	})

	ctx := context.Background()
	require.Equal(t, busyEnglish, manager.Translate(ctx, "en", localization.MessageIDBusy))
	require.Equal(t, busySwahili, manager.Translate(ctx, "sw", localization.MessageIDBusy))
}

func TestUnshippedLanguageDoesNotPanic(t *testing.T) {
	require.NotPanics(t, func() {
		localization.NewManager("does-not-exist", "xx")
	})
}

func TestTranslateFromContextPreference(t *testing.T) {
	manager := newTestManager(t)

	ctx := localization.ToContext(context.Background(), []string{"sw", "en"})
	require.Equal(t, busySwahili, manager.Translate(ctx, ctx, localization.MessageIDBusy))
}

func TestTranslateWithVariables(t *testing.T) {
	manager := newTestManager(t)

	text := manager.TranslateWithMap(context.Background(), "en",
		"MakeInvoicePrompt", map[string]any{"Amount": 21})
	require.Contains(t, text, "21")
}

func TestExtractLanguageFromHTTPRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?lang=sw", nil)
	req.Header.Set("Accept-Language", "en-US,en")

	languages := localization.ExtractLanguageFromHTTPRequest(req)
	require.Equal(t, []string{"sw", "en-US", "en"}, languages)

	manager := newTestManager(t)
	require.Equal(t, busySwahili,
		manager.Translate(context.Background(), req, localization.MessageIDBusy))
}
