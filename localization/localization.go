// Package localization supplies the translation collaborator the wallet
// prompts use for all user visible text.
package localization

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pitabwire/util"
	"golang.org/x/text/language"
)

// MessageIDBusy resolves to the message shown to a caller whose request
// arrived while another request was still pending.
const MessageIDBusy = "WalletRequestBusy"

type contextKey string

func (c contextKey) String() string {
	return "promptwallet/localization/" + string(c)
}

const ctxKeyLanguage = contextKey("languageKey")

// ToContext adds language preferences to the supplied context.
func ToContext(ctx context.Context, lang []string) context.Context {
	return context.WithValue(ctx, ctxKeyLanguage, lang)
}

// FromContext extracts language preferences from the supplied context if any exist.
func FromContext(ctx context.Context) []string {
	languages, ok := ctx.Value(ctxKeyLanguage).([]string)
	if !ok {
		return nil
	}

	return languages
}

// Manager resolves message ids to translated text for prompt rendering.
type Manager interface {
	Bundle() *i18n.Bundle
	DefaultLanguage() string
	SetDefaultLanguage(tag string)
	Translate(ctx context.Context, request any, messageID string) string
	TranslateWithMap(
		ctx context.Context,
		request any,
		messageID string,
		variables map[string]any,
	) string
	TranslateWithMapAndCount(
		ctx context.Context,
		request any,
		messageID string,
		variables map[string]any,
		count int,
	) string
}

type managerImpl struct {
	bundle *i18n.Bundle

	mu          sync.RWMutex
	defaultLang string
}

// NewManager loads the supplied language packs from translationsFolder.
// Message files are named messages.<lang>.toml. A pack missing from the
// folder falls back to the shipped embedded pack; a language with neither
// is skipped with a warning and its message ids render as-is.
func NewManager(translationsFolder string, languages ...string) Manager {
	if translationsFolder == "" {
		translationsFolder = "localization"
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, lang := range languages {
		file := fmt.Sprintf("messages.%v.toml", lang)
		if _, err := bundle.LoadMessageFile(fmt.Sprintf("%s/%s", translationsFolder, file)); err == nil {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(defaultPacks, file); err != nil {
			util.Log(context.Background()).
				WithField("language", lang).
				WithField("folder", translationsFolder).
				Warn("no message pack found for language")
		}
	}

	defaultLang := language.English.String()
	if len(languages) > 0 {
		defaultLang = languages[0]
	}

	return &managerImpl{bundle: bundle, defaultLang: defaultLang}
}

// Bundle accesses the translation bundle instantiated in the system.
func (s *managerImpl) Bundle() *i18n.Bundle {
	return s.bundle
}

// DefaultLanguage reports the tag used when a request carries no language.
func (s *managerImpl) DefaultLanguage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultLang
}

// SetDefaultLanguage re-points subsequent translations at the supplied tag.
func (s *managerImpl) SetDefaultLanguage(tag string) {
	if tag == "" {
		return
	}
	s.mu.Lock()
	s.defaultLang = tag
	s.mu.Unlock()
}

// Translate performs a quick translation based on the supplied message id.
func (s *managerImpl) Translate(ctx context.Context, request any, messageID string) string {
	return s.TranslateWithMap(ctx, request, messageID, map[string]any{})
}

// TranslateWithMap performs a translation with variables based on the supplied message id.
func (s *managerImpl) TranslateWithMap(
	ctx context.Context,
	request any,
	messageID string,
	variables map[string]any,
) string {
	return s.TranslateWithMapAndCount(ctx, request, messageID, variables, 1)
}

// TranslateWithMapAndCount performs a translation with variables based on the supplied message id and can pluralize.
func (s *managerImpl) TranslateWithMapAndCount(
	ctx context.Context,
	request any,
	messageID string,
	variables map[string]any,
	count int,
) string {
	var languageSlice []string

	switch v := request.(type) {
	case *http.Request:
		languageSlice = ExtractLanguageFromHTTPRequest(v)

	case context.Context:
		languageSlice = FromContext(v)

	case string:
		if v != "" {
			languageSlice = []string{v}
		}

	case []string:
		languageSlice = v

	case nil:

	default:
		logger := util.Log(ctx).WithField("messageID", messageID).WithField("variables", variables)
		logger.Warn("TranslateWithMapAndCount -- no valid request object found, use string, []string, context or http.Request")
		return messageID
	}

	if len(languageSlice) == 0 {
		languageSlice = []string{s.DefaultLanguage()}
	}

	localizer := i18n.NewLocalizer(s.Bundle(), languageSlice...)

	transVersion, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:      messageID,
		DefaultMessage: &i18n.Message{ID: messageID},
		TemplateData:   variables,
		PluralCount:    count,
	})

	if err != nil {
		logger := util.Log(ctx).WithError(err)
		logger.Error("TranslateWithMapAndCount -- could not perform translation")
	}

	return transVersion
}

// ExtractLanguageFromHTTPRequest obtains language preferences from a request's
// lang form value and Accept-Language header in that order.
func ExtractLanguageFromHTTPRequest(req *http.Request) []string {
	lang := req.FormValue("lang")

	acceptedLang := ExtractLanguageFromHTTPHeader(req.Header)

	var languages []string
	if lang != "" {
		languages = append(languages, lang)
	}

	return append(languages, acceptedLang...)
}

// ExtractLanguageFromHTTPHeader splits the Accept-Language header into tags.
func ExtractLanguageFromHTTPHeader(req http.Header) []string {
	acceptLanguageHeader := req.Get("Accept-Language")
	return strings.Split(acceptLanguageHeader, ",")
}
