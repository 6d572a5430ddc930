package promptwallet

import (
	"context"

	"github.com/pitabwire/promptwallet/localization"
)

// WithTranslations Option that loads the supplied language packs for prompt text.
func WithTranslations(translationsFolder string, languages ...string) Option {
	return func(_ context.Context, s *Service) {
		s.localizationManager = localization.NewManager(translationsFolder, languages...)
	}
}

// WithLanguage Option that sets the default language prompts are rendered
// in. Effective regardless of its position relative to WithTranslations;
// the tag is applied once the manager is resolved.
func WithLanguage(tag string) Option {
	return func(_ context.Context, s *Service) {
		s.defaultLanguage = tag
	}
}

// Localization accesses the translation manager instantiated in the system.
func (s *Service) Localization() localization.Manager {
	return s.localizationManager
}

// ChangeLanguage re-points subsequent translations at the supplied tag.
func (s *Service) ChangeLanguage(tag string) {
	if s.localizationManager != nil {
		s.localizationManager.SetDefaultLanguage(tag)
	}
}

// Translate performs a quick translation based on the supplied message id.
func (s *Service) Translate(ctx context.Context, request any, messageID string) string {
	return s.localizationManager.Translate(ctx, request, messageID)
}

// TranslateWithMap performs a translation with variables based on the supplied message id.
func (s *Service) TranslateWithMap(ctx context.Context, request any, messageID string, variables map[string]any) string {
	return s.localizationManager.TranslateWithMap(ctx, request, messageID, variables)
}
