package google

import (
	"context"

	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/domain"
	"github.com/seu-repo/voice-concierge/internal/ports"
)

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	Data *struct {
		Translations []struct {
			TranslatedText *string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

// Translator calls Cloud Translation v2.
type Translator struct {
	rest   *restClient
	url    string
	apiKey string
}

func NewTranslator(cfg Config, log *zap.Logger) *Translator {
	return &Translator{
		rest:   newRESTClient("google-translate", cfg, log),
		url:    cfg.TranslateURL,
		apiKey: cfg.APIKey,
	}
}

var _ ports.TranslationProvider = (*Translator)(nil)

func (t *Translator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	req := translateRequest{Q: text, Source: sourceLang, Target: targetLang, Format: "text"}

	var resp translateResponse
	if err := t.rest.postJSON(ctx, withKey(t.url, t.apiKey), nil, req, &resp); err != nil {
		return "", err
	}
	if resp.Data == nil || len(resp.Data.Translations) == 0 || resp.Data.Translations[0].TranslatedText == nil {
		return "", &domain.ContractError{Provider: "google-translate", Field: "data.translations[0].translatedText"}
	}
	return *resp.Data.Translations[0].TranslatedText, nil
}
