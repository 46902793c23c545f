package google

import (
	"context"
	"encoding/base64"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/domain"
	"github.com/seu-repo/voice-concierge/internal/ports"
)

type recognizeRequest struct {
	Config struct {
		Encoding                   string   `json:"encoding"`
		SampleRateHertz            int      `json:"sampleRateHertz"`
		LanguageCode               string   `json:"languageCode"`
		AlternativeLanguageCodes   []string `json:"alternativeLanguageCodes,omitempty"`
		EnableAutomaticPunctuation bool     `json:"enableAutomaticPunctuation"`
	} `json:"config"`
	Audio struct {
		Content string `json:"content"`
	} `json:"audio"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
		LanguageCode string `json:"languageCode"`
	} `json:"results"`
}

// Recognizer calls Speech-to-Text v1 speech:recognize.
type Recognizer struct {
	rest       *restClient
	url        string
	apiKey     string
	sampleRate int
	log        *zap.Logger
}

func NewRecognizer(cfg Config, log *zap.Logger) *Recognizer {
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = 16000
	}
	return &Recognizer{
		rest:       newRESTClient("google-speech", cfg, log),
		url:        cfg.SpeechURL,
		apiKey:     cfg.APIKey,
		sampleRate: rate,
		log:        log,
	}
}

var _ ports.RecognitionProvider = (*Recognizer)(nil)

// Recognize returns the joined transcript of all results. No results means no speech.
func (r *Recognizer) Recognize(ctx context.Context, audio []byte, languageHint string, alternatives []string) (domain.Transcript, error) {
	if languageHint == "" {
		languageHint = domain.WorkingLanguage.Locale()
	}

	var req recognizeRequest
	req.Config.Encoding = "LINEAR16"
	req.Config.SampleRateHertz = r.sampleRate
	req.Config.LanguageCode = languageHint
	req.Config.EnableAutomaticPunctuation = true
	for _, alt := range alternatives {
		if !strings.EqualFold(alt, languageHint) {
			req.Config.AlternativeLanguageCodes = append(req.Config.AlternativeLanguageCodes, alt)
		}
	}
	req.Audio.Content = base64.StdEncoding.EncodeToString(audio)

	var resp recognizeResponse
	if err := r.rest.postJSON(ctx, withKey(r.url, r.apiKey), nil, req, &resp); err != nil {
		return domain.Transcript{}, err
	}

	var (
		parts []string
		lang  string
	)
	for _, res := range resp.Results {
		if len(res.Alternatives) == 0 {
			continue
		}
		if t := strings.TrimSpace(res.Alternatives[0].Transcript); t != "" {
			parts = append(parts, t)
		}
		if lang == "" {
			lang = res.LanguageCode
		}
	}

	transcript := domain.Transcript{Text: strings.Join(parts, " "), LanguageHint: lang}
	r.log.Debug("Speech recognized",
		zap.String("transcript", transcript.Text),
		zap.String("language_code", lang),
	)
	return transcript, nil
}
