package google

import (
	"context"
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/domain"
	"github.com/seu-repo/voice-concierge/internal/ports"
)

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		SSMLGender   string `json:"ssmlGender"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string `json:"audioEncoding"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesizer calls Text-to-Speech v1 text:synthesize and returns MP3 audio.
type Synthesizer struct {
	rest   *restClient
	url    string
	apiKey string
}

func NewSynthesizer(cfg Config, log *zap.Logger) *Synthesizer {
	return &Synthesizer{
		rest:   newRESTClient("google-tts", cfg, log),
		url:    cfg.TTSURL,
		apiKey: cfg.APIKey,
	}
}

var _ ports.SynthesisProvider = (*Synthesizer)(nil)

func (s *Synthesizer) Synthesize(ctx context.Context, text, languageCode string) ([]byte, error) {
	var req synthesizeRequest
	req.Input.Text = text
	req.Voice.LanguageCode = languageCode
	req.Voice.SSMLGender = "FEMALE"
	req.AudioConfig.AudioEncoding = "MP3"

	var resp synthesizeResponse
	if err := s.rest.postJSON(ctx, withKey(s.url, s.apiKey), nil, req, &resp); err != nil {
		return nil, err
	}
	if resp.AudioContent == "" {
		return nil, &domain.ContractError{Provider: "google-tts", Field: "audioContent"}
	}
	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("google-tts: invalid audioContent: %w", err)
	}
	return audio, nil
}
