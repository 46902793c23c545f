package ports

import (
	"context"
	"encoding/json"

	"github.com/seu-repo/voice-concierge/internal/domain"
)

// RecognitionProvider turns audio into a transcript.
type RecognitionProvider interface {
	Recognize(ctx context.Context, audio []byte, languageHint string, alternatives []string) (domain.Transcript, error)
}

type TranslationProvider interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// SynthesisProvider returns encoded audio (MP3) for text.
type SynthesisProvider interface {
	Synthesize(ctx context.Context, text, languageCode string) ([]byte, error)
}

type IntentProvider interface {
	DetectIntent(ctx context.Context, sessionID, text, languageCode string) (domain.Intent, error)
}

// DeviceGateway is the authenticated device-control backend.
type DeviceGateway interface {
	ControlDevice(ctx context.Context, path string, body interface{}) (json.RawMessage, error)
	QueryDevices(ctx context.Context, roomID string) (json.RawMessage, error)
}

// DeviceOperator issues a single control command, real or simulated.
type DeviceOperator interface {
	Operate(ctx context.Context, controlPath string, value interface{}) (json.RawMessage, error)
}

type DeviceService interface {
	DeviceOperator
	ListDevices(ctx context.Context, roomID string) (json.RawMessage, error)
}

type SceneService interface {
	Scenes() []domain.Scene
	Scene(id string) (domain.Scene, bool)
	FindByVoiceCommand(command string) (domain.Scene, bool)
	ExecuteScene(ctx context.Context, sceneID, roomID string) domain.SceneResult
}

// TextTranslator resolves text into the working language.
type TextTranslator interface {
	ToWorkingLanguage(ctx context.Context, text string, source domain.Language) string
}

type LanguageResolver interface {
	Resolve(text, providerHint string) domain.Language
}
