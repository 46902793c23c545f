package polly

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	pollytypes "github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/domain"
	"github.com/seu-repo/voice-concierge/internal/ports"
)

type synthClient interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

type Config struct {
	Region  string
	Engine  string
	Timeout time.Duration
}

// voices by locale; Polly has no Vietnamese voice so vi-VN uses the default.
var voices = map[string]pollytypes.VoiceId{
	"en-US": pollytypes.VoiceIdJoanna,
	"zh-CN": pollytypes.VoiceIdZhiyu,
	"it-IT": pollytypes.VoiceIdBianca,
}

// Synthesizer is the Amazon Polly alternative to Google Text-to-Speech.
type Synthesizer struct {
	mu     sync.Mutex
	client synthClient
	cfg    Config
	log    *zap.Logger
}

func NewSynthesizer(cfg Config, log *zap.Logger) *Synthesizer {
	return newSynthesizerWithClient(cfg, nil, log)
}

func newSynthesizerWithClient(cfg Config, client synthClient, log *zap.Logger) *Synthesizer {
	if strings.TrimSpace(cfg.Region) == "" {
		cfg.Region = "us-east-1"
	}
	if strings.TrimSpace(cfg.Engine) == "" {
		cfg.Engine = "neural"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Synthesizer{client: client, cfg: cfg, log: log}
}

var _ ports.SynthesisProvider = (*Synthesizer)(nil)

func (s *Synthesizer) Synthesize(ctx context.Context, text, languageCode string) ([]byte, error) {
	client, err := s.resolveClient(ctx)
	if err != nil {
		return nil, err
	}

	engine := pollytypes.EngineStandard
	if strings.EqualFold(s.cfg.Engine, "neural") {
		engine = pollytypes.EngineNeural
	}
	voice, ok := voices[languageCode]
	if !ok {
		voice = pollytypes.VoiceIdJoanna
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	output, err := client.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Engine:       engine,
		OutputFormat: pollytypes.OutputFormatMp3,
		Text:         &text,
		TextType:     pollytypes.TextTypeText,
		VoiceId:      voice,
	})
	if err != nil {
		s.log.Error("Polly synthesis failed",
			zap.String("voice", string(voice)),
			zap.String("reason", classify(err)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("polly: %s: %w", classify(err), err)
	}
	if output == nil || output.AudioStream == nil {
		return nil, &domain.ContractError{Provider: "polly", Field: "AudioStream"}
	}
	defer output.AudioStream.Close()

	audio, err := io.ReadAll(output.AudioStream)
	if err != nil {
		return nil, fmt.Errorf("polly: read audio: %w", err)
	}
	return audio, nil
}

func classify(err error) string {
	if errors.Is(err, context.Canceled) {
		return "cancelled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "TooManyRequestsException", "ThrottlingException":
			return "throttled"
		case "InvalidSsmlException", "TextLengthExceededException", "LexiconNotFoundException":
			return "rejected"
		default:
			return "server_error"
		}
	}
	return "transport_error"
}

func (s *Synthesizer) resolveClient(ctx context.Context) (synthClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(s.cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	s.client = polly.NewFromConfig(awsCfg)
	return s.client, nil
}
