package polly

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	pollysdk "github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/domain"
)

type fakePollyClient struct {
	out  *pollysdk.SynthesizeSpeechOutput
	err  error
	last *pollysdk.SynthesizeSpeechInput
}

func (f *fakePollyClient) SynthesizeSpeech(ctx context.Context, params *pollysdk.SynthesizeSpeechInput, optFns ...func(*pollysdk.Options)) (*pollysdk.SynthesizeSpeechOutput, error) {
	f.last = params
	return f.out, f.err
}

type fakeAPIError struct {
	code string
}

func (e fakeAPIError) Error() string                 { return e.code }
func (e fakeAPIError) ErrorCode() string             { return e.code }
func (e fakeAPIError) ErrorMessage() string          { return e.code }
func (e fakeAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultServer }

func TestSynthesize_Success(t *testing.T) {
	client := &fakePollyClient{
		out: &pollysdk.SynthesizeSpeechOutput{AudioStream: io.NopCloser(bytes.NewReader([]byte("mp3")))},
	}
	s := newSynthesizerWithClient(Config{}, client, zap.NewNop())

	audio, err := s.Synthesize(context.Background(), "The room light is now on.", "en-US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(audio) != "mp3" {
		t.Errorf("unexpected audio %q", audio)
	}
	if client.last.VoiceId != types.VoiceIdJoanna || client.last.Engine != types.EngineNeural {
		t.Errorf("unexpected request %+v", client.last)
	}
	if client.last.OutputFormat != types.OutputFormatMp3 {
		t.Errorf("expected mp3 output, got %s", client.last.OutputFormat)
	}
}

func TestSynthesize_VoiceByLanguage(t *testing.T) {
	client := &fakePollyClient{
		out: &pollysdk.SynthesizeSpeechOutput{AudioStream: io.NopCloser(bytes.NewReader(nil))},
	}
	s := newSynthesizerWithClient(Config{Engine: "standard"}, client, zap.NewNop())

	s.Synthesize(context.Background(), "你好", "zh-CN")
	if client.last.VoiceId != types.VoiceIdZhiyu || client.last.Engine != types.EngineStandard {
		t.Errorf("unexpected request %+v", client.last)
	}
	s.Synthesize(context.Background(), "xin chào", "vi-VN")
	if client.last.VoiceId != types.VoiceIdJoanna {
		t.Errorf("expected default voice, got %s", client.last.VoiceId)
	}
}

func TestSynthesize_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason string
	}{
		{"throttled", fakeAPIError{code: "TooManyRequestsException"}, "throttled"},
		{"rejected", fakeAPIError{code: "TextLengthExceededException"}, "rejected"},
		{"server", fakeAPIError{code: "ServiceFailureException"}, "server_error"},
		{"timeout", context.DeadlineExceeded, "timeout"},
		{"transport", errors.New("dial tcp: no route"), "transport_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSynthesizerWithClient(Config{}, &fakePollyClient{err: tt.err}, zap.NewNop())
			_, err := s.Synthesize(context.Background(), "hi", "en-US")
			if err == nil || !strings.Contains(err.Error(), tt.reason) {
				t.Errorf("expected %s error, got %v", tt.reason, err)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("expected wrapped cause, got %v", err)
			}
		})
	}
}

func TestSynthesize_EmptyAudioStream(t *testing.T) {
	s := newSynthesizerWithClient(Config{}, &fakePollyClient{out: &pollysdk.SynthesizeSpeechOutput{}}, zap.NewNop())
	_, err := s.Synthesize(context.Background(), "hi", "en-US")
	if !errors.Is(err, domain.ErrProviderContract) {
		t.Errorf("expected contract error, got %v", err)
	}
}
