package voice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/domain"
	"github.com/seu-repo/voice-concierge/internal/observability/telemetry"
	"github.com/seu-repo/voice-concierge/internal/ports"
	"github.com/seu-repo/voice-concierge/internal/service/intent"
	"github.com/seu-repo/voice-concierge/internal/service/language"
)

// Stage names recorded in the pipeline timing.
const (
	StageRecognition    = "Speech Recognition"
	StageTranslation    = "Translation"
	StageIntent         = "Intent Detection"
	StageScene          = "Scene Control"
	StageDevice         = "Device Control"
	StageNoDevice       = "No Device Control"
	StageSynthesis      = "Text-to-Speech"
	StageSynthesisError = "Text-to-Speech (Error)"
)

type Dependencies struct {
	Recognizer  ports.RecognitionProvider
	Languages   ports.LanguageResolver
	Translator  ports.TextTranslator
	Intents     ports.IntentProvider
	Devices     ports.DeviceOperator
	Scenes      ports.SceneService
	Synthesizer ports.SynthesisProvider
	// History is optional.
	History ports.CommandRepository
}

type Options struct {
	AlternativeLanguages []string
	StageTimeout         time.Duration
	DefaultRoom          string
}

// Input is one guest command, spoken (Audio) or typed (Text).
type Input struct {
	Audio     []byte
	Text      string
	IsText    bool
	SessionID string
	RoomID    string
	Preferred domain.Language
}

// VoiceAssistant runs recognition, translation, intent detection, dispatch
// and synthesis strictly in sequence for each command.
type VoiceAssistant struct {
	deps   Dependencies
	opts   Options
	tracer trace.Tracer
	log    *zap.Logger
}

func NewVoiceAssistant(deps Dependencies, opts Options, log *zap.Logger) *VoiceAssistant {
	if opts.StageTimeout <= 0 {
		opts.StageTimeout = 15 * time.Second
	}
	if opts.DefaultRoom == "" {
		opts.DefaultRoom = "101"
	}
	return &VoiceAssistant{
		deps:   deps,
		opts:   opts,
		tracer: telemetry.Tracer(),
		log:    log,
	}
}

// Process handles a spoken command.
func (va *VoiceAssistant) Process(ctx context.Context, audio []byte, sessionID string, preferred domain.Language) (*domain.PipelineResult, error) {
	return va.Run(ctx, Input{Audio: audio, SessionID: sessionID, Preferred: preferred})
}

// ProcessText handles a typed command; recognition is skipped.
func (va *VoiceAssistant) ProcessText(ctx context.Context, text, sessionID string, preferred domain.Language) (*domain.PipelineResult, error) {
	return va.Run(ctx, Input{Text: text, IsText: true, SessionID: sessionID, Preferred: preferred})
}

type pipelineRun struct {
	start time.Time
	steps []domain.StageTiming
}

// Run executes the pipeline. The only returned error is a synthesis failure;
// every other failure is reported in the result.
func (va *VoiceAssistant) Run(ctx context.Context, in Input) (*domain.PipelineResult, error) {
	if in.SessionID == "" {
		in.SessionID = uuid.New().String()
	}
	if in.RoomID == "" {
		in.RoomID = va.opts.DefaultRoom
	}

	ctx, span := va.tracer.Start(ctx, "voice.pipeline", trace.WithAttributes(
		attribute.String("session.id", in.SessionID),
		attribute.String("room.id", in.RoomID),
	))
	defer span.End()

	log := va.log.With(zap.String("session_id", in.SessionID), zap.String("room_id", in.RoomID))
	run := &pipelineRun{start: time.Now()}
	result := &domain.PipelineResult{SessionID: in.SessionID}

	hint := ""
	if in.Preferred.Supported() {
		hint = in.Preferred.Locale()
	}

	transcript := domain.Transcript{Text: in.Text, LanguageHint: hint}
	if !in.IsText {
		va.stage(ctx, run, StageRecognition, func(ctx context.Context) error {
			t, err := va.deps.Recognizer.Recognize(ctx, in.Audio, hint, va.opts.AlternativeLanguages)
			if err != nil {
				log.Warn("Speech recognition failed, treating as no speech", zap.Error(err))
				return err
			}
			transcript = t
			return nil
		})
	}
	result.Transcript = strings.TrimSpace(transcript.Text)
	result.DetectedLanguage = transcript.LanguageHint
	result.Language = va.deps.Languages.Resolve(result.Transcript, transcript.LanguageHint)

	if result.Transcript != "" {
		va.stage(ctx, run, StageTranslation, func(ctx context.Context) error {
			result.TranslatedText = va.deps.Translator.ToWorkingLanguage(ctx, result.Transcript, result.Language)
			return nil
		})
	}

	if strings.TrimSpace(result.TranslatedText) == "" {
		log.Info("No usable transcript, replying with error")
		result.ReplyText = language.Localize(language.Error, domain.WorkingLanguage, nil)
		if err := va.synthesize(ctx, run, StageSynthesisError, result); err != nil {
			return va.fail(ctx, log, run, result, in, err)
		}
		return va.finish(ctx, log, run, result, in, "no_transcript"), nil
	}

	var detected domain.Intent
	intentErr := va.stage(ctx, run, StageIntent, func(ctx context.Context) error {
		var err error
		detected, err = va.deps.Intents.DetectIntent(ctx, in.SessionID, result.TranslatedText, string(domain.WorkingLanguage))
		return err
	})

	var outcome string
	if intentErr != nil {
		log.Warn("Intent detection failed", zap.Error(intentErr))
		outcome = "intent_failed"
		result.ReplyText = language.Localize(language.Error, domain.WorkingLanguage, nil)
	} else {
		if detected.Name != "" {
			name := detected.Name
			result.Intent = &name
		}
		outcome = va.dispatch(ctx, log, run, in.RoomID, detected, result)
	}

	if err := va.synthesize(ctx, run, StageSynthesis, result); err != nil {
		return va.fail(ctx, log, run, result, in, err)
	}
	return va.finish(ctx, log, run, result, in, outcome), nil
}

// dispatch acts on the intent and sets the reply text. It returns the outcome label.
func (va *VoiceAssistant) dispatch(ctx context.Context, log *zap.Logger, run *pipelineRun, roomID string, detected domain.Intent, result *domain.PipelineResult) string {
	en := domain.WorkingLanguage
	outcome := "ok"

	switch action := intent.Dispatch(detected, result.TranslatedText).(type) {
	case intent.SceneAction:
		va.stage(ctx, run, StageScene, func(ctx context.Context) error {
			sc, ok := va.deps.Scenes.FindByVoiceCommand(action.Command)
			if !ok {
				log.Info("No scene matches command", zap.String("command", action.Command))
				outcome = "scene_not_found"
				result.ReplyText = language.Localize(language.SceneNotFound, en, nil)
				return nil
			}
			sceneResult := va.deps.Scenes.ExecuteScene(ctx, sc.ID, roomID)
			result.DeviceResult = sceneResult
			vars := map[string]string{"scene": sc.Name}
			if sceneResult.Success {
				result.ReplyText = language.Localize(language.SceneActivateSuccess, en, vars)
				return nil
			}
			outcome = "scene_failed"
			result.ReplyText = language.Localize(language.SceneActivateFailed, en, vars)
			return fmt.Errorf("scene %s: %s", sc.ID, sceneResult.Message)
		})

	case intent.DeviceAction:
		va.stage(ctx, run, StageDevice, func(ctx context.Context) error {
			cfg, ok := intent.ResolveDevice(action)
			if !ok {
				log.Info("No device mapping",
					zap.String("location", action.Location),
					zap.String("device", action.Device),
					zap.String("operation", action.Operation),
				)
				outcome = "device_not_found"
				result.ReplyText = language.Localize(language.DeviceNotFound, en, nil)
				return nil
			}

			deviceName := language.LocalizedDevice(string(cfg.Family), en)
			res, err := va.deps.Devices.Operate(ctx, cfg.Path, cfg.Value)
			if err != nil {
				outcome = "device_failed"
				result.ReplyText = language.Localize(language.DeviceControlFailed, en, map[string]string{"device": deviceName})
				return err
			}
			if res != nil {
				result.DeviceResult = res
			}
			result.ReplyText = deviceReply(cfg.Family, action, deviceName)
			return nil
		})

	default:
		now := time.Now()
		run.steps = append(run.steps, domain.StageTiming{StepName: StageNoDevice, StartTime: now, EndTime: now})
		outcome = "no_action"
		result.ReplyText = language.Localize(language.ActionCompleted, en, nil)
	}
	return outcome
}

func deviceReply(family intent.Family, action intent.DeviceAction, deviceName string) string {
	en := domain.WorkingLanguage
	if family == intent.FamilyLight {
		vars := map[string]string{"location": language.LocalizedLocation(action.Location, en)}
		switch action.Operation {
		case "on":
			return language.Localize(language.LightOn, en, vars)
		case "off":
			return language.Localize(language.LightOff, en, vars)
		}
	}
	return language.Localize(language.DeviceControlSuccess, en, map[string]string{"device": deviceName})
}

func (va *VoiceAssistant) synthesize(ctx context.Context, run *pipelineRun, name string, result *domain.PipelineResult) error {
	return va.stage(ctx, run, name, func(ctx context.Context) error {
		audio, err := va.deps.Synthesizer.Synthesize(ctx, result.ReplyText, domain.WorkingLanguage.Locale())
		if err != nil {
			return err
		}
		result.Audio = audio
		return nil
	})
}

// stage runs fn under the stage timeout and always records its timing.
func (va *VoiceAssistant) stage(ctx context.Context, run *pipelineRun, name string, fn func(ctx context.Context) error) error {
	ctx, span := va.tracer.Start(ctx, name)
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, va.opts.StageTimeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	end := time.Now()

	run.steps = append(run.steps, domain.StageTiming{
		StepName:   name,
		Duration:   end.Sub(start),
		DurationMS: end.Sub(start).Milliseconds(),
		StartTime:  start,
		EndTime:    end,
	})
	telemetry.PipelineStageLatency.WithLabelValues(name).Observe(end.Sub(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	va.log.Debug("Pipeline stage completed",
		zap.String("stage", name),
		zap.Duration("duration", end.Sub(start)),
		zap.Error(err),
	)
	return err
}

func (va *VoiceAssistant) fail(ctx context.Context, log *zap.Logger, run *pipelineRun, result *domain.PipelineResult, in Input, err error) (*domain.PipelineResult, error) {
	log.Error("Speech synthesis failed", zap.Error(err))
	va.finish(ctx, log, run, result, in, "synthesis_failed")
	trace.SpanFromContext(ctx).SetStatus(codes.Error, "synthesis failed")
	return nil, fmt.Errorf("%w: %w", domain.ErrSynthesisFailed, err)
}

func (va *VoiceAssistant) finish(ctx context.Context, log *zap.Logger, run *pipelineRun, result *domain.PipelineResult, in Input, outcome string) *domain.PipelineResult {
	end := time.Now()
	result.Timing = domain.PipelineRun{
		Steps:           run.steps,
		TotalDuration:   end.Sub(run.start),
		TotalDurationMS: end.Sub(run.start).Milliseconds(),
		StartTime:       run.start,
		EndTime:         end,
	}

	intentLabel := "none"
	if result.Intent != nil {
		intentLabel = *result.Intent
	}
	telemetry.VoiceCommandsTotal.WithLabelValues(intentLabel, outcome).Inc()

	fields := []zap.Field{
		zap.String("intent", intentLabel),
		zap.String("outcome", outcome),
		zap.String("language", string(result.Language)),
		zap.Duration("total", result.Timing.TotalDuration),
	}
	for _, s := range run.steps {
		fields = append(fields, zap.Duration(s.StepName, s.Duration))
	}
	log.Info("Voice command processed", fields...)

	va.record(ctx, log, result, in, intentLabel, outcome)
	return result
}

func (va *VoiceAssistant) record(ctx context.Context, log *zap.Logger, result *domain.PipelineResult, in Input, intentLabel, outcome string) {
	if va.deps.History == nil {
		return
	}
	if intentLabel == "none" {
		intentLabel = ""
	}
	rec := &domain.CommandRecord{
		SessionID:       result.SessionID,
		RoomID:          in.RoomID,
		Transcript:      result.Transcript,
		TranslatedText:  result.TranslatedText,
		Language:        string(result.Language),
		Intent:          intentLabel,
		ReplyText:       result.ReplyText,
		Success:         outcome == "ok" || outcome == "no_action",
		TotalDurationMS: result.Timing.TotalDurationMS,
		CreatedAt:       result.Timing.EndTime,
	}
	// a cancelled request still gets its history row
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := va.deps.History.Save(saveCtx, rec); err != nil {
		log.Warn("Failed to record command history", zap.Error(err))
	}
}
