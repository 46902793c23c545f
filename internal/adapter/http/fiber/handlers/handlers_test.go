package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/voice-concierge/internal/domain"
	"github.com/seu-repo/voice-concierge/internal/mocks"
	"github.com/seu-repo/voice-concierge/internal/service/scene"
	"github.com/seu-repo/voice-concierge/internal/service/voice"
)

type fakePipeline struct {
	last voice.Input
	err  error
}

func (p *fakePipeline) Run(ctx context.Context, in voice.Input) (*domain.PipelineResult, error) {
	p.last = in
	if p.err != nil {
		return nil, p.err
	}
	return &domain.PipelineResult{SessionID: "sess", ReplyText: "Action completed"}, nil
}

func newTestApp() (*fiber.App, *fakePipeline, *mocks.MockDeviceOperator, *mocks.MockCommandRepository, *mocks.MockSynthesizer) {
	log := zap.NewNop()
	pipeline := &fakePipeline{}
	devices := &mocks.MockDeviceOperator{}
	history := &mocks.MockCommandRepository{}
	synth := &mocks.MockSynthesizer{}
	scenes := scene.NewService(scene.PredefinedScenes(), devices, nil, scene.Options{}, log)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(log)})
	v1 := app.Group("/api/v1")

	vh := NewVoiceHandler(pipeline, history, log)
	v1.Post("/voice/command", vh.ProcessCommand)
	v1.Post("/voice/text", vh.ProcessText)
	v1.Get("/voice/history", vh.GetHistory)

	sh := NewSceneHandler(scenes, log)
	v1.Get("/scenes", sh.List)
	v1.Post("/scenes/:id/execute", sh.Execute)

	dh := NewDeviceHandler(devices, nil, log)
	v1.Get("/rooms/:room/devices", dh.List)
	v1.Post("/rooms/:room/devices/control", dh.Control)
	v1.Get("/rooms/:room/devices/:device/status", dh.Status)

	v1.Post("/speak", NewSpeakHandler(synth, log).Speak)
	return app, pipeline, devices, history, synth
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

func TestVoiceCommand(t *testing.T) {
	app, pipeline, _, _, _ := newTestApp()

	status, body := doJSON(t, app, "POST", "/api/v1/voice/command", fiber.Map{
		"audio":      "cGNt", // "pcm"
		"session_id": "abc",
		"language":   "zh-CN",
	})

	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if string(pipeline.last.Audio) != "pcm" || pipeline.last.SessionID != "abc" {
		t.Errorf("unexpected pipeline input %+v", pipeline.last)
	}
	if pipeline.last.Preferred != domain.LanguageChinese {
		t.Errorf("expected zh preference, got %q", pipeline.last.Preferred)
	}
	var result domain.PipelineResult
	json.Unmarshal(body, &result)
	if result.ReplyText != "Action completed" {
		t.Errorf("unexpected result %s", body)
	}
}

func TestVoiceCommand_BadInput(t *testing.T) {
	app, _, _, _, _ := newTestApp()

	if status, _ := doJSON(t, app, "POST", "/api/v1/voice/command", fiber.Map{"audio": "%%%"}); status != fiber.StatusBadRequest {
		t.Errorf("expected 400 for invalid base64, got %d", status)
	}
	if status, _ := doJSON(t, app, "POST", "/api/v1/voice/command", fiber.Map{}); status != fiber.StatusBadRequest {
		t.Errorf("expected 400 for missing audio, got %d", status)
	}
}

func TestVoiceCommand_SynthesisFailure(t *testing.T) {
	app, pipeline, _, _, _ := newTestApp()
	pipeline.err = fmt.Errorf("%w: quota", domain.ErrSynthesisFailed)

	status, _ := doJSON(t, app, "POST", "/api/v1/voice/command", fiber.Map{"audio": "cGNt"})
	if status != fiber.StatusBadGateway {
		t.Errorf("expected 502, got %d", status)
	}
}

func TestVoiceText(t *testing.T) {
	app, pipeline, _, _, _ := newTestApp()

	status, _ := doJSON(t, app, "POST", "/api/v1/voice/text", fiber.Map{"text": "turn off the light", "room": "305"})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !pipeline.last.IsText || pipeline.last.Text != "turn off the light" || pipeline.last.RoomID != "305" {
		t.Errorf("unexpected pipeline input %+v", pipeline.last)
	}

	if status, _ := doJSON(t, app, "POST", "/api/v1/voice/text", fiber.Map{"text": "  "}); status != fiber.StatusBadRequest {
		t.Errorf("expected 400 for blank text, got %d", status)
	}
}

func TestVoiceHistory(t *testing.T) {
	app, _, _, history, _ := newTestApp()
	ctx := context.Background()
	history.Save(ctx, &domain.CommandRecord{SessionID: "a", Intent: "ControlLight"})
	history.Save(ctx, &domain.CommandRecord{SessionID: "b", Intent: "ControlScene"})
	history.Save(ctx, &domain.CommandRecord{SessionID: "a", Intent: "ControlCurtain"})

	status, body := doJSON(t, app, "GET", "/api/v1/voice/history?session_id=a", nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var records []domain.CommandRecord
	json.Unmarshal(body, &records)
	if len(records) != 2 || records[0].Intent != "ControlCurtain" {
		t.Errorf("expected newest-first session history, got %+v", records)
	}
}

func TestScenes_ListAndExecute(t *testing.T) {
	app, _, devices, _, _ := newTestApp()

	status, body := doJSON(t, app, "GET", "/api/v1/scenes", nil)
	var scenes []domain.Scene
	json.Unmarshal(body, &scenes)
	if status != fiber.StatusOK || len(scenes) != len(scene.PredefinedScenes()) {
		t.Fatalf("unexpected scene list %d: %s", status, body)
	}

	status, body = doJSON(t, app, "POST", "/api/v1/scenes/sleep/execute", fiber.Map{"room": "204"})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if len(devices.CallList()) != 2 {
		t.Errorf("expected two device calls, got %d", len(devices.CallList()))
	}

	if status, _ := doJSON(t, app, "POST", "/api/v1/scenes/disco/execute", nil); status != fiber.StatusNotFound {
		t.Errorf("expected 404 for unknown scene, got %d", status)
	}
}

func TestScenes_PartialFailure(t *testing.T) {
	app, _, devices, _, _ := newTestApp()
	devices.OperateFunc = func(ctx context.Context, path string, value interface{}) (json.RawMessage, error) {
		return nil, errors.New("gateway down")
	}

	status, _ := doJSON(t, app, "POST", "/api/v1/scenes/relax/execute", nil)
	if status != fiber.StatusMultiStatus {
		t.Errorf("expected 207, got %d", status)
	}
}

func TestDeviceRoutes(t *testing.T) {
	app, _, devices, _, _ := newTestApp()

	status, body := doJSON(t, app, "GET", "/api/v1/rooms/101/devices", nil)
	if status != fiber.StatusOK || string(body) != `{"devices":[]}` {
		t.Errorf("unexpected listing %d: %s", status, body)
	}

	status, _ = doJSON(t, app, "POST", "/api/v1/rooms/101/devices/control", fiber.Map{"path": "/simulated/control/desk_light/onoff", "value": true})
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	calls := devices.CallList()
	if len(calls) != 1 || calls[0].Path != "/simulated/control/desk_light/onoff" {
		t.Errorf("unexpected calls %+v", calls)
	}

	if status, _ := doJSON(t, app, "POST", "/api/v1/rooms/101/devices/control", fiber.Map{"value": true}); status != fiber.StatusBadRequest {
		t.Errorf("expected 400 without path, got %d", status)
	}
	if status, _ := doJSON(t, app, "GET", "/api/v1/rooms/101/devices/desk_light/status", nil); status != fiber.StatusNotImplemented {
		t.Errorf("expected 501 without status channel, got %d", status)
	}
}

func TestDeviceControl_GatewayError(t *testing.T) {
	app, _, devices, _, _ := newTestApp()
	devices.OperateFunc = func(ctx context.Context, path string, value interface{}) (json.RawMessage, error) {
		return nil, errors.New("timeout")
	}

	status, _ := doJSON(t, app, "POST", "/api/v1/rooms/101/devices/control", fiber.Map{"path": "x", "value": 1})
	if status != fiber.StatusBadGateway {
		t.Errorf("expected 502, got %d", status)
	}
}

func TestSpeak(t *testing.T) {
	app, _, _, _, synth := newTestApp()

	req := httptest.NewRequest("POST", "/api/v1/speak", bytes.NewReader([]byte(`{"text":"Benvenuto","language":"it"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK || resp.Header.Get("Content-Type") != "audio/mpeg" {
		t.Errorf("unexpected response %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if synth.LastText != "Benvenuto" {
		t.Errorf("unexpected synthesized text %q", synth.LastText)
	}
}
