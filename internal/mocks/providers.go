package mocks

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/seu-repo/voice-concierge/internal/domain"
)

type MockRecognizer struct {
	RecognizeFunc func(ctx context.Context, audio []byte, hint string, alternatives []string) (domain.Transcript, error)
}

func (m *MockRecognizer) Recognize(ctx context.Context, audio []byte, hint string, alternatives []string) (domain.Transcript, error) {
	if m.RecognizeFunc != nil {
		return m.RecognizeFunc(ctx, audio, hint, alternatives)
	}
	return domain.Transcript{}, nil
}

// MockTranslator counts calls so tests can assert the provider was skipped.
type MockTranslator struct {
	mu            sync.Mutex
	Calls         int
	TranslateFunc func(ctx context.Context, text, source, target string) (string, error)
}

func (m *MockTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.TranslateFunc != nil {
		return m.TranslateFunc(ctx, text, source, target)
	}
	return text, nil
}

func (m *MockTranslator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

type MockSynthesizer struct {
	SynthesizeFunc func(ctx context.Context, text, languageCode string) ([]byte, error)
	LastText       string
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, text, languageCode string) ([]byte, error) {
	m.LastText = text
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text, languageCode)
	}
	return []byte("mp3"), nil
}

type MockIntentProvider struct {
	DetectIntentFunc func(ctx context.Context, sessionID, text, languageCode string) (domain.Intent, error)
	LastText         string
}

func (m *MockIntentProvider) DetectIntent(ctx context.Context, sessionID, text, languageCode string) (domain.Intent, error) {
	m.LastText = text
	if m.DetectIntentFunc != nil {
		return m.DetectIntentFunc(ctx, sessionID, text, languageCode)
	}
	return domain.Intent{}, nil
}

// OperateCall records one DeviceOperator invocation.
type OperateCall struct {
	Path  string
	Value interface{}
}

type MockDeviceOperator struct {
	mu          sync.Mutex
	Calls       []OperateCall
	OperateFunc func(ctx context.Context, path string, value interface{}) (json.RawMessage, error)
	ListFunc    func(ctx context.Context, roomID string) (json.RawMessage, error)
}

func (m *MockDeviceOperator) Operate(ctx context.Context, path string, value interface{}) (json.RawMessage, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, OperateCall{Path: path, Value: value})
	m.mu.Unlock()
	if m.OperateFunc != nil {
		return m.OperateFunc(ctx, path, value)
	}
	return json.RawMessage(`{"ok":true}`), nil
}

func (m *MockDeviceOperator) ListDevices(ctx context.Context, roomID string) (json.RawMessage, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, roomID)
	}
	return json.RawMessage(`{"devices":[]}`), nil
}

func (m *MockDeviceOperator) CallList() []OperateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]OperateCall(nil), m.Calls...)
}

type MockGateway struct {
	ControlFunc func(ctx context.Context, path string, body interface{}) (json.RawMessage, error)
	QueryFunc   func(ctx context.Context, roomID string) (json.RawMessage, error)
}

func (m *MockGateway) ControlDevice(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	if m.ControlFunc != nil {
		return m.ControlFunc(ctx, path, body)
	}
	return json.RawMessage(`{"ok":true}`), nil
}

func (m *MockGateway) QueryDevices(ctx context.Context, roomID string) (json.RawMessage, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, roomID)
	}
	return json.RawMessage(`{}`), nil
}
