package google

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/domain"
)

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, body map[string]interface{})) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		handler(w, r, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRecognizer_Recognize(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request, body map[string]interface{}) {
		if r.URL.Query().Get("key") != "k" {
			t.Errorf("expected api key, got %q", r.URL.RawQuery)
		}
		cfg := body["config"].(map[string]interface{})
		if cfg["languageCode"] != "en-US" {
			t.Errorf("unexpected primary language %v", cfg["languageCode"])
		}
		if alts := cfg["alternativeLanguageCodes"].([]interface{}); len(alts) != 2 {
			t.Errorf("expected primary language removed from alternatives, got %v", alts)
		}
		audio := body["audio"].(map[string]interface{})["content"].(string)
		if raw, _ := base64.StdEncoding.DecodeString(audio); string(raw) != "pcm" {
			t.Errorf("unexpected audio payload %q", raw)
		}
		w.Write([]byte(`{"results":[
			{"alternatives":[{"transcript":"打开","confidence":0.9}],"languageCode":"cmn-hans-cn"},
			{"alternatives":[]},
			{"alternatives":[{"transcript":"灯"}],"languageCode":"cmn-hans-cn"}
		]}`))
	})

	rec := NewRecognizer(Config{APIKey: "k", SpeechURL: srv.URL}, zap.NewNop())
	tr, err := rec.Recognize(context.Background(), []byte("pcm"), "", []string{"en-US", "zh-CN", "it-IT"})
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if tr.Text != "打开 灯" || tr.LanguageHint != "cmn-hans-cn" {
		t.Errorf("unexpected transcript %+v", tr)
	}
}

func TestRecognizer_NoSpeech(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request, body map[string]interface{}) {
		w.Write([]byte(`{}`))
	})
	rec := NewRecognizer(Config{SpeechURL: srv.URL}, zap.NewNop())

	tr, err := rec.Recognize(context.Background(), nil, "zh-CN", nil)
	if err != nil || tr.Text != "" {
		t.Errorf("expected empty transcript, got %+v (%v)", tr, err)
	}
}

func TestTranslator_Translate(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request, body map[string]interface{}) {
		if body["source"] != "it" || body["target"] != "en" || body["format"] != "text" {
			t.Errorf("unexpected request %v", body)
		}
		w.Write([]byte(`{"data":{"translations":[{"translatedText":"where is the pool"}]}}`))
	})
	tr := NewTranslator(Config{TranslateURL: srv.URL}, zap.NewNop())

	got, err := tr.Translate(context.Background(), "dov'è la piscina", "it", "en")
	if err != nil || got != "where is the pool" {
		t.Errorf("unexpected translation '%s' (%v)", got, err)
	}
}

func TestTranslator_ContractViolation(t *testing.T) {
	for _, payload := range []string{`{}`, `{"data":{}}`, `{"data":{"translations":[{}]}}`} {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request, body map[string]interface{}) {
			w.Write([]byte(payload))
		})
		tr := NewTranslator(Config{TranslateURL: srv.URL}, zap.NewNop())

		_, err := tr.Translate(context.Background(), "x", "zh", "en")
		var ce *domain.ContractError
		if !errors.As(err, &ce) || !errors.Is(err, domain.ErrProviderContract) {
			t.Errorf("payload %s: expected contract error, got %v", payload, err)
		}
	}
}

func TestTranslator_StatusError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request, body map[string]interface{}) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"quota"}`))
	})
	tr := NewTranslator(Config{TranslateURL: srv.URL}, zap.NewNop())

	_, err := tr.Translate(context.Background(), "x", "zh", "en")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 APIError, got %v", err)
	}
}

func TestSynthesizer_Synthesize(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request, body map[string]interface{}) {
		voice := body["voice"].(map[string]interface{})
		if voice["languageCode"] != "en-US" {
			t.Errorf("unexpected voice %v", voice)
		}
		json.NewEncoder(w).Encode(map[string]string{"audioContent": base64.StdEncoding.EncodeToString([]byte("mp3"))})
	})
	s := NewSynthesizer(Config{TTSURL: srv.URL}, zap.NewNop())

	audio, err := s.Synthesize(context.Background(), "Action completed", "en-US")
	if err != nil || string(audio) != "mp3" {
		t.Errorf("unexpected audio %q (%v)", audio, err)
	}
}

func TestSynthesizer_ServerError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request, body map[string]interface{}) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	s := NewSynthesizer(Config{TTSURL: srv.URL}, zap.NewNop())

	if _, err := s.Synthesize(context.Background(), "hi", "en-US"); err == nil || !strings.Contains(err.Error(), "503") {
		t.Errorf("expected 503 error, got %v", err)
	}
}

func TestIntentDetector_DetectIntent(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request, body map[string]interface{}) {
		if r.URL.Path != "/projects/hotel-agent/agent/sessions/sess-1:detectIntent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer df-token" {
			t.Errorf("missing bearer token")
		}
		text := body["queryInput"].(map[string]interface{})["text"].(map[string]interface{})
		if text["languageCode"] != "en" {
			t.Errorf("unexpected language %v", text["languageCode"])
		}
		w.Write([]byte(`{"queryResult":{"intent":{"displayName":"ControlLight"},
			"parameters":{"location":"bathroom","device":"light","operation":"on"}}}`))
	})
	d := NewIntentDetector(Config{DialogflowURL: srv.URL, ProjectID: "hotel-agent", DialogflowToken: "df-token"}, zap.NewNop())

	in, err := d.DetectIntent(context.Background(), "sess-1", "turn on the bathroom light", "en")
	if err != nil {
		t.Fatalf("DetectIntent failed: %v", err)
	}
	if in.Name != "ControlLight" || in.StringParam("location") != "bathroom" {
		t.Errorf("unexpected intent %+v", in)
	}
}

func TestIntentDetector_MissingQueryResult(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request, body map[string]interface{}) {
		w.Write([]byte(`{"responseId":"x"}`))
	})
	d := NewIntentDetector(Config{DialogflowURL: srv.URL, ProjectID: "p"}, zap.NewNop())

	if _, err := d.DetectIntent(context.Background(), "s", "hello", "en"); !errors.Is(err, domain.ErrProviderContract) {
		t.Errorf("expected contract error, got %v", err)
	}
}

func TestWithKey_EncodesKey(t *testing.T) {
	cases := []struct {
		endpoint string
		key      string
		want     string
	}{
		{"https://x/v2", "", "https://x/v2"},
		{"https://x/v2", "abc", "https://x/v2?key=abc"},
		{"https://x/v2", "a+b&c=d", "https://x/v2?key=a%2Bb%26c%3Dd"},
		{"https://x/v2?alt=json", "abc", "https://x/v2?alt=json&key=abc"},
	}
	for _, tc := range cases {
		if got := withKey(tc.endpoint, tc.key); got != tc.want {
			t.Errorf("withKey(%q, %q) = %q, want %q", tc.endpoint, tc.key, got, tc.want)
		}
	}
}
