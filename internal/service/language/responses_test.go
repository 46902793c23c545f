package language

import (
	"testing"

	"github.com/seu-repo/voice-concierge/internal/domain"
)

func TestLocalize(t *testing.T) {
	got := Localize(LightOn, domain.LanguageEnglish, map[string]string{"location": "bathroom"})
	if got != "The bathroom light is now on." {
		t.Errorf("unexpected reply '%s'", got)
	}

	got = Localize(SceneActivateSuccess, domain.LanguageChinese, map[string]string{"scene": "睡眠模式"})
	if got != "睡眠模式已打开。" {
		t.Errorf("unexpected reply '%s'", got)
	}

	if got := Localize(Error, domain.Language("fr"), nil); got != "Sorry, I encountered an error" {
		t.Errorf("expected english fallback, got '%s'", got)
	}
}

func TestLocalizedNames(t *testing.T) {
	if got := LocalizedLocation("Bathroom", domain.LanguageItalian); got != "bagno" {
		t.Errorf("expected 'bagno', got '%s'", got)
	}
	if got := LocalizedLocation("garage", domain.LanguageItalian); got != "garage" {
		t.Errorf("expected passthrough, got '%s'", got)
	}
	if got := LocalizedDevice("air conditioner", domain.LanguageChinese); got != "空调" {
		t.Errorf("expected '空调', got '%s'", got)
	}
}
