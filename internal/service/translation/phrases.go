package translation

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/seu-repo/voice-concierge/internal/domain"
)

// phraseTable is an offline source-to-English lookup.
type phraseTable struct {
	exact map[string]string
	// keys sorted by length, longest first
	keys []string
}

func newPhraseTable(entries map[string]string) phraseTable {
	t := phraseTable{exact: make(map[string]string, len(entries))}
	for k, v := range entries {
		key := normalizePhrase(k)
		t.exact[key] = v
		t.keys = append(t.keys, key)
	}
	sort.Slice(t.keys, func(i, j int) bool {
		if len(t.keys[i]) != len(t.keys[j]) {
			return len(t.keys[i]) > len(t.keys[j])
		}
		return t.keys[i] < t.keys[j]
	})
	return t
}

func (t phraseTable) lookup(text string) (string, bool) {
	n := normalizePhrase(text)
	if v, ok := t.exact[n]; ok {
		return v, true
	}
	for _, k := range t.keys {
		if strings.Contains(n, k) {
			return t.exact[k], true
		}
	}
	return "", false
}

func normalizePhrase(s string) string {
	s = strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
	return strings.TrimRight(s, "。.!！?？")
}

var defaultPhrases = map[domain.Language]map[string]string{
	domain.LanguageChinese: {
		"开灯":     "turn on the light",
		"关灯":     "turn off the light",
		"打开房间的灯": "turn on the room light",
		"关闭房间的灯": "turn off the room light",
		"打开浴室的灯": "turn on the bathroom light",
		"关闭浴室的灯": "turn off the bathroom light",
		"打开空调":   "turn on the air conditioner",
		"关闭空调":   "turn off the air conditioner",
		"空调制冷":   "set the air conditioner to cool",
		"空调制热":   "set the air conditioner to heat",
		"打开窗帘":   "open the curtains",
		"关闭窗帘":   "close the curtains",
		"睡眠模式":   "sleep mode",
		"放松模式":   "relax mode",
		"唤醒模式":   "wake-up mode",
		"工作模式":   "work mode",
		"欢迎模式":   "welcome mode",
		"离开模式":   "away mode",
	},
	domain.LanguageVietnamese: {
		"bật đèn":           "turn on the light",
		"tắt đèn":           "turn off the light",
		"bật đèn phòng tắm": "turn on the bathroom light",
		"tắt đèn phòng tắm": "turn off the bathroom light",
		"bật máy lạnh":      "turn on the air conditioner",
		"tắt máy lạnh":      "turn off the air conditioner",
		"mở rèm":            "open the curtains",
		"đóng rèm":          "close the curtains",
		"chế độ ngủ":        "sleep mode",
		"chế độ thư giãn":   "relax mode",
		"chế độ làm việc":   "work mode",
	},
	domain.LanguageItalian: {
		"accendi la luce":           "turn on the light",
		"spegni la luce":            "turn off the light",
		"accendi la luce del bagno": "turn on the bathroom light",
		"spegni la luce del bagno":  "turn off the bathroom light",
		"accendi il condizionatore": "turn on the air conditioner",
		"spegni il condizionatore":  "turn off the air conditioner",
		"apri le tende":             "open the curtains",
		"chiudi le tende":           "close the curtains",
		"modalità notte":            "sleep mode",
		"modalità relax":            "relax mode",
		"modalità lavoro":           "work mode",
	},
}
