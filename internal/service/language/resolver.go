package language

import (
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/seu-repo/voice-concierge/internal/domain"
	"github.com/seu-repo/voice-concierge/internal/ports"
)

const minKeywordHits = 2

type keywordList struct {
	lang  domain.Language
	words []string
}

// Checked in order; ties go to the earlier list.
var foreignKeywords = []keywordList{
	{
		lang: domain.LanguageVietnamese,
		words: []string{
			"bật", "tắt", "đèn", "phòng", "mở", "đóng", "rèm", "máy lạnh", "điều hòa",
			"chế độ", "ngủ", "tôi", "giúp", "xin", "cho", "thư giãn",
		},
	},
	{
		lang: domain.LanguageItalian,
		words: []string{
			"accendi", "spegni", "luce", "luci", "camera", "bagno", "apri", "chiudi",
			"tende", "condizionatore", "per favore", "modalità", "della", "del", "il",
		},
	},
}

var englishKeywords = []string{
	"turn", "on", "off", "the", "light", "lights", "open", "close", "please",
	"room", "mode", "curtain", "curtains", "air", "conditioner", "set", "bathroom",
}

// Resolver picks the working language of a transcript. Content wins over the
// provider hint because hints are unreliable for short commands.
type Resolver struct {
	log *zap.Logger
}

func NewResolver(log *zap.Logger) *Resolver {
	return &Resolver{log: log}
}

var _ ports.LanguageResolver = (*Resolver)(nil)

func (r *Resolver) Resolve(text, providerHint string) domain.Language {
	lang, rule := resolve(text, providerHint)
	r.log.Debug("Language resolved",
		zap.String("language", string(lang)),
		zap.String("rule", rule),
		zap.String("hint", providerHint),
	)
	return lang
}

func resolve(text, hint string) (domain.Language, string) {
	if strings.TrimSpace(text) == "" {
		return domain.LanguageEnglish, "blank"
	}

	if lang, ok := scriptLanguage(text); ok {
		return lang, "script"
	}

	normalized := normalize(text)
	best, bestHits := domain.Language(""), 0
	for _, kl := range foreignKeywords {
		if hits := countHits(normalized, kl.words); hits >= minKeywordHits && hits > bestHits {
			best, bestHits = kl.lang, hits
		}
	}
	if best != "" {
		return best, "keywords"
	}
	if countHits(normalized, englishKeywords) >= minKeywordHits {
		return domain.LanguageEnglish, "keywords"
	}

	if lang, ok := FromCode(hint); ok {
		return lang, "hint"
	}
	return domain.LanguageEnglish, "default"
}

// scriptLanguage detects letters that only one supported language uses.
func scriptLanguage(text string) (domain.Language, bool) {
	vietnamese := false
	for _, r := range norm.NFD.String(text) {
		switch {
		case unicode.Is(unicode.Han, r):
			return domain.LanguageChinese, true
		case r == 'đ' || r == 'Đ':
			vietnamese = true
		case r == '\u031B': // combining horn: ơ ư
			vietnamese = true
		case r == '\u0306': // combining breve: ă
			vietnamese = true
		}
	}
	if vietnamese {
		return domain.LanguageVietnamese, true
	}
	return "", false
}

// normalize returns NFC lower-cased words joined by single spaces and padded,
// so " kw " matches whole words and phrases.
func normalize(text string) string {
	lowered := strings.ToLower(norm.NFC.String(text))
	words := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsMark(r) && !unicode.IsDigit(r)
	})
	return " " + strings.Join(words, " ") + " "
}

func countHits(normalized string, words []string) int {
	hits := 0
	for _, w := range words {
		if strings.Contains(normalized, " "+w+" ") {
			hits++
		}
	}
	return hits
}

// FromCode maps a provider language code onto the supported set.
func FromCode(code string) (domain.Language, bool) {
	c := strings.ToLower(strings.TrimSpace(code))
	if c == "" {
		return "", false
	}
	base := c
	if i := strings.IndexAny(c, "-_"); i >= 0 {
		base = c[:i]
	}
	switch base {
	case "zh", "cmn", "yue":
		return domain.LanguageChinese, true
	case "vi":
		return domain.LanguageVietnamese, true
	case "it":
		return domain.LanguageItalian, true
	case "en":
		return domain.LanguageEnglish, true
	}
	return "", false
}
