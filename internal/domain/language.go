package domain

type Language string

const (
	LanguageEnglish    Language = "en"
	LanguageChinese    Language = "zh"
	LanguageVietnamese Language = "vi"
	LanguageItalian    Language = "it"

	// WorkingLanguage is the language intent detection always runs in.
	WorkingLanguage = LanguageEnglish
)

// SupportedLanguages lists every language the pipeline resolves to.
var SupportedLanguages = []Language{
	LanguageEnglish,
	LanguageChinese,
	LanguageVietnamese,
	LanguageItalian,
}

func (l Language) Supported() bool {
	for _, s := range SupportedLanguages {
		if s == l {
			return true
		}
	}
	return false
}

// Locale returns the BCP-47 code used by the speech providers.
func (l Language) Locale() string {
	switch l {
	case LanguageChinese:
		return "zh-CN"
	case LanguageVietnamese:
		return "vi-VN"
	case LanguageItalian:
		return "it-IT"
	default:
		return "en-US"
	}
}
