package language

import (
	"strings"

	"github.com/seu-repo/voice-concierge/internal/domain"
)

type ResponseKey string

const (
	DeviceControlSuccess ResponseKey = "deviceControlSuccess"
	DeviceControlFailed  ResponseKey = "deviceControlFailed"
	DeviceNotFound       ResponseKey = "deviceNotFound"
	SceneActivateSuccess ResponseKey = "sceneActivateSuccess"
	SceneActivateFailed  ResponseKey = "sceneActivateFailed"
	SceneNotFound        ResponseKey = "sceneNotFound"
	ActionCompleted      ResponseKey = "actionCompleted"
	Error                ResponseKey = "error"
	LightOn              ResponseKey = "lightOn"
	LightOff             ResponseKey = "lightOff"
)

type translations map[domain.Language]string

var responses = map[ResponseKey]translations{
	DeviceControlSuccess: {
		domain.LanguageEnglish:    "Successfully controlled the {device}",
		domain.LanguageChinese:    "成功控制了{device}",
		domain.LanguageVietnamese: "Đã điều khiển {device} thành công",
		domain.LanguageItalian:    "Controllo {device} riuscito",
	},
	DeviceControlFailed: {
		domain.LanguageEnglish:    "Failed to control the {device}",
		domain.LanguageChinese:    "控制{device}失败",
		domain.LanguageVietnamese: "Không thể điều khiển {device}",
		domain.LanguageItalian:    "Impossibile controllare {device}",
	},
	DeviceNotFound: {
		domain.LanguageEnglish:    "Sorry, I could not understand which device to control",
		domain.LanguageChinese:    "抱歉，我无法理解要控制哪个设备",
		domain.LanguageVietnamese: "Xin lỗi, tôi không hiểu thiết bị nào cần điều khiển",
		domain.LanguageItalian:    "Scusa, non ho capito quale dispositivo controllare",
	},
	SceneActivateSuccess: {
		domain.LanguageEnglish:    "The {scene} is now on.",
		domain.LanguageChinese:    "{scene}已打开。",
		domain.LanguageVietnamese: "{scene} đã được bật.",
		domain.LanguageItalian:    "{scene} è ora acceso.",
	},
	SceneActivateFailed: {
		domain.LanguageEnglish:    "Sorry, failed to activate {scene}.",
		domain.LanguageChinese:    "抱歉，切换到{scene}失败。",
		domain.LanguageVietnamese: "Xin lỗi, không thể chuyển sang chế độ {scene}.",
		domain.LanguageItalian:    "Spiacente, impossibile attivare la modalità {scene}.",
	},
	SceneNotFound: {
		domain.LanguageEnglish:    "Sorry, I could not find that scene mode",
		domain.LanguageChinese:    "抱歉，我找不到该场景模式",
		domain.LanguageVietnamese: "Xin lỗi, tôi không tìm thấy chế độ cảnh đó",
		domain.LanguageItalian:    "Scusa, non ho trovato quella modalità scena",
	},
	ActionCompleted: {
		domain.LanguageEnglish:    "Action completed",
		domain.LanguageChinese:    "操作完成",
		domain.LanguageVietnamese: "Hành động đã hoàn thành",
		domain.LanguageItalian:    "Azione completata",
	},
	Error: {
		domain.LanguageEnglish:    "Sorry, I encountered an error",
		domain.LanguageChinese:    "抱歉，我遇到了一个错误",
		domain.LanguageVietnamese: "Xin lỗi, tôi gặp lỗi",
		domain.LanguageItalian:    "Scusa, ho riscontrato un errore",
	},
	LightOn: {
		domain.LanguageEnglish:    "The {location} light is now on.",
		domain.LanguageChinese:    "{location}的灯已打开。",
		domain.LanguageVietnamese: "Đèn {location} đã được bật.",
		domain.LanguageItalian:    "La luce {location} è ora accesa.",
	},
	LightOff: {
		domain.LanguageEnglish:    "The {location} light is now off.",
		domain.LanguageChinese:    "{location}的灯已关闭。",
		domain.LanguageVietnamese: "Đèn {location} đã được tắt.",
		domain.LanguageItalian:    "La luce {location} è ora spenta.",
	},
}

var locations = map[string]translations{
	"bathroom": {
		domain.LanguageEnglish:    "bathroom",
		domain.LanguageChinese:    "浴室",
		domain.LanguageVietnamese: "phòng tắm",
		domain.LanguageItalian:    "bagno",
	},
	"room": {
		domain.LanguageEnglish:    "room",
		domain.LanguageChinese:    "房间",
		domain.LanguageVietnamese: "phòng",
		domain.LanguageItalian:    "camera",
	},
	"living_room": {
		domain.LanguageEnglish:    "living room",
		domain.LanguageChinese:    "客厅",
		domain.LanguageVietnamese: "phòng khách",
		domain.LanguageItalian:    "soggiorno",
	},
	"bedroom": {
		domain.LanguageEnglish:    "bedroom",
		domain.LanguageChinese:    "卧室",
		domain.LanguageVietnamese: "phòng ngủ",
		domain.LanguageItalian:    "camera da letto",
	},
}

var devices = map[string]translations{
	"light": {
		domain.LanguageEnglish:    "light",
		domain.LanguageChinese:    "灯",
		domain.LanguageVietnamese: "đèn",
		domain.LanguageItalian:    "luce",
	},
	"air_conditioner": {
		domain.LanguageEnglish:    "air conditioner",
		domain.LanguageChinese:    "空调",
		domain.LanguageVietnamese: "máy lạnh",
		domain.LanguageItalian:    "condizionatore",
	},
	"curtain": {
		domain.LanguageEnglish:    "curtain",
		domain.LanguageChinese:    "窗帘",
		domain.LanguageVietnamese: "rèm cửa",
		domain.LanguageItalian:    "tenda",
	},
}

// Localize renders a reply template, falling back to English for a missing
// translation. Each {name} placeholder is replaced by vars[name].
func Localize(key ResponseKey, lang domain.Language, vars map[string]string) string {
	t, ok := responses[key]
	if !ok {
		return string(key)
	}
	text, ok := t[lang]
	if !ok {
		text = t[domain.LanguageEnglish]
	}
	for name, value := range vars {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}
	return text
}

// LocalizedLocation returns the display name of a location, or the input when unknown.
func LocalizedLocation(location string, lang domain.Language) string {
	return lookup(locations, location, lang)
}

func LocalizedDevice(device string, lang domain.Language) string {
	return lookup(devices, device, lang)
}

func lookup(table map[string]translations, key string, lang domain.Language) string {
	k := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), " ", "_")
	if t, ok := table[k]; ok {
		if v, ok := t[lang]; ok {
			return v
		}
	}
	return key
}
