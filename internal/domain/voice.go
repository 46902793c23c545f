package domain

import "time"

// Transcript is the recognition provider output.
type Transcript struct {
	Text         string `json:"text"`
	LanguageHint string `json:"language_hint,omitempty"`
}

type Intent struct {
	Name       string                 `json:"name"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// StringParam returns a parameter as a trimmed string; non-string values yield "".
func (i Intent) StringParam(key string) string {
	v, ok := i.Parameters[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// StageTiming is one entry of the pipeline timing record.
type StageTiming struct {
	StepName   string        `json:"stepName"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration"`
	StartTime  time.Time     `json:"startTime"`
	EndTime    time.Time     `json:"endTime"`
}

type PipelineRun struct {
	Steps           []StageTiming `json:"steps"`
	TotalDuration   time.Duration `json:"-"`
	TotalDurationMS int64         `json:"totalDuration"`
	StartTime       time.Time     `json:"startTime"`
	EndTime         time.Time     `json:"endTime"`
}

// HasStep reports whether a stage with the given name was recorded.
func (r PipelineRun) HasStep(name string) bool {
	for _, s := range r.Steps {
		if s.StepName == name {
			return true
		}
	}
	return false
}

type PipelineResult struct {
	SessionID        string      `json:"sessionId"`
	Transcript       string      `json:"transcript"`
	TranslatedText   string      `json:"translatedText"`
	DetectedLanguage string      `json:"detectedLanguage,omitempty"`
	Language         Language    `json:"language"`
	Intent           *string     `json:"intent"`
	DeviceResult     interface{} `json:"deviceResult"`
	ReplyText        string      `json:"replyText"`
	Audio            []byte      `json:"audio"`
	Timing           PipelineRun `json:"timing"`
}

// CommandRecord is the persisted summary of one pipeline run.
type CommandRecord struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	SessionID       string    `json:"session_id" gorm:"index"`
	RoomID          string    `json:"room_id"`
	Transcript      string    `json:"transcript"`
	TranslatedText  string    `json:"translated_text"`
	Language        string    `json:"language"`
	Intent          string    `json:"intent"`
	ReplyText       string    `json:"reply_text"`
	Success         bool      `json:"success"`
	TotalDurationMS int64     `json:"total_duration_ms"`
	CreatedAt       time.Time `json:"created_at"`
}
