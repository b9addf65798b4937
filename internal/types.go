package internal

import "time"

// Exchange is one completed interpretation exchange: what was heard,
// what it was translated to, and which service produced the result.
// It is the record handed to history persistence and speech-output
// collaborators.
type Exchange struct {
	ID             string        `json:"id"`
	SourceText     string        `json:"source_text"`
	SourceLang     string        `json:"source_lang"`
	TargetLang     string        `json:"target_lang"`
	TranslatedText string        `json:"translated_text"`
	Service        string        `json:"service"`
	Latency        time.Duration `json:"latency"`
	Timestamp      time.Time     `json:"timestamp"`
}
