// Package detector identifies the language of recognized speech, used when
// the source language is set to "auto".
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// spokenLanguages is the set the detector chooses between. Restricting the
// candidate set keeps detection reliable on the short fragments a live
// recognizer produces.
var spokenLanguages = []lingua.Language{
	lingua.English, lingua.Spanish, lingua.French, lingua.German,
	lingua.Italian, lingua.Portuguese, lingua.Dutch, lingua.Polish,
	lingua.Ukrainian, lingua.Russian, lingua.Turkish, lingua.Arabic,
	lingua.Japanese, lingua.Korean, lingua.Chinese, lingua.Hindi,
	lingua.Vietnamese, lingua.Indonesian, lingua.Swedish, lingua.Greek,
}

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector over the supported spoken languages. Construction
// is expensive; reuse the instance.
func New() *Detector {
	d := lingua.NewLanguageDetectorBuilder().
		FromLanguages(spokenLanguages...).
		Build()

	return &Detector{detector: d}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if text == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the ISO 639-1 code of the detected language in lower
// case, matching the codes the translation providers accept.
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
