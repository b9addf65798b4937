// Package validator checks that a provider's output is actually written in
// the requested target language before the chain accepts it.
package validator

import (
	"fmt"
	"strings"

	"github.com/petrokh/tolmach/internal/detector"
)

// minValidationRunes is the minimum rune count required to attempt language
// detection. Live-caption fragments below this are accepted unchecked —
// detection on them is noise.
const minValidationRunes = 20

// Validator verifies translated text against an expected target language.
// The underlying detector is expensive to build; reuse the instance.
type Validator struct {
	det *detector.Detector
}

func New() *Validator {
	return &Validator{det: detector.New()}
}

// IsValid reports whether translatedText appears to be in targetLang.
// Empty text fails. Short or ambiguous text passes, since the detector
// cannot judge it reliably.
func (v *Validator) IsValid(translatedText, targetLang string) (bool, error) {
	if targetLang == "" {
		return true, nil
	}

	text := strings.TrimSpace(translatedText)
	if text == "" {
		return false, fmt.Errorf("translation is empty")
	}

	if len([]rune(text)) < minValidationRunes {
		return true, nil
	}

	detected, ok := v.det.DetectISO(text)
	if !ok {
		return true, nil
	}

	if !strings.EqualFold(detected, targetLang) {
		return false, fmt.Errorf("expected %s but detected %s", targetLang, detected)
	}

	return true, nil
}
