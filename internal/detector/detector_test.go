package detector

import "testing"

func TestDetector_DetectISO(t *testing.T) {
	d := New()

	cases := map[string]string{
		"The quick brown fox jumps over the lazy dog": "en",
		"Доброго вечора, ми з України":                "uk",
		"Le renard brun saute par-dessus le chien":    "fr",
	}

	for text, want := range cases {
		got, ok := d.DetectISO(text)
		if !ok {
			t.Errorf("expected detection for %q", text)
			continue
		}
		if got != want {
			t.Errorf("DetectISO(%q) = %q, want %q", text, got, want)
		}
	}
}

func TestDetector_EmptyText(t *testing.T) {
	d := New()

	if _, ok := d.DetectISO(""); ok {
		t.Error("expected no detection for empty text")
	}
}
