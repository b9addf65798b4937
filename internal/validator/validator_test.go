package validator

import "testing"

func TestValidator_IsValid_MatchingLanguage(t *testing.T) {
	v := New()

	ok, err := v.IsValid("Доброго вечора, ми з України, раді вас бачити", "uk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected valid result for matching language")
	}
}

func TestValidator_IsValid_WrongLanguage(t *testing.T) {
	v := New()

	ok, err := v.IsValid("The quick brown fox jumps over the lazy dog", "uk")
	if ok {
		t.Error("expected invalid result for mismatched language")
	}
	if err == nil {
		t.Error("expected error naming both language codes")
	}
}

func TestValidator_IsValid_ShortTextPasses(t *testing.T) {
	v := New()

	// Too short for reliable detection; must pass unchecked.
	ok, err := v.IsValid("Hola", "uk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected short text to pass validation")
	}
}

func TestValidator_IsValid_EmptyTextFails(t *testing.T) {
	v := New()

	ok, err := v.IsValid("   ", "uk")
	if ok || err == nil {
		t.Error("expected empty text to fail validation")
	}
}

func TestValidator_IsValid_NoTargetLang(t *testing.T) {
	v := New()

	ok, err := v.IsValid("anything at all", "")
	if err != nil || !ok {
		t.Error("expected pass-through when no target language is set")
	}
}
