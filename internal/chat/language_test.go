package chat

import (
	"strings"
	"testing"
)

// wordDetector is a deterministic fake keyed on marker words.
type wordDetector struct{ langs map[string]string }

func (d wordDetector) Detect(text string) (string, bool) {
	for marker, lang := range d.langs {
		if strings.Contains(text, marker) {
			return lang, true
		}
	}
	return "", false
}

func TestResolveLanguagePinning(t *testing.T) {
	r := NewLanguageResolver(ScriptFallback{}, "English")

	history := []Message{
		{Role: "user", Content: "Привет, мне нужна помощь с eSIM"},
		{Role: "assistant", Content: "Здравствуйте!"},
		{Role: "user", Content: "Заказ не активируется"},
	}

	// The current message is English, but the earliest turns pin Russian.
	if got := r.Resolve(history, "please switch to my order"); got != "Russian" {
		t.Errorf("Expected pinned Russian, got %q", got)
	}
}

func TestResolveLanguageDeterministic(t *testing.T) {
	r := NewLanguageResolver(ScriptFallback{Inner: StatDetector{}}, "English")

	history := []Message{
		{Role: "user", Content: "Hello, I need help activating my eSIM on my phone"},
	}
	first := r.Resolve(history, "it shows an activation error")
	second := r.Resolve(history, "it shows an activation error")
	if first != second {
		t.Errorf("Resolver must be deterministic: %q vs %q", first, second)
	}
}

func TestResolveLanguageMajority(t *testing.T) {
	det := wordDetector{langs: map[string]string{
		"bonjour": "French",
		"hello":   "English",
	}}
	r := NewLanguageResolver(det, "English")

	history := []Message{
		{Role: "user", Content: "bonjour"},
		{Role: "user", Content: "hello there"},
		{Role: "user", Content: "bonjour encore"},
		{Role: "user", Content: "hello hello hello"}, // outside the vote window
	}
	if got := r.Resolve(history, "hello again"); got != "French" {
		t.Errorf("Expected majority French from first 3 user turns, got %q", got)
	}
}

func TestResolveLanguageTieEarliest(t *testing.T) {
	det := wordDetector{langs: map[string]string{
		"bonjour": "French",
		"hello":   "English",
	}}
	r := NewLanguageResolver(det, "English")

	history := []Message{
		{Role: "user", Content: "bonjour"},
		{Role: "user", Content: "hello"},
	}
	if got := r.Resolve(history, "mmm"); got != "French" {
		t.Errorf("Tie must go to the earliest language, got %q", got)
	}
}

func TestResolveLanguageFallbacks(t *testing.T) {
	det := wordDetector{langs: map[string]string{"hola": "Spanish"}}
	r := NewLanguageResolver(det, "English")

	// Inconclusive history, conclusive current message.
	history := []Message{
		{Role: "user", Content: "123"},
		{Role: "user", Content: "456"},
		{Role: "user", Content: "789"},
	}
	if got := r.Resolve(history, "hola"); got != "Spanish" {
		t.Errorf("Expected current-message fallback Spanish, got %q", got)
	}

	// Everything inconclusive: fixed default.
	if got := r.Resolve(history, "000"); got != "English" {
		t.Errorf("Expected default English, got %q", got)
	}
}

func TestStatDetectorEmpty(t *testing.T) {
	if _, ok := (StatDetector{}).Detect("   "); ok {
		t.Error("Blank text must be inconclusive")
	}
}

func TestScriptFallback(t *testing.T) {
	d := ScriptFallback{}
	if lang, ok := d.Detect("привет"); !ok || lang != "Russian" {
		t.Errorf("Cyrillic fallback failed: %q %v", lang, ok)
	}
	if lang, ok := d.Detect("hi"); !ok || lang != "English" {
		t.Errorf("Latin fallback failed: %q %v", lang, ok)
	}
	if _, ok := d.Detect("12345"); ok {
		t.Error("Digits alone must be inconclusive")
	}
}
