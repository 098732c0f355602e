package chat

import (
	"regexp"
	"strings"

	"github.com/abadojack/whatlanggo"
)

// DefaultLanguage is used when nothing about the conversation gives the
// language away.
const DefaultLanguage = "English"

// languageVoteWindow is how many of the earliest user messages vote on
// the conversation language. Keeping the window small is what pins the
// language: later messages cannot flip the result.
const languageVoteWindow = 3

// Detector is the language-classification capability. Implementations
// must be deterministic; ok is false when the text is inconclusive.
type Detector interface {
	Detect(text string) (lang string, ok bool)
}

// StatDetector classifies text with whatlanggo's trigram model.
type StatDetector struct{}

func (StatDetector) Detect(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	info := whatlanggo.Detect(text)
	if info.Lang == -1 || !info.IsReliable() {
		return "", false
	}
	return info.Lang.String(), true
}

var (
	cyrillicChars = regexp.MustCompile(`[А-Яа-яЁё]`)
	latinChars    = regexp.MustCompile(`[A-Za-z]`)
)

// ScriptFallback decorates a detector with alphabet heuristics for short
// messages the statistical model cannot place ("ok", "да", "15622").
type ScriptFallback struct {
	Inner Detector
}

func (s ScriptFallback) Detect(text string) (string, bool) {
	if s.Inner != nil {
		if lang, ok := s.Inner.Detect(text); ok {
			return lang, true
		}
	}
	switch {
	case cyrillicChars.MatchString(text):
		return "Russian", true
	case latinChars.MatchString(text):
		return "English", true
	}
	return "", false
}

// Message is one turn of the conversation as resupplied by the caller.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LanguageResolver derives the pinned conversation language. It holds no
// state: the same history and message always resolve to the same tag,
// which is what keeps the language stable across turns.
type LanguageResolver struct {
	Detector Detector
	Default  string
}

func NewLanguageResolver(d Detector, fallback string) *LanguageResolver {
	if fallback == "" {
		fallback = DefaultLanguage
	}
	return &LanguageResolver{Detector: d, Default: fallback}
}

// Resolve classifies the first few user-authored texts of the dialogue
// and picks the majority language, ties broken by earliest occurrence.
// If none of them classify, the current message alone decides; failing
// that, the configured default.
func (r *LanguageResolver) Resolve(history []Message, current string) string {
	texts := make([]string, 0, languageVoteWindow)
	for _, m := range history {
		if m.Role == "user" {
			texts = append(texts, m.Content)
		}
		if len(texts) == languageVoteWindow {
			break
		}
	}
	if len(texts) < languageVoteWindow {
		texts = append(texts, current)
	}

	votes := make(map[string]int)
	order := make([]string, 0, len(texts))
	for _, text := range texts {
		lang, ok := r.Detector.Detect(text)
		if !ok {
			continue
		}
		if votes[lang] == 0 {
			order = append(order, lang)
		}
		votes[lang]++
	}

	best := ""
	for _, lang := range order {
		if best == "" || votes[lang] > votes[best] {
			best = lang
		}
	}
	if best != "" {
		return best
	}

	if lang, ok := r.Detector.Detect(current); ok {
		return lang
	}
	return r.Default
}
