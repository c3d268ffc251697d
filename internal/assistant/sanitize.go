package assistant

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	thinkBlockRe  = regexp.MustCompile(`(?is)<think>.*?</think>`)
	fenceMarkerRe = regexp.MustCompile("(?i)```(?:json)?")
	fencedBlockRe = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)```")
	manyNewlines  = regexp.MustCompile(`\n{3,}`)
	answerFieldRe = regexp.MustCompile(`"answer"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// Marker phrases scanned for, in order, when salvaging text after an
// unterminated reasoning block. The comparison is case-insensitive.
var finalAnswerMarkers = []string{
	"respuesta final:",
	"respuesta:",
	"final answer:",
	"the answer is",
	"answer:",
	"en conclusión,",
	"en conclusion,",
	"en resumen,",
}

// English phrases a leaked chain-of-thought typically opens with.
var reasoningOpeners = []string{
	"okay", "ok,", "let me", "let's", "first,", "the user", "i need",
	"i should", "we need", "so the user", "looking at", "hmm",
}

// CleanAnswer turns raw model output into a candidate answer: reasoning
// blocks and code-fence markers are removed, runs of blank lines collapsed,
// and leaked partial reasoning salvaged down to the actual answer.
func CleanAnswer(raw string) string {
	text := thinkBlockRe.ReplaceAllString(raw, "")
	text = fenceMarkerRe.ReplaceAllString(text, "")
	text = manyNewlines.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	// An opening <think> without its closing tag means the model hit the
	// token budget mid-reasoning. Keep what follows and dig out the answer.
	if idx := strings.Index(strings.ToLower(text), "<think>"); idx >= 0 {
		text = salvageAfterThink(text[idx+len("<think>"):])
	}

	if len(text) > 260 && opensWithReasoning(text) {
		text = lastSentences(text, 2)
	}
	return strings.TrimSpace(text)
}

func salvageAfterThink(text string) string {
	lower := strings.ToLower(text)
	for _, marker := range finalAnswerMarkers {
		if idx := strings.LastIndex(lower, marker); idx >= 0 {
			return strings.TrimSpace(text[idx+len(marker):])
		}
	}
	blocks := strings.Split(text, "\n\n")
	for i := len(blocks) - 1; i >= 0; i-- {
		if b := strings.TrimSpace(blocks[i]); b != "" {
			return b
		}
	}
	return strings.TrimSpace(text)
}

func opensWithReasoning(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range reasoningOpeners {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

func lastSentences(text string, n int) string {
	sentences := splitSentences(text)
	if len(sentences) <= n {
		return text
	}
	return strings.Join(sentences[len(sentences)-n:], " ")
}

func splitSentences(text string) []string {
	var out []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

type structuredAnswer struct {
	Answer string `json:"answer"`
}

// ParseStructuredAnswer tries progressively weaker readings of raw output:
// strict JSON with an "answer" field (bare or inside a code fence), then a
// regex extraction of the field with escape handling, then CleanAnswer on
// the raw text.
func ParseStructuredAnswer(raw string) string {
	candidates := []string{strings.TrimSpace(raw)}
	if m := fencedBlockRe.FindStringSubmatch(raw); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	for _, c := range candidates {
		var s structuredAnswer
		if err := json.Unmarshal([]byte(c), &s); err == nil && strings.TrimSpace(s.Answer) != "" {
			return CleanAnswer(s.Answer)
		}
	}
	if m := answerFieldRe.FindStringSubmatch(raw); m != nil {
		if unq, err := strconv.Unquote(`"` + m[1] + `"`); err == nil {
			return CleanAnswer(unq)
		}
		return CleanAnswer(m[1])
	}
	return CleanAnswer(raw)
}
