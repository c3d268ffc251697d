package assistant

import (
	"strings"
	"unicode/utf8"
)

// Replies that technically arrive but say nothing.
var fillerTokens = map[string]struct{}{
	"...": {}, "ok": {}, "vale": {}, "si": {}, "sí": {}, "no": {}, "claro": {},
}

// Phrases that make an answer acceptable even when it names no catalog item:
// an explicit refusal or not-found statement is a valid, scope-compliant
// reply. Entries are in normalized form.
var outOfScopePhrases = []string{
	"solo puedo responder sobre videojuegos",
	"no encuentro videojuegos",
	"no hay videojuegos",
	"no esta en la base de datos",
	"no disponible en esta base de datos",
}

// Default meta-commentary markers. Tuned empirically against small local
// models that leak their instructions back; deployments can override the
// list, see NewScopeGuard.
var defaultMetaMarkers = []string{
	"the user is asking",
	"the user wants",
	"as an ai",
	"i need to",
	"let me think",
	"we need to",
	"the assistant should",
	"based on the instructions",
	"my reasoning",
}

// ScopeGuard validates candidate answers against the whitelisted pool.
type ScopeGuard struct {
	metaMarkers []string
}

// NewScopeGuard builds a guard with the given meta-leak markers; an empty
// list selects the defaults.
func NewScopeGuard(metaMarkers []string) *ScopeGuard {
	if len(metaMarkers) == 0 {
		metaMarkers = defaultMetaMarkers
	}
	lowered := make([]string, 0, len(metaMarkers))
	for _, m := range metaMarkers {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			lowered = append(lowered, m)
		}
	}
	return &ScopeGuard{metaMarkers: lowered}
}

// Review applies the guard to a sanitized answer. Meta-commentary leakage is
// not merely rejected: the answer is replaced by the recommendation template
// for the best-matching (or first) pool item, since at that point the model
// output is unusable but the pool still holds a safe reply.
func (g *ScopeGuard) Review(answer string, pool []Game) StageResult {
	if g.hasMetaLeak(answer) {
		if len(pool) == 0 {
			return StageResult{}
		}
		return StageResult{Text: RecommendationSentence(bestPoolMatch(answer, pool)), Valid: true}
	}
	return StageResult{Text: answer, Valid: g.IsValid(answer, pool)}
}

// IsValid reports whether answer is acceptable: non-trivial text that either
// names a pool item or states an explicit out-of-scope/not-found reply.
func (g *ScopeGuard) IsValid(answer string, pool []Game) bool {
	t := strings.TrimSpace(answer)
	if t == "" {
		return false
	}
	if _, ok := fillerTokens[strings.ToLower(t)]; ok {
		return false
	}
	if utf8.RuneCountInString(t) < 8 {
		return false
	}
	normalized := Normalize(t)
	for _, game := range pool {
		if name := Normalize(game.Nombre); name != "" && strings.Contains(normalized, name) {
			return true
		}
	}
	for _, phrase := range outOfScopePhrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}

func (g *ScopeGuard) hasMetaLeak(answer string) bool {
	lower := strings.ToLower(answer)
	for _, marker := range g.metaMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// bestPoolMatch returns the pool item whose name appears in the answer, or
// the first (highest-relevance) item when none does. Callers guarantee a
// non-empty pool.
func bestPoolMatch(answer string, pool []Game) Game {
	normalized := Normalize(answer)
	for _, game := range pool {
		if name := Normalize(game.Nombre); name != "" && strings.Contains(normalized, name) {
			return game
		}
	}
	return pool[0]
}
