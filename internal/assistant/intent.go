package assistant

import "strings"

// ClassifyIntent maps a message to an intent using fixed precedence: price
// superlatives win over popularity ones, so "el mejor juego caro" classifies
// as mostExpensive.
func ClassifyIntent(message string) Intent {
	m := Normalize(message)
	switch {
	case strings.Contains(m, "caro"):
		return IntentMostExpensive
	case strings.Contains(m, "barato"):
		return IntentCheapest
	case strings.Contains(m, "peor"), strings.Contains(m, "menos popular"):
		return IntentWorst
	case strings.Contains(m, "mejor"), strings.Contains(m, "recomiend"), strings.Contains(m, "top"):
		return IntentBest
	default:
		return IntentGeneric
	}
}

// Trigger vocabulary for the deterministic bypass. Stems, so conjugations
// like "recomiendas" or plurals like "baratos" also match.
var quickTriggers = []string{
	"recomiend", "recomend", "sugier", "sugerencia",
	"mejor", "peor", "barato", "economico", "caro", "popular", "top",
}

// IsQuickIntent reports whether the message qualifies for the deterministic
// bypass. It is intentionally independent of ClassifyIntent precedence: any
// trigger word is enough.
func IsQuickIntent(message string) bool {
	m := Normalize(message)
	for _, t := range quickTriggers {
		if strings.Contains(m, t) {
			return true
		}
	}
	return false
}
