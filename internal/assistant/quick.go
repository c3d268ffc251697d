package assistant

import (
	"fmt"
	"sort"
	"strings"
)

// scopeResult narrows the snapshot to the items matching the message's
// topical keywords. noMatches distinguishes "nothing of that kind exists"
// from "no restriction was asked for".
type scopeResult struct {
	pool      []Game
	noMatches bool
}

func scopeGames(message string, games []Game) scopeResult {
	keywords := TopicalKeywords(message)
	if len(keywords) == 0 {
		return scopeResult{pool: games}
	}
	var filtered []Game
	for _, g := range games {
		hay := g.searchText()
		for _, kw := range keywords {
			if strings.Contains(hay, kw) {
				filtered = append(filtered, g)
				break
			}
		}
	}
	if len(filtered) == 0 {
		return scopeResult{noMatches: true}
	}
	return scopeResult{pool: filtered}
}

// QuickAnswer computes a superlative answer directly from catalog data,
// without any completion call. Only invoked when IsQuickIntent holds.
func QuickAnswer(message string, games []Game) string {
	sc := scopeGames(message, games)
	if sc.noMatches {
		return MsgNoMatches
	}
	if len(sc.pool) == 0 {
		return MsgOutOfScope
	}
	intent := ClassifyIntent(message)
	return superlativeSentence(intent, pickExtremum(intent, sc.pool))
}

// pickExtremum ranks the pool by the intent's metric with the documented
// tie-break and returns the head.
func pickExtremum(intent Intent, pool []Game) Game {
	ranked := make([]Game, len(pool))
	copy(ranked, pool)
	var less func(a, b Game) bool
	switch intent {
	case IntentWorst:
		less = func(a, b Game) bool {
			if a.Popularidad() != b.Popularidad() {
				return a.Popularidad() < b.Popularidad()
			}
			return a.Precio > b.Precio
		}
	case IntentCheapest:
		less = func(a, b Game) bool {
			if a.Precio != b.Precio {
				return a.Precio < b.Precio
			}
			return a.Popularidad() > b.Popularidad()
		}
	case IntentMostExpensive:
		less = func(a, b Game) bool {
			if a.Precio != b.Precio {
				return a.Precio > b.Precio
			}
			return a.Popularidad() > b.Popularidad()
		}
	default: // best and generic
		less = func(a, b Game) bool {
			if a.Popularidad() != b.Popularidad() {
				return a.Popularidad() > b.Popularidad()
			}
			return a.Precio < b.Precio
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })
	return ranked[0]
}

func superlativeSentence(intent Intent, g Game) string {
	switch intent {
	case IntentMostExpensive:
		return fmt.Sprintf("%s es de los más caros del catálogo actual (precio: €%.2f).", g.Nombre, g.Precio)
	case IntentCheapest:
		return fmt.Sprintf("%s es de los más baratos del catálogo actual (precio: €%.2f).", g.Nombre, g.Precio)
	case IntentWorst:
		return fmt.Sprintf("%s es de los menos populares del catálogo actual (popularidad: %d).", g.Nombre, g.Popularidad())
	default:
		return fmt.Sprintf("%s es de los más populares del catálogo actual (popularidad: %d).", g.Nombre, g.Popularidad())
	}
}

// RecommendationSentence is the fixed template used by the rescue and
// final-choice stages and by the terminal fallback.
func RecommendationSentence(g Game) string {
	return fmt.Sprintf("Te recomiendo %s (precio: €%.2f, popularidad: %d) según la base de datos actual.",
		g.Nombre, g.Precio, g.Popularidad())
}
