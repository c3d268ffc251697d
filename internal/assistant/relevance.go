package assistant

import (
	"sort"
	"strings"
)

// Pure-intent vocabulary carries no topical signal and is removed from the
// expanded keyword set before content matching. Short entries match exactly;
// longer ones match as stems so plurals and conjugations are covered.
var intentOnlyTerms = []string{
	"mejor", "peor", "barato", "economico", "caro", "popular",
	"recomiend", "top", "mas",
}

func isIntentOnly(token string) bool {
	for _, term := range intentOnlyTerms {
		if len(term) <= 3 {
			if token == term {
				return true
			}
			continue
		}
		if strings.HasPrefix(token, term) {
			return true
		}
	}
	return false
}

// TopicalKeywords is the expanded keyword set of the message minus
// intent-only terms.
func TopicalKeywords(message string) []string {
	var out []string
	for _, kw := range ExpandKeywords(Tokenize(message)) {
		if !isIntentOnly(kw) {
			out = append(out, kw)
		}
	}
	return out
}

// searchText is the normalized haystack an item is matched against.
func (g Game) searchText() string {
	parts := []string{g.Nombre, g.Descripcion, g.Compania}
	parts = append(parts, g.Categorias...)
	parts = append(parts, g.Plataformas...)
	return Normalize(strings.Join(parts, " "))
}

// ChooseRelevantGames narrows the snapshot to at most limit items relevant
// to the message. Without topical keywords it falls back to the
// intent-appropriate catalog order; otherwise items are scored by keyword
// matches (name matches count double) plus a small popularity bias. Both
// paths use stable sorts so ties keep the original catalog order.
func ChooseRelevantGames(games []Game, message string, limit int) []Game {
	if limit <= 0 {
		limit = DefaultPoolLimit
	}
	keywords := TopicalKeywords(message)
	pool := make([]Game, len(games))
	copy(pool, games)

	if len(keywords) == 0 {
		intent := ClassifyIntent(message)
		sort.SliceStable(pool, func(i, j int) bool {
			switch intent {
			case IntentCheapest:
				return pool[i].Precio < pool[j].Precio
			case IntentMostExpensive:
				return pool[i].Precio > pool[j].Precio
			case IntentWorst:
				return pool[i].Popularidad() < pool[j].Popularidad()
			default:
				return pool[i].Popularidad() > pool[j].Popularidad()
			}
		})
		return truncate(pool, limit)
	}

	scores := make([]float64, len(pool))
	for i, g := range pool {
		hay := g.searchText()
		name := Normalize(g.Nombre)
		var s float64
		for _, kw := range keywords {
			if strings.Contains(hay, kw) {
				s += 3
			}
			if strings.Contains(name, kw) {
				s += 3
			}
		}
		s += 0.5 * float64(g.Popularidad())
		scores[i] = s
	}
	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })

	out := make([]Game, 0, limit)
	for _, i := range idx {
		out = append(out, pool[i])
	}
	return truncate(out, limit)
}

func truncate(games []Game, limit int) []Game {
	if len(games) > limit {
		return games[:limit]
	}
	return games
}
