package assistant

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Spanish stopwords plus the domain words that appear in almost every
// question and therefore carry no topical signal. All entries are in
// normalized (lowercase, diacritic-free) form.
var stopwords = map[string]struct{}{
	"que": {}, "cual": {}, "cuales": {}, "quien": {}, "como": {}, "donde": {},
	"cuando": {}, "por": {}, "para": {}, "con": {}, "sin": {}, "los": {},
	"las": {}, "del": {}, "una": {}, "uno": {}, "unos": {}, "unas": {},
	"este": {}, "esta": {}, "esto": {}, "estos": {}, "estas": {}, "ese": {},
	"esa": {}, "eso": {}, "esos": {}, "esas": {}, "hay": {}, "son": {},
	"estan": {}, "tiene": {}, "tienen": {}, "tienes": {}, "hola": {},
	"quiero": {}, "quieres": {}, "dame": {}, "dime": {}, "sobre": {},
	"entre": {}, "desde": {}, "hasta": {}, "pero": {}, "tambien": {},
	"algo": {}, "algun": {}, "alguna": {}, "algunos": {}, "algunas": {},
	"otro": {}, "otra": {}, "puedes": {}, "puede": {}, "podrias": {},
	"gustaria": {}, "juego": {}, "juegos": {}, "videojuego": {},
	"videojuegos": {}, "catalogo": {}, "base": {}, "datos": {},
	"actual": {}, "disponible": {}, "disponibles": {},
}

// Bidirectional synonym table for platform and vendor vocabulary.
var synonyms = map[string][]string{
	"nintendo":    {"switch"},
	"switch":      {"nintendo"},
	"sony":        {"playstation", "ps", "ps4", "ps5"},
	"playstation": {"sony", "ps4", "ps5"},
	"ps":          {"playstation", "sony"},
	"ps4":         {"playstation", "sony"},
	"ps5":         {"playstation", "sony"},
	"xbox":        {"microsoft"},
	"microsoft":   {"xbox"},
	"ordenador":   {"pc"},
	"computadora": {"pc"},
	"computador":  {"pc"},
	"pc":          {"ordenador", "computadora", "computador"},
}

// Normalize lowercases s and strips combining diacritics so that
// "¿Cuál es el MÁS caro?" and "cual es el mas caro" compare equal.
// Normalize(Normalize(s)) == Normalize(s) for all inputs.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(fold, s)
	if err != nil {
		return s
	}
	return out
}

// Tokenize splits the normalized message on non-alphanumeric runs and drops
// tokens of length <= 2 and stopwords.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(Normalize(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var tokens []string
	for _, f := range fields {
		if len([]rune(f)) <= 2 {
			continue
		}
		if _, ok := stopwords[f]; ok {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// ExpandKeywords returns tokens plus their synonym terms, deduplicated and
// in first-seen order.
func ExpandKeywords(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	var out []string
	add := func(t string) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for _, t := range tokens {
		add(t)
		for _, syn := range synonyms[t] {
			add(syn)
		}
	}
	return out
}
