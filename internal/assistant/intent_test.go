package assistant

import "testing"

func TestClassifyIntentPrecedence(t *testing.T) {
	cases := []struct {
		message string
		want    Intent
	}{
		{"¿Cuál es el juego más caro?", IntentMostExpensive},
		{"dame el más barato", IntentCheapest},
		{"¿cuál es el peor juego?", IntentWorst},
		{"el menos popular del catálogo", IntentWorst},
		{"¿cuál es el mejor?", IntentBest},
		{"recomiéndame algo", IntentBest},
		{"el top del catálogo", IntentBest},
		{"¿qué juegos de acción hay?", IntentGeneric},
		// price superlatives win over popularity ones
		{"el mejor juego caro", IntentMostExpensive},
		{"el peor de los baratos", IntentCheapest},
	}
	for _, c := range cases {
		if got := ClassifyIntent(c.message); got != c.want {
			t.Fatalf("ClassifyIntent(%q) = %s, want %s", c.message, got, c.want)
		}
	}
}

func TestIsQuickIntent(t *testing.T) {
	quick := []string{
		"recomiéndame un juego",
		"¿me recomiendas algo?",
		"sugiéreme algo bueno",
		"el más BARATO",
		"algo económico",
		"¿cuál es el top?",
	}
	for _, m := range quick {
		if !IsQuickIntent(m) {
			t.Fatalf("IsQuickIntent(%q) = false, want true", m)
		}
	}
	slow := []string{
		"¿qué juegos de estrategia hay?",
		"háblame de Nova",
		"¿en qué plataformas está?",
	}
	for _, m := range slow {
		if IsQuickIntent(m) {
			t.Fatalf("IsQuickIntent(%q) = true, want false", m)
		}
	}
}
