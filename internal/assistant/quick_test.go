package assistant

import "testing"

func TestQuickAnswerMostExpensive(t *testing.T) {
	got := QuickAnswer("¿Cuál es el juego más caro?", testCatalog())
	want := "Nova es de los más caros del catálogo actual (precio: €59.99)."
	if got != want {
		t.Fatalf("QuickAnswer = %q, want %q", got, want)
	}
}

func TestQuickAnswerCheapest(t *testing.T) {
	got := QuickAnswer("dame el más barato", testCatalog())
	want := "Pixel Quest es de los más baratos del catálogo actual (precio: €14.99)."
	if got != want {
		t.Fatalf("QuickAnswer = %q, want %q", got, want)
	}
}

func TestQuickAnswerWorst(t *testing.T) {
	got := QuickAnswer("¿cuál es el peor juego?", testCatalog())
	want := "Mazmorra es de los menos populares del catálogo actual (popularidad: -3)."
	if got != want {
		t.Fatalf("QuickAnswer = %q, want %q", got, want)
	}
}

func TestQuickAnswerBest(t *testing.T) {
	got := QuickAnswer("recomiéndame algo", testCatalog())
	want := "Nova es de los más populares del catálogo actual (popularidad: 4)."
	if got != want {
		t.Fatalf("QuickAnswer = %q, want %q", got, want)
	}
}

func TestQuickAnswerScopedToKeyword(t *testing.T) {
	// Only Pixel Quest matches "switch", so the superlative ranks a pool of one.
	got := QuickAnswer("¿cuál es el mejor juego de switch?", testCatalog())
	want := "Pixel Quest es de los más populares del catálogo actual (popularidad: 3)."
	if got != want {
		t.Fatalf("QuickAnswer = %q, want %q", got, want)
	}
}

func TestQuickAnswerNoMatches(t *testing.T) {
	got := QuickAnswer("recomiéndame un juego de terror", testCatalog())
	if got != MsgNoMatches {
		t.Fatalf("QuickAnswer = %q, want %q", got, MsgNoMatches)
	}
}

func TestPickExtremumTieBreaks(t *testing.T) {
	t.Run("cheapest prefers popular", func(t *testing.T) {
		pool := []Game{
			{Nombre: "A", Precio: 10, Likes: 1},
			{Nombre: "B", Precio: 10, Likes: 5},
		}
		if g := pickExtremum(IntentCheapest, pool); g.Nombre != "B" {
			t.Fatalf("got %q, want B", g.Nombre)
		}
	})
	t.Run("worst prefers expensive", func(t *testing.T) {
		pool := []Game{
			{Nombre: "A", Precio: 10, Dislikes: 3},
			{Nombre: "B", Precio: 50, Dislikes: 3},
		}
		if g := pickExtremum(IntentWorst, pool); g.Nombre != "B" {
			t.Fatalf("got %q, want B", g.Nombre)
		}
	})
	t.Run("best prefers cheap", func(t *testing.T) {
		pool := []Game{
			{Nombre: "A", Precio: 50, Likes: 3},
			{Nombre: "B", Precio: 10, Likes: 3},
		}
		if g := pickExtremum(IntentBest, pool); g.Nombre != "B" {
			t.Fatalf("got %q, want B", g.Nombre)
		}
	})
}

func TestRecommendationSentence(t *testing.T) {
	g := Game{Nombre: "Nova", Precio: 59.99, Likes: 5, Dislikes: 1}
	got := RecommendationSentence(g)
	want := "Te recomiendo Nova (precio: €59.99, popularidad: 4) según la base de datos actual."
	if got != want {
		t.Fatalf("RecommendationSentence = %q, want %q", got, want)
	}
}
