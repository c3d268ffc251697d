package assistant

import (
	"strings"
	"testing"
)

func TestIsValidAcceptsPoolMention(t *testing.T) {
	guard := NewScopeGuard(nil)
	pool := testCatalog()
	if !guard.IsValid("Te recomiendo NOVA, es la más popular.", pool) {
		t.Fatal("answer naming a pool item should be valid")
	}
	if !guard.IsValid("Pixel quest está disponible en Switch.", pool) {
		t.Fatal("case and diacritics must not matter for the name check")
	}
}

func TestIsValidAcceptsOutOfScopeReply(t *testing.T) {
	guard := NewScopeGuard(nil)
	if !guard.IsValid(MsgOutOfScope, testCatalog()) {
		t.Fatal("the canonical refusal must be valid")
	}
	if !guard.IsValid("No encuentro videojuegos de ese tipo.", testCatalog()) {
		t.Fatal("a not-found statement must be valid")
	}
}

func TestIsValidRejectsTrivialReplies(t *testing.T) {
	guard := NewScopeGuard(nil)
	pool := testCatalog()
	for _, bad := range []string{"", "   ", "ok", "Vale", "...", "sí", "corto"} {
		if guard.IsValid(bad, pool) {
			t.Fatalf("IsValid(%q) = true, want false", bad)
		}
	}
	if guard.IsValid("Un gran juego de aventuras espaciales.", pool) {
		t.Fatal("answer naming no pool item should be invalid")
	}
}

func TestReviewRewritesMetaLeak(t *testing.T) {
	guard := NewScopeGuard(nil)
	pool := testCatalog()
	res := guard.Review("The user is asking for a recommendation, so I need to pick one.", pool)
	if !res.Valid {
		t.Fatal("meta leak with a non-empty pool should produce a valid rewrite")
	}
	if res.Text != RecommendationSentence(pool[0]) {
		t.Fatalf("rewrite = %q, want recommendation for %q", res.Text, pool[0].Nombre)
	}
}

func TestReviewMetaLeakPrefersMentionedGame(t *testing.T) {
	guard := NewScopeGuard(nil)
	pool := testCatalog()
	res := guard.Review("The user wants Mazmorra, let me think about it.", pool)
	if !res.Valid || !strings.Contains(res.Text, "Mazmorra") {
		t.Fatalf("rewrite should target the mentioned item, got %q", res.Text)
	}
}

func TestReviewMetaLeakEmptyPoolIsInvalid(t *testing.T) {
	guard := NewScopeGuard(nil)
	res := guard.Review("As an AI, I cannot answer that.", nil)
	if res.Valid {
		t.Fatal("meta leak with empty pool cannot be rewritten")
	}
}

func TestNewScopeGuardCustomMarkers(t *testing.T) {
	guard := NewScopeGuard([]string{"RAZONAMIENTO INTERNO:"})
	pool := testCatalog()
	res := guard.Review("razonamiento interno: elegir Nova", pool)
	if !res.Valid || res.Text != RecommendationSentence(pool[0]) {
		t.Fatalf("custom marker not applied, got %+v", res)
	}
	// default markers are replaced, not extended
	res = guard.Review("The user is asking about Nova y Nova es genial.", pool)
	if !res.Valid || res.Text == RecommendationSentence(pool[0]) {
		t.Fatalf("default markers should be inactive, got %+v", res)
	}
}
