package assistant

import (
	"strings"
	"testing"
)

func TestSystemPreambleEmbedsRefusalAndContext(t *testing.T) {
	pool := testCatalog()
	got := systemPreamble(pool)
	if !strings.Contains(got, MsgOutOfScope) {
		t.Fatal("preamble must quote the refusal sentence verbatim")
	}
	if !strings.Contains(got, "Nombre: Nova") {
		t.Fatal("preamble must include the pool context")
	}
	if strings.Count(got, "\nID: ") != len(pool) {
		t.Fatalf("want one context line per pool item, got %d", strings.Count(got, "\nID: "))
	}
}

func TestGamesContextTruncatesDescription(t *testing.T) {
	long := strings.Repeat("análisis ", 20)
	got := gamesContext([]Game{{ID: 7, Nombre: "Épica", Descripcion: long}})
	if strings.Contains(got, long) {
		t.Fatal("description must be truncated to 70 runes")
	}
	if !strings.Contains(got, "Compañía: No disponible") {
		t.Fatalf("missing fields must read No disponible: %q", got)
	}
	if !strings.Contains(got, "Precio: 0.00") {
		t.Fatalf("price must use two decimals: %q", got)
	}
}
