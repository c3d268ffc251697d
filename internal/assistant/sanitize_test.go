package assistant

import (
	"strings"
	"testing"
)

func TestCleanAnswerStripsThinkBlocks(t *testing.T) {
	raw := "<think>el usuario quiere una recomendación</think>Te recomiendo Nova."
	if got := CleanAnswer(raw); got != "Te recomiendo Nova." {
		t.Fatalf("CleanAnswer = %q", got)
	}
}

func TestCleanAnswerStripsMultilineThink(t *testing.T) {
	raw := "<THINK>\nline one\nline two\n</THINK>\n\nPixel Quest es buena opción."
	if got := CleanAnswer(raw); got != "Pixel Quest es buena opción." {
		t.Fatalf("CleanAnswer = %q", got)
	}
}

func TestCleanAnswerRemovesFenceMarkers(t *testing.T) {
	raw := "```json\nTe recomiendo Nova.\n```"
	if got := CleanAnswer(raw); got != "Te recomiendo Nova." {
		t.Fatalf("CleanAnswer = %q", got)
	}
}

func TestCleanAnswerCollapsesBlankLines(t *testing.T) {
	raw := "Primera línea.\n\n\n\n\nSegunda línea."
	if got := CleanAnswer(raw); got != "Primera línea.\n\nSegunda línea." {
		t.Fatalf("CleanAnswer = %q", got)
	}
}

func TestCleanAnswerSalvagesUnterminatedThinkWithMarker(t *testing.T) {
	raw := "<think>muchas vueltas al asunto. Respuesta final: Te recomiendo Nova por su popularidad."
	if got := CleanAnswer(raw); got != "Te recomiendo Nova por su popularidad." {
		t.Fatalf("CleanAnswer = %q", got)
	}
}

func TestCleanAnswerSalvagesUnterminatedThinkLastBlock(t *testing.T) {
	raw := "<think>primer bloque de razonamiento\n\nTe recomiendo Pixel Quest."
	if got := CleanAnswer(raw); got != "Te recomiendo Pixel Quest." {
		t.Fatalf("CleanAnswer = %q", got)
	}
}

func TestCleanAnswerTrimsLeakedEnglishReasoning(t *testing.T) {
	long := "Okay, the user asks for a game. " + strings.Repeat("Thinking it over. ", 20) +
		"Te recomiendo Nova. Es la más popular."
	got := CleanAnswer(long)
	if got != "Te recomiendo Nova. Es la más popular." {
		t.Fatalf("CleanAnswer = %q", got)
	}
}

func TestCleanAnswerKeepsLongSpanishAnswer(t *testing.T) {
	long := "Te recomiendo Nova porque " + strings.Repeat("es muy buena opción ", 20) + "para ti."
	if got := CleanAnswer(long); got != long {
		t.Fatalf("long answer without reasoning opener was rewritten: %q", got)
	}
}

func TestParseStructuredAnswerBareJSON(t *testing.T) {
	raw := `{"answer": "Te recomiendo Nova."}`
	if got := ParseStructuredAnswer(raw); got != "Te recomiendo Nova." {
		t.Fatalf("ParseStructuredAnswer = %q", got)
	}
}

func TestParseStructuredAnswerFencedJSON(t *testing.T) {
	raw := "```json\n{\"answer\": \"Pixel Quest es ideal.\"}\n```"
	if got := ParseStructuredAnswer(raw); got != "Pixel Quest es ideal." {
		t.Fatalf("ParseStructuredAnswer = %q", got)
	}
}

func TestParseStructuredAnswerRegexFallback(t *testing.T) {
	// Trailing junk makes this invalid JSON; the field extraction still works.
	raw := `{"answer": "Te recomiendo \"Nova\"."` + "\nsobra texto"
	if got := ParseStructuredAnswer(raw); got != `Te recomiendo "Nova".` {
		t.Fatalf("ParseStructuredAnswer = %q", got)
	}
}

func TestParseStructuredAnswerPlainText(t *testing.T) {
	raw := "Te recomiendo Nova sin ningún envoltorio."
	if got := ParseStructuredAnswer(raw); got != raw {
		t.Fatalf("ParseStructuredAnswer = %q", got)
	}
}
