package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// scriptedClient replays queued replies/errors in call order and records the
// prompts it saw.
type scriptedClient struct {
	replies []string
	errs    []error
	calls   int
	users   []string
	systems []string
}

func (c *scriptedClient) Chat(_ context.Context, system, user string, _ int, _ float64) (string, error) {
	i := c.calls
	c.calls++
	c.users = append(c.users, user)
	c.systems = append(c.systems, system)
	var err error
	if i < len(c.errs) {
		err = c.errs[i]
	}
	var reply string
	if i < len(c.replies) {
		reply = c.replies[i]
	}
	return reply, err
}

func newTestOrchestrator(client CompletionClient) *Orchestrator {
	return NewOrchestrator(client, NewScopeGuard(nil))
}

const slowMessage = "háblame de juegos de aventura espacial"

func TestAnswerPrimaryAccepted(t *testing.T) {
	client := &scriptedClient{replies: []string{"Te recomiendo Nova, una aventura espacial muy valorada."}}
	got, err := newTestOrchestrator(client).Answer(context.Background(), slowMessage, testCatalog())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "Nova") {
		t.Fatalf("answer = %q", got)
	}
	if client.calls != 1 {
		t.Fatalf("calls = %d, want 1", client.calls)
	}
}

func TestAnswerPrimaryErrorSurfaces(t *testing.T) {
	boom := errors.New("connection refused")
	client := &scriptedClient{errs: []error{boom}}
	_, err := newTestOrchestrator(client).Answer(context.Background(), slowMessage, testCatalog())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	if client.calls != 1 {
		t.Fatalf("calls = %d, want 1", client.calls)
	}
}

func TestAnswerAdvancesToRetry(t *testing.T) {
	client := &scriptedClient{replies: []string{"ok", "Pixel Quest es perfecta para ti."}}
	got, err := newTestOrchestrator(client).Answer(context.Background(), slowMessage, testCatalog())
	if err != nil {
		t.Fatal(err)
	}
	if got != "Pixel Quest es perfecta para ti." {
		t.Fatalf("answer = %q", got)
	}
	if client.calls != 2 {
		t.Fatalf("calls = %d, want 2", client.calls)
	}
	if !strings.Contains(client.users[1], "máximo de 2 frases") {
		t.Fatalf("retry prompt missing plain-text instruction: %q", client.users[1])
	}
}

func TestAnswerLaterStageErrorsAreAbsorbed(t *testing.T) {
	client := &scriptedClient{
		replies: []string{"ok", "", "Te recomiendo Circuito por su precio (€29.99)."},
		errs:    []error{nil, errors.New("retry timeout"), nil},
	}
	got, err := newTestOrchestrator(client).Answer(context.Background(), slowMessage, testCatalog())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "Circuito") {
		t.Fatalf("answer = %q", got)
	}
	if client.calls != 3 {
		t.Fatalf("calls = %d, want 3", client.calls)
	}
	if !strings.Contains(client.systems[2], "exactamente un videojuego") {
		t.Fatalf("rescue stage should use the rescue preamble: %q", client.systems[2])
	}
}

func TestRescueRewritesBareNameWithTemplate(t *testing.T) {
	// The rescue reply names an item but gives no data-backed justification,
	// so it is rewritten to the fixed recommendation sentence.
	client := &scriptedClient{replies: []string{"ok", "ok", "Mazmorra sin duda alguna."}}
	got, err := newTestOrchestrator(client).Answer(context.Background(), slowMessage, testCatalog())
	if err != nil {
		t.Fatal(err)
	}
	mazmorra := Game{Nombre: "Mazmorra", Precio: 39.99, Likes: 1, Dislikes: 4}
	if got != RecommendationSentence(mazmorra) {
		t.Fatalf("answer = %q, want rewritten template", got)
	}
}

func TestFinalChoicePicksFromShortlist(t *testing.T) {
	client := &scriptedClient{replies: []string{"ok", "ok", "ok", "2"}}
	orch := newTestOrchestrator(client)
	snapshot := testCatalog()
	got, err := orch.Answer(context.Background(), slowMessage, snapshot)
	if err != nil {
		t.Fatal(err)
	}
	pool := ChooseRelevantGames(snapshot, slowMessage, DefaultPoolLimit)
	if got != RecommendationSentence(pool[1]) {
		t.Fatalf("answer = %q, want recommendation for %q", got, pool[1].Nombre)
	}
	if client.calls != 4 {
		t.Fatalf("calls = %d, want 4", client.calls)
	}
	if !strings.Contains(client.users[3], "1) ") || !strings.Contains(client.users[3], slowMessage) {
		t.Fatalf("final choice prompt malformed: %q", client.users[3])
	}
}

func TestFinalChoiceRejectsOutOfRange(t *testing.T) {
	client := &scriptedClient{replies: []string{"ok", "ok", "ok", "9"}}
	snapshot := testCatalog()
	got, err := newTestOrchestrator(client).Answer(context.Background(), slowMessage, snapshot)
	if err != nil {
		t.Fatal(err)
	}
	pool := ChooseRelevantGames(snapshot, slowMessage, DefaultPoolLimit)
	if got != RecommendationSentence(pool[0]) {
		t.Fatalf("answer = %q, want terminal fallback", got)
	}
}

func TestAnswerTerminalFallback(t *testing.T) {
	client := &scriptedClient{replies: []string{"ok", "ok", "ok", "sin número"}}
	snapshot := testCatalog()
	got, err := newTestOrchestrator(client).Answer(context.Background(), slowMessage, snapshot)
	if err != nil {
		t.Fatal(err)
	}
	pool := ChooseRelevantGames(snapshot, slowMessage, DefaultPoolLimit)
	if got != RecommendationSentence(pool[0]) {
		t.Fatalf("answer = %q, want recommendation for %q", got, pool[0].Nombre)
	}
	if client.calls != 4 {
		t.Fatalf("calls = %d, want 4", client.calls)
	}
}

func TestParseChoice(t *testing.T) {
	cases := []struct {
		raw  string
		max  int
		want int
		ok   bool
	}{
		{"2", 5, 2, true},
		{"La opción 3 es la mejor", 5, 3, true},
		{"<think>dudas</think>1", 5, 1, true},
		{"0", 5, 0, false},
		{"7", 5, 0, false},
		{"ninguna", 5, 0, false},
	}
	for _, c := range cases {
		got, ok := parseChoice(c.raw, c.max)
		if got != c.want || ok != c.ok {
			t.Fatalf("parseChoice(%q, %d) = (%d, %v), want (%d, %v)", c.raw, c.max, got, ok, c.want, c.ok)
		}
	}
}
