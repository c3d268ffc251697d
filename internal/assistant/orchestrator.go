package assistant

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CompletionClient is the narrow view of the external text-generation
// service the orchestrator needs. Tests substitute scripted stubs.
type CompletionClient interface {
	Chat(ctx context.Context, system, user string, numPredict int, temperature float64) (string, error)
}

// Per-stage deadlines. Each bounds a single call; a deadline firing fails
// that stage only.
const (
	primaryTimeout     = 90 * time.Second
	retryTimeout       = 45 * time.Second
	rescueTimeout      = 30 * time.Second
	finalChoiceTimeout = 15 * time.Second
)

var tracer = otel.Tracer("ludoteca/assistant")

// Orchestrator drives the escalating completion stages. Stages run strictly
// in order; the first result that passes the ScopeGuard wins, and a terminal
// deterministic fallback guarantees an answer.
type Orchestrator struct {
	client CompletionClient
	guard  *ScopeGuard
}

func NewOrchestrator(client CompletionClient, guard *ScopeGuard) *Orchestrator {
	if guard == nil {
		guard = NewScopeGuard(nil)
	}
	return &Orchestrator{client: client, guard: guard}
}

// requestContext carries the per-request state every stage reads. It is
// built once and never mutated.
type requestContext struct {
	message  string
	pool     []Game
	preamble string
}

type stageFn func(ctx context.Context, rc *requestContext) (StageResult, error)

// Answer runs the staged flow for a message that did not qualify for the
// deterministic bypass. Only a primary-stage failure is returned as an
// error; every later failure is absorbed and the flow advances.
func (o *Orchestrator) Answer(ctx context.Context, message string, snapshot []Game) (string, error) {
	ctx, span := tracer.Start(ctx, "assistant.answer")
	defer span.End()

	pool := ChooseRelevantGames(snapshot, message, DefaultPoolLimit)
	rc := &requestContext{
		message:  strings.TrimSpace(message),
		pool:     pool,
		preamble: systemPreamble(pool),
	}
	span.SetAttributes(attribute.Int("assistant.pool_size", len(pool)))

	stages := []struct {
		name Stage
		run  stageFn
	}{
		{StagePrimary, o.runPrimary},
		{StageRetry, o.runRetry},
		{StageRescue, o.runRescue},
		{StageFinalChoice, o.runFinalChoice},
	}

	for _, st := range stages {
		res, err := o.runStage(ctx, st.name, st.run, rc)
		if err != nil {
			if st.name == StagePrimary {
				return "", err
			}
			log.Printf("assistant stage_error stage=%s err=%q", st.name, err.Error())
			continue
		}
		if res.Valid {
			log.Printf("assistant stage_accepted stage=%s response_chars=%d", st.name, len(res.Text))
			return res.Text, nil
		}
		log.Printf("assistant stage_rejected stage=%s", st.name)
	}

	log.Printf("assistant fallback pool_size=%d", len(rc.pool))
	return o.fallback(rc), nil
}

func (o *Orchestrator) runStage(ctx context.Context, name Stage, run stageFn, rc *requestContext) (StageResult, error) {
	ctx, span := tracer.Start(ctx, "assistant.stage",
		trace.WithAttributes(attribute.String("assistant.stage", string(name))))
	defer span.End()
	res, err := run(ctx, rc)
	if err != nil {
		span.RecordError(err)
	}
	span.SetAttributes(attribute.Bool("assistant.stage_valid", res.Valid))
	return res, err
}

func (o *Orchestrator) runPrimary(ctx context.Context, rc *requestContext) (StageResult, error) {
	cctx, cancel := context.WithTimeout(ctx, primaryTimeout)
	defer cancel()
	raw, err := o.client.Chat(cctx, rc.preamble, rc.message, 220, 0.3)
	if err != nil {
		return StageResult{}, err
	}
	return o.guard.Review(ParseStructuredAnswer(raw), rc.pool), nil
}

func (o *Orchestrator) runRetry(ctx context.Context, rc *requestContext) (StageResult, error) {
	cctx, cancel := context.WithTimeout(ctx, retryTimeout)
	defer cancel()
	user := rc.message + "\n\nResponde en un máximo de 2 frases, en texto plano, sin razonamientos ni formato."
	raw, err := o.client.Chat(cctx, rc.preamble, user, 320, 0.15)
	if err != nil {
		return StageResult{}, err
	}
	return o.guard.Review(ParseStructuredAnswer(raw), rc.pool), nil
}

func (o *Orchestrator) runRescue(ctx context.Context, rc *requestContext) (res StageResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = StageResult{}, fmt.Errorf("rescue stage panic: %v", r)
		}
	}()
	cctx, cancel := context.WithTimeout(ctx, rescueTimeout)
	defer cancel()
	raw, chatErr := o.client.Chat(cctx, rescuePreamble(rc.pool), rc.message, 220, 0.15)
	if chatErr != nil {
		return StageResult{}, chatErr
	}
	answer := ParseStructuredAnswer(raw)
	// A bare item name without price/popularity justification is rewritten
	// to the fixed recommendation template.
	if g, ok := mentionedGame(answer, rc.pool); ok && !hasJustification(answer) {
		answer = RecommendationSentence(g)
	}
	return o.guard.Review(answer, rc.pool), nil
}

func (o *Orchestrator) runFinalChoice(ctx context.Context, rc *requestContext) (res StageResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = StageResult{}, fmt.Errorf("finalChoice stage panic: %v", r)
		}
	}()
	if len(rc.pool) == 0 {
		return StageResult{}, nil
	}
	short := rc.pool
	if len(short) > ShortlistLimit {
		short = short[:ShortlistLimit]
	}

	var b strings.Builder
	b.WriteString("Elige el videojuego más adecuado para el usuario de esta lista y responde SOLO con su número:\n")
	for i, g := range short {
		fmt.Fprintf(&b, "%d) %s (precio: €%.2f, popularidad: %d)\n", i+1, g.Nombre, g.Precio, g.Popularidad())
	}
	b.WriteString("\nPregunta del usuario: ")
	b.WriteString(rc.message)

	cctx, cancel := context.WithTimeout(ctx, finalChoiceTimeout)
	defer cancel()
	raw, chatErr := o.client.Chat(cctx, rc.preamble, b.String(), 8, 0)
	if chatErr != nil {
		return StageResult{}, chatErr
	}
	n, ok := parseChoice(raw, len(short))
	if !ok {
		return StageResult{}, nil
	}
	return StageResult{Text: RecommendationSentence(short[n-1]), Valid: true}, nil
}

// fallback never touches the network: recommend the highest-relevance pool
// item, or refuse when nothing relevant exists.
func (o *Orchestrator) fallback(rc *requestContext) string {
	if len(rc.pool) > 0 {
		return RecommendationSentence(rc.pool[0])
	}
	return MsgOutOfScope
}

var choiceRe = regexp.MustCompile(`\b(\d{1,2})\b`)

func parseChoice(raw string, max int) (int, bool) {
	m := choiceRe.FindStringSubmatch(CleanAnswer(raw))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 || n > max {
		return 0, false
	}
	return n, true
}

func mentionedGame(answer string, pool []Game) (Game, bool) {
	normalized := Normalize(answer)
	for _, g := range pool {
		if name := Normalize(g.Nombre); name != "" && strings.Contains(normalized, name) {
			return g, true
		}
	}
	return Game{}, false
}

var justificationHints = []string{"precio", "popular", "compania", "€", "barato", "caro", "euros"}

func hasJustification(answer string) bool {
	normalized := Normalize(answer)
	for _, h := range justificationHints {
		if strings.Contains(normalized, h) {
			return true
		}
	}
	return false
}
