package assistant

import (
	"context"
	"fmt"
	"log"
)

// SnapshotFunc fetches a fresh read-only catalog snapshot: up to 25 items
// ordered by popularity desc, id asc, with category/platform names resolved.
type SnapshotFunc func(ctx context.Context) ([]Game, error)

// Service is the entry point of the assistant pipeline: snapshot fetch,
// empty-catalog short-circuit, deterministic bypass, staged completion flow.
type Service struct {
	snapshot SnapshotFunc
	orch     *Orchestrator
}

func NewService(snapshot SnapshotFunc, orch *Orchestrator) *Service {
	return &Service{snapshot: snapshot, orch: orch}
}

// Answer produces the assistant reply for a non-blank user message.
func (s *Service) Answer(ctx context.Context, message string) (string, error) {
	games, err := s.snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("catalog snapshot: %w", err)
	}
	if len(games) == 0 {
		return MsgEmptyCatalog, nil
	}
	if IsQuickIntent(message) {
		log.Printf("assistant quick_bypass intent=%s", ClassifyIntent(message))
		return QuickAnswer(message, games), nil
	}
	return s.orch.Answer(ctx, message, games)
}
