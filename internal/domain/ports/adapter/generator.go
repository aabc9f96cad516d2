package adapter

import (
	"context"

	"webforge/internal/domain/model"
)

// GeneratorAdapter is the port for the external generation capability.
// Both calls are opaque: latency and failure are the only observable
// properties the orchestrator depends on.
type GeneratorAdapter interface {
	// PlanBriefs derives n independent creative directions from one
	// content model in a single planning call. The returned slice is not
	// validated here; the brief planner use case enforces shape and length.
	PlanBriefs(ctx context.Context, content *model.ContentModel, n int) ([]string, error)

	// GenerateDocument produces one finished HTML document for one brief.
	GenerateDocument(ctx context.Context, content *model.ContentModel, brief string) (string, error)
}
