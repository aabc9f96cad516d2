package ai

import (
	"context"

	"webforge/internal/domain/model"
	"webforge/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.GeneratorAdapter = (*limitedGenerator)(nil)

// limitedGenerator caps how many provider calls run at once across all jobs,
// respecting context cancellation while waiting for a slot.
type limitedGenerator struct {
	inner adapter.GeneratorAdapter
	sem   chan struct{}
}

func NewLimitedGenerator(inner adapter.GeneratorAdapter, maxConcurrent int) adapter.GeneratorAdapter {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedGenerator{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedGenerator) acquire(ctx context.Context) error {
	select {
	case l.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *limitedGenerator) PlanBriefs(ctx context.Context, content *model.ContentModel, n int) ([]string, error) {
	if err := l.acquire(ctx); err != nil {
		return nil, err
	}
	defer func() { <-l.sem }()
	return l.inner.PlanBriefs(ctx, content, n)
}

func (l *limitedGenerator) GenerateDocument(ctx context.Context, content *model.ContentModel, brief string) (string, error) {
	if err := l.acquire(ctx); err != nil {
		return "", err
	}
	defer func() { <-l.sem }()
	return l.inner.GenerateDocument(ctx, content, brief)
}
