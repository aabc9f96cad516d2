package usecase

import (
	"context"
	"fmt"
	"strings"

	"webforge/internal/domain"
	"webforge/internal/domain/model"
	"webforge/internal/domain/ports/adapter"
	"webforge/internal/infra/metrics"
)

// minBriefLen guards against a model answering with filler like "Make it
// nice". Anything shorter is treated as a planning failure.
const minBriefLen = 40

// BriefPlanner turns a content model into exactly n generation briefs with a
// single adapter call. Planning is all-or-nothing: a short, missing or extra
// brief fails the whole plan.
type BriefPlanner struct {
	gen adapter.GeneratorAdapter
	n   int
}

func NewBriefPlanner(gen adapter.GeneratorAdapter, n int) *BriefPlanner {
	return &BriefPlanner{gen: gen, n: n}
}

func (b *BriefPlanner) Plan(ctx context.Context, content *model.ContentModel) ([]model.Brief, error) {
	raw, err := b.gen.PlanBriefs(ctx, content, b.n)
	if err != nil {
		metrics.IncBriefPlanning(false)
		return nil, fmt.Errorf("%w: %v", domain.ErrBriefPlanning, err)
	}
	if len(raw) != b.n {
		metrics.IncBriefPlanning(false)
		return nil, fmt.Errorf("%w: expected %d briefs, got %d", domain.ErrBriefPlanning, b.n, len(raw))
	}

	briefs := make([]model.Brief, 0, b.n)
	for i, instructions := range raw {
		instructions = strings.TrimSpace(instructions)
		if len(instructions) < minBriefLen {
			metrics.IncBriefPlanning(false)
			return nil, fmt.Errorf("%w: brief %d is too short to act on", domain.ErrBriefPlanning, i+1)
		}
		briefs = append(briefs, model.Brief{Position: i + 1, Instructions: instructions})
	}
	metrics.IncBriefPlanning(true)
	return briefs, nil
}
