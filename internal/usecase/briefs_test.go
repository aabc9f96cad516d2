package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"webforge/internal/domain"
	"webforge/internal/domain/model"
)

const validBrief = "A minimal single-column layout with generous whitespace and a restrained accent color for links."

func TestPlanReturnsPositionedBriefs(t *testing.T) {
	gen := &fakeGenerator{briefs: []string{
		validBrief + " One.",
		validBrief + " Two.",
		validBrief + " Three.",
	}}
	planner := NewBriefPlanner(gen, 3)

	briefs, err := planner.Plan(context.Background(), &model.ContentModel{})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(briefs) != 3 {
		t.Fatalf("got %d briefs, want 3", len(briefs))
	}
	for i, b := range briefs {
		if b.Position != i+1 {
			t.Errorf("brief %d has position %d", i, b.Position)
		}
	}
	if gen.planCalls != 1 {
		t.Errorf("planner made %d adapter calls, want 1", gen.planCalls)
	}
}

func TestPlanTrimsWhitespace(t *testing.T) {
	gen := &fakeGenerator{briefs: []string{
		"  " + validBrief + "\n",
		validBrief,
		validBrief,
	}}
	planner := NewBriefPlanner(gen, 3)

	briefs, err := planner.Plan(context.Background(), &model.ContentModel{})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if strings.HasPrefix(briefs[0].Instructions, " ") || strings.HasSuffix(briefs[0].Instructions, "\n") {
		t.Errorf("brief not trimmed: %q", briefs[0].Instructions)
	}
}

func TestPlanRejectsWrongCount(t *testing.T) {
	gen := &fakeGenerator{briefs: []string{validBrief, validBrief}}
	planner := NewBriefPlanner(gen, 3)

	_, err := planner.Plan(context.Background(), &model.ContentModel{})
	if !errors.Is(err, domain.ErrBriefPlanning) {
		t.Fatalf("got %v, want ErrBriefPlanning", err)
	}
}

func TestPlanRejectsShortBrief(t *testing.T) {
	gen := &fakeGenerator{briefs: []string{validBrief, "make it nice", validBrief}}
	planner := NewBriefPlanner(gen, 3)

	_, err := planner.Plan(context.Background(), &model.ContentModel{})
	if !errors.Is(err, domain.ErrBriefPlanning) {
		t.Fatalf("got %v, want ErrBriefPlanning", err)
	}
}

func TestPlanWrapsAdapterError(t *testing.T) {
	gen := &fakeGenerator{planErr: errors.New("provider timeout")}
	planner := NewBriefPlanner(gen, 3)

	_, err := planner.Plan(context.Background(), &model.ContentModel{})
	if !errors.Is(err, domain.ErrBriefPlanning) {
		t.Fatalf("got %v, want ErrBriefPlanning", err)
	}
	if !strings.Contains(err.Error(), "provider timeout") {
		t.Errorf("cause lost: %v", err)
	}
}
