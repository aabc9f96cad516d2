package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"webforge/internal/domain"
	"webforge/internal/domain/model"
	"webforge/internal/domain/ports/adapter"
	"webforge/internal/domain/ports/repository"
	"webforge/internal/infra/metrics"
)

// GenerationCoordinator fans one generation attempt per brief out to the
// adapter and waits for the whole batch. Attempts are isolated: a failure
// neither cancels nor delays its siblings, and the surviving artifacts keep
// the version number of their brief regardless of completion order.
type GenerationCoordinator struct {
	versions repository.VersionRepository
	gen      adapter.GeneratorAdapter
	timeout  time.Duration
	log      *zerolog.Logger
}

func NewGenerationCoordinator(versions repository.VersionRepository, gen adapter.GeneratorAdapter, timeout time.Duration, log *zerolog.Logger) *GenerationCoordinator {
	return &GenerationCoordinator{versions: versions, gen: gen, timeout: timeout, log: log}
}

type attemptResult struct {
	artifact string
	err      error
}

// GenerateAll returns how many versions were persisted. Zero survivors is an
// error; anything above zero is success even when some briefs failed.
func (c *GenerationCoordinator) GenerateAll(ctx context.Context, content *model.ContentModel, briefs []model.Brief, siteID string) (int, error) {
	results := make([]attemptResult, len(briefs))

	var wg sync.WaitGroup
	for i, brief := range briefs {
		wg.Add(1)
		go func(i int, brief model.Brief) {
			defer wg.Done()
			results[i] = c.attempt(ctx, content, brief)
		}(i, brief)
	}
	wg.Wait()

	persisted := 0
	for i, res := range results {
		number := briefs[i].Position
		if res.err != nil {
			c.log.Warn().Err(res.err).Int("version", number).Msg("generation attempt failed")
			continue
		}
		version := &model.SiteVersion{
			ID:        uuid.NewString(),
			SiteID:    siteID,
			Number:    number,
			Brief:     briefs[i].Instructions,
			Artifact:  res.artifact,
			CreatedAt: time.Now(),
		}
		if err := c.versions.Save(ctx, nil, version); err != nil {
			c.log.Error().Err(err).Int("version", number).Msg("failed to persist site version")
			continue
		}
		persisted++
	}

	if persisted == 0 {
		return 0, domain.ErrAllAttemptsFailed
	}
	return persisted, nil
}

func (c *GenerationCoordinator) attempt(ctx context.Context, content *model.ContentModel, brief model.Brief) attemptResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	raw, err := c.gen.GenerateDocument(ctx, content, brief.Instructions)
	elapsed := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.ObserveGeneration(false, elapsed)
		return attemptResult{err: err}
	}

	artifact, err := SanitizeArtifact(raw)
	if err != nil {
		metrics.ObserveGeneration(false, elapsed)
		return attemptResult{err: err}
	}
	metrics.ObserveGeneration(true, elapsed)
	return attemptResult{artifact: artifact}
}
