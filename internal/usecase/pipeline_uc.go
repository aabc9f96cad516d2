package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"webforge/internal/domain"
	"webforge/internal/domain/model"
	"webforge/internal/domain/ports/adapter"
	"webforge/internal/domain/ports/repository"
	"webforge/internal/infra/logging"
	"webforge/internal/infra/metrics"
)

const (
	// maxErrorLen keeps provider stack traces out of the jobs table.
	maxErrorLen = 500
	// siteSaveRetries bounds recovery from losing the identifier uniqueness
	// race to a concurrent job.
	siteSaveRetries = 3
)

// Pipeline drives one job from pending to a terminal state: fetch the source
// page, resolve a slug, create the site, rehost images, plan briefs, fan the
// generation attempts out, finalize. Run never reports an error upward; every
// failure is absorbed into the job record.
type Pipeline struct {
	jobs        repository.JobRepository
	sites       repository.SiteRepository
	txm         repository.TransactionManager
	fetcher     adapter.ContentFetcher
	resolver    *IdentifierResolver
	assets      *AssetPipeline
	planner     *BriefPlanner
	coordinator *GenerationCoordinator
	statusCache adapter.StatusCache

	fetchTimeout time.Duration
	log          *zerolog.Logger
}

func NewPipeline(
	jobs repository.JobRepository,
	sites repository.SiteRepository,
	txm repository.TransactionManager,
	fetcher adapter.ContentFetcher,
	resolver *IdentifierResolver,
	assets *AssetPipeline,
	planner *BriefPlanner,
	coordinator *GenerationCoordinator,
	statusCache adapter.StatusCache,
	fetchTimeout time.Duration,
	log *zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		jobs:         jobs,
		sites:        sites,
		txm:          txm,
		fetcher:      fetcher,
		resolver:     resolver,
		assets:       assets,
		planner:      planner,
		coordinator:  coordinator,
		statusCache:  statusCache,
		fetchTimeout: fetchTimeout,
		log:          log,
	}
}

func (p *Pipeline) Run(ctx context.Context, jobID string) error {
	job, err := p.jobs.FindByID(ctx, nil, jobID)
	if err != nil {
		p.log.Error().Err(err).Str("job_id", jobID).Msg("failed to load job")
		return err
	}
	if job.Terminal() {
		return domain.ErrJobAlreadyTerminal
	}

	log := logging.With(logging.WithJobID(ctx, job.ID), p.log)
	defer logging.TraceDuration(log, "Pipeline.Run")()

	job.Status = model.JobStatusProcessing
	p.persist(job, "")

	identifier, runErr := p.execute(ctx, job, log)
	if runErr != nil {
		job.Status = model.JobStatusFailed
		job.Error = truncateError(runErr)
		metrics.IncJobFinished(string(model.JobStatusFailed))
		log.Error().Err(runErr).Msg("job failed")
	} else {
		job.Status = model.JobStatusCompleted
		metrics.IncJobFinished(string(model.JobStatusCompleted))
		log.Info().Int("versions_done", job.VersionsDone).Str("identifier", identifier).Msg("job completed")
	}
	p.persist(job, identifier)
	return nil
}

func (p *Pipeline) execute(ctx context.Context, job *model.Job, log *zerolog.Logger) (string, error) {
	stage := time.Now()
	fctx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	content, err := p.fetcher.Fetch(fctx, job.SourceURL)
	cancel()
	metrics.ObserveStage("fetch", float64(time.Since(stage).Milliseconds()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	log.Debug().Str("title", content.Title).Int("images", len(content.Images)).Msg("page fetched")

	site, identifier, err := p.createSite(ctx, job, content)
	if err != nil {
		return "", err
	}
	log = logging.With(logging.WithSiteID(ctx, site.ID), log)
	log.Info().Str("identifier", identifier).Msg("site created")
	p.persist(job, identifier)

	stage = time.Now()
	if err := p.assets.Rewrite(ctx, content, site.ID); err != nil {
		return identifier, fmt.Errorf("asset pipeline: %w", err)
	}
	metrics.ObserveStage("assets", float64(time.Since(stage).Milliseconds()))
	if content.RawMarkup != site.RawMarkup {
		site.RawMarkup = content.RawMarkup
		if err := p.sites.Save(ctx, nil, site); err != nil {
			return identifier, fmt.Errorf("persist rewritten markup: %w", err)
		}
	}

	stage = time.Now()
	briefs, err := p.planner.Plan(ctx, content)
	metrics.ObserveStage("briefs", float64(time.Since(stage).Milliseconds()))
	if err != nil {
		return identifier, err
	}

	stage = time.Now()
	done, err := p.coordinator.GenerateAll(ctx, content, briefs, site.ID)
	metrics.ObserveStage("generation", float64(time.Since(stage).Milliseconds()))
	if err != nil {
		return identifier, err
	}
	job.VersionsDone = done
	return identifier, nil
}

// createSite resolves an identifier and inserts the site row, re-resolving
// when a concurrent job claims the slug between the existence probe and the
// insert. The unique constraint turns that race into domain.ErrAlreadyExists.
// The site row and the job's site_id commit together so neither can exist
// without the other.
func (p *Pipeline) createSite(ctx context.Context, job *model.Job, content *model.ContentModel) (*model.Site, string, error) {
	for attempt := 0; attempt < siteSaveRetries; attempt++ {
		identifier, err := p.resolver.Resolve(ctx, job.SourceURL)
		if err != nil {
			return nil, "", fmt.Errorf("resolve identifier: %w", err)
		}
		site := model.NewSite(uuid.NewString(), identifier, job.SourceURL, content.RawMarkup)
		err = p.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
			if err := p.sites.Save(ctx, tx, site); err != nil {
				return err
			}
			job.SiteID = site.ID
			return p.jobs.Save(ctx, tx, job)
		})
		if err == nil {
			return site, identifier, nil
		}
		job.SiteID = ""
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return nil, "", fmt.Errorf("persist site: %w", err)
		}
	}
	return nil, "", fmt.Errorf("persist site: %w", domain.ErrAlreadyExists)
}

// persist writes the job row and refreshes the status cache. It runs on a
// background context so a canceled pipeline can still record its terminal
// state instead of stranding the job in processing.
func (p *Pipeline) persist(job *model.Job, identifier string) {
	job.UpdatedAt = time.Now()
	if err := p.jobs.Save(context.Background(), nil, job); err != nil {
		p.log.Error().Err(err).Str("job_id", job.ID).Msg("failed to persist job state")
		return
	}
	p.statusCache.Store(adapter.JobStatusEntry{Job: *job, Identifier: identifier})
}

func truncateError(err error) string {
	msg := err.Error()
	if len(msg) <= maxErrorLen {
		return msg
	}
	// Back the cut up to a rune start so a multibyte provider message never
	// leaves invalid UTF-8 in the jobs table.
	cut := maxErrorLen
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut]
}
