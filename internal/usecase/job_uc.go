package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"webforge/internal/domain"
	"webforge/internal/domain/model"
	"webforge/internal/domain/ports/adapter"
	"webforge/internal/domain/ports/repository"
	"webforge/internal/infra/metrics"
)

// JobStatusView is what callers polling a job get to see.
type JobStatusView struct {
	ID           string
	Status       model.JobStatus
	Identifier   string
	Error        string
	VersionsDone int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type JobUseCase interface {
	// Create validates the URL, persists a pending job and hands it to the
	// background queue. The caller gets the accepted job back immediately.
	Create(ctx context.Context, sourceURL string) (*model.Job, error)
	Status(ctx context.Context, jobID string) (*JobStatusView, error)
}

type jobUC struct {
	jobs     repository.JobRepository
	sites    repository.SiteRepository
	cache    adapter.StatusCache
	queue    adapter.TaskQueue
	pipeline *Pipeline
	log      *zerolog.Logger
}

var _ JobUseCase = (*jobUC)(nil)

func NewJobUseCase(
	jobs repository.JobRepository,
	sites repository.SiteRepository,
	cache adapter.StatusCache,
	queue adapter.TaskQueue,
	pipeline *Pipeline,
	log *zerolog.Logger,
) JobUseCase {
	return &jobUC{jobs: jobs, sites: sites, cache: cache, queue: queue, pipeline: pipeline, log: log}
}

func (u *jobUC) Create(ctx context.Context, sourceURL string) (*model.Job, error) {
	sourceURL = strings.TrimSpace(sourceURL)
	if err := validateSourceURL(sourceURL); err != nil {
		return nil, err
	}

	job := model.NewJob(uuid.NewString(), sourceURL)
	if err := u.jobs.Save(ctx, nil, job); err != nil {
		return nil, fmt.Errorf("persist job: %w", err)
	}
	u.cache.Store(adapter.JobStatusEntry{Job: *job})

	err := u.queue.Submit(func(taskCtx context.Context) error {
		return u.pipeline.Run(taskCtx, job.ID)
	})
	if err != nil {
		// No worker will ever pick this job up, so fail it now rather than
		// leave it pending forever.
		job.Status = model.JobStatusFailed
		job.Error = domain.ErrQueueFull.Error()
		job.UpdatedAt = time.Now()
		if saveErr := u.jobs.Save(ctx, nil, job); saveErr != nil {
			u.log.Error().Err(saveErr).Str("job_id", job.ID).Msg("failed to mark rejected job")
		}
		u.cache.Store(adapter.JobStatusEntry{Job: *job})
		return nil, err
	}

	metrics.IncJobCreated()
	u.log.Info().Str("job_id", job.ID).Str("source_url", sourceURL).Msg("job accepted")
	return job, nil
}

func (u *jobUC) Status(ctx context.Context, jobID string) (*JobStatusView, error) {
	if jobID == "" {
		return nil, fmt.Errorf("%w: empty job id", domain.ErrInvalidArgument)
	}
	if entry, ok := u.cache.Get(jobID); ok {
		return viewFromEntry(entry), nil
	}

	job, err := u.jobs.FindByID(ctx, nil, jobID)
	if err != nil {
		return nil, err
	}
	entry := adapter.JobStatusEntry{Job: *job}
	if job.SiteID != "" {
		if site, err := u.sites.FindByID(ctx, nil, job.SiteID); err == nil {
			entry.Identifier = site.Identifier
		}
	}
	u.cache.Store(entry)
	return viewFromEntry(entry), nil
}

func viewFromEntry(entry adapter.JobStatusEntry) *JobStatusView {
	return &JobStatusView{
		ID:           entry.Job.ID,
		Status:       entry.Job.Status,
		Identifier:   entry.Identifier,
		Error:        entry.Job.Error,
		VersionsDone: entry.Job.VersionsDone,
		CreatedAt:    entry.Job.CreatedAt,
		UpdatedAt:    entry.Job.UpdatedAt,
	}
}

func validateSourceURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("%w: url is required", domain.ErrInvalidArgument)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: malformed url", domain.ErrInvalidArgument)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: url scheme must be http or https", domain.ErrInvalidArgument)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: url host is required", domain.ErrInvalidArgument)
	}
	return nil
}
