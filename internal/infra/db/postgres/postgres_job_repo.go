package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"webforge/internal/domain"
	"webforge/internal/domain/model"
	"webforge/internal/domain/ports/repository"
)

var _ repository.JobRepository = (*jobRepo)(nil)

type jobRepo struct {
	pool *pgxpool.Pool
}

func NewJobRepo(pool *pgxpool.Pool) *jobRepo {
	return &jobRepo{pool: pool}
}

func (r *jobRepo) Save(ctx context.Context, tx repository.Tx, job *model.Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	job.UpdatedAt = time.Now()

	const q = `
INSERT INTO jobs (id, site_id, status, error, versions_done, source_url, created_at, updated_at)
VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8)
ON CONFLICT (id) DO UPDATE SET
  site_id = EXCLUDED.site_id,
  status = EXCLUDED.status,
  error = EXCLUDED.error,
  versions_done = EXCLUDED.versions_done,
  updated_at = EXCLUDED.updated_at;`

	_, err := execSQL(ctx, r.pool, tx, q,
		job.ID, job.SiteID, string(job.Status), job.Error, job.VersionsDone, job.SourceURL, job.CreatedAt, job.UpdatedAt)
	return err
}

func (r *jobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Job, error) {
	const q = `
SELECT id, COALESCE(site_id::text, ''), status, error, versions_done, source_url, created_at, updated_at
FROM jobs
WHERE id = $1;`

	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}

	var j model.Job
	var statusStr string
	err = row.Scan(&j.ID, &j.SiteID, &statusStr, &j.Error, &j.VersionsDone, &j.SourceURL, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	j.Status = model.JobStatus(statusStr)
	return &j, nil
}
