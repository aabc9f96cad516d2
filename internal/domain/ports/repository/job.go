package repository

import (
	"context"

	"webforge/internal/domain/model"
)

type JobRepository interface {
	// Save upserts the job by id. Every save advances UpdatedAt.
	Save(ctx context.Context, tx Tx, job *model.Job) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Job, error)
}
