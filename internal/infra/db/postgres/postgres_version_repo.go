package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"webforge/internal/domain"
	"webforge/internal/domain/model"
	"webforge/internal/domain/ports/repository"
)

var _ repository.VersionRepository = (*versionRepo)(nil)

type versionRepo struct {
	pool *pgxpool.Pool
}

func NewVersionRepo(pool *pgxpool.Pool) *versionRepo {
	return &versionRepo{pool: pool}
}

func (r *versionRepo) Save(ctx context.Context, tx repository.Tx, v *model.SiteVersion) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}

	const q = `
INSERT INTO site_versions (id, site_id, version_number, brief, artifact, created_at)
VALUES ($1, $2, $3, $4, $5, $6);`

	_, err := execSQL(ctx, r.pool, tx, q, v.ID, v.SiteID, v.Number, v.Brief, v.Artifact, v.CreatedAt)
	if err != nil && isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *versionRepo) FindBySiteAndNumber(ctx context.Context, tx repository.Tx, siteID string, number int) (*model.SiteVersion, error) {
	const q = `
SELECT id, site_id, version_number, brief, artifact, created_at
FROM site_versions
WHERE site_id = $1 AND version_number = $2;`

	row, err := pickRow(ctx, r.pool, tx, q, siteID, number)
	if err != nil {
		return nil, err
	}

	var v model.SiteVersion
	err = row.Scan(&v.ID, &v.SiteID, &v.Number, &v.Brief, &v.Artifact, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &v, nil
}

func (r *versionRepo) ListNumbers(ctx context.Context, tx repository.Tx, siteID string) ([]int, error) {
	rows, err := pickRows(ctx, r.pool, tx, `
SELECT version_number
FROM site_versions
WHERE site_id = $1
ORDER BY version_number;`, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var numbers []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		numbers = append(numbers, n)
	}
	return numbers, rows.Err()
}
