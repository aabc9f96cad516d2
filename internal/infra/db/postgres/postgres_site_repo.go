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

var _ repository.SiteRepository = (*siteRepo)(nil)

type siteRepo struct {
	pool *pgxpool.Pool
}

func NewSiteRepo(pool *pgxpool.Pool) *siteRepo {
	return &siteRepo{pool: pool}
}

func (r *siteRepo) Save(ctx context.Context, tx repository.Tx, site *model.Site) error {
	if site.ID == "" {
		site.ID = uuid.NewString()
	}
	site.UpdatedAt = time.Now()

	const q = `
INSERT INTO sites (id, identifier, source_url, raw_markup, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
  raw_markup = EXCLUDED.raw_markup,
  updated_at = EXCLUDED.updated_at;`

	_, err := execSQL(ctx, r.pool, tx, q,
		site.ID, site.Identifier, site.SourceURL, site.RawMarkup, site.CreatedAt, site.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			// identifier collision lost to a concurrent insert; the
			// resolver converts this into a counter bump.
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

const siteColumns = `id, identifier, source_url, raw_markup, created_at, updated_at`

func scanSite(row pgx.Row) (*model.Site, error) {
	var s model.Site
	err := row.Scan(&s.ID, &s.Identifier, &s.SourceURL, &s.RawMarkup, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &s, nil
}

func (r *siteRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Site, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+siteColumns+` FROM sites WHERE id = $1;`, id)
	if err != nil {
		return nil, err
	}
	return scanSite(row)
}

func (r *siteRepo) FindByIdentifier(ctx context.Context, tx repository.Tx, identifier string) (*model.Site, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT `+siteColumns+` FROM sites WHERE identifier = $1;`, identifier)
	if err != nil {
		return nil, err
	}
	return scanSite(row)
}

func (r *siteRepo) ExistsByIdentifier(ctx context.Context, tx repository.Tx, identifier string) (bool, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT EXISTS(SELECT 1 FROM sites WHERE identifier = $1);`, identifier)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, domain.ErrReadDatabaseRow
	}
	return exists, nil
}

func (r *siteRepo) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.Site, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := pickRows(ctx, r.pool, tx, `
SELECT `+siteColumns+`
FROM sites
ORDER BY created_at DESC
LIMIT $1;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Site
	for rows.Next() {
		var s model.Site
		if err := rows.Scan(&s.ID, &s.Identifier, &s.SourceURL, &s.RawMarkup, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
