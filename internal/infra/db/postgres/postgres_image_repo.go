package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"webforge/internal/domain"
	"webforge/internal/domain/model"
	"webforge/internal/domain/ports/repository"
)

var _ repository.ImageMappingRepository = (*imageMappingRepo)(nil)

type imageMappingRepo struct {
	pool *pgxpool.Pool
}

func NewImageMappingRepo(pool *pgxpool.Pool) *imageMappingRepo {
	return &imageMappingRepo{pool: pool}
}

func (r *imageMappingRepo) Save(ctx context.Context, tx repository.Tx, m *model.ImageMapping) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	const q = `
INSERT INTO image_mappings (id, site_id, original_url, rehosted_url, alt_text, created_at)
VALUES ($1, $2, $3, $4, $5, $6);`

	_, err := execSQL(ctx, r.pool, tx, q, m.ID, m.SiteID, m.OriginalURL, m.RehostedURL, m.AltText, m.CreatedAt)
	return err
}

func (r *imageMappingRepo) ListBySite(ctx context.Context, tx repository.Tx, siteID string) ([]*model.ImageMapping, error) {
	rows, err := pickRows(ctx, r.pool, tx, `
SELECT id, site_id, original_url, rehosted_url, COALESCE(alt_text, ''), created_at
FROM image_mappings
WHERE site_id = $1
ORDER BY created_at;`, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ImageMapping
	for rows.Next() {
		var m model.ImageMapping
		if err := rows.Scan(&m.ID, &m.SiteID, &m.OriginalURL, &m.RehostedURL, &m.AltText, &m.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
