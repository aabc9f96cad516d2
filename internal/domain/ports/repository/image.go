package repository

import (
	"context"

	"webforge/internal/domain/model"
)

type ImageMappingRepository interface {
	Save(ctx context.Context, tx Tx, mapping *model.ImageMapping) error
	ListBySite(ctx context.Context, tx Tx, siteID string) ([]*model.ImageMapping, error)
}
