package repository

import (
	"context"

	"webforge/internal/domain/model"
)

type VersionRepository interface {
	Save(ctx context.Context, tx Tx, version *model.SiteVersion) error
	FindBySiteAndNumber(ctx context.Context, tx Tx, siteID string, number int) (*model.SiteVersion, error)
	// ListNumbers returns the available version numbers for a site in
	// ascending order.
	ListNumbers(ctx context.Context, tx Tx, siteID string) ([]int, error)
}
