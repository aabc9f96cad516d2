package repository

import (
	"context"

	"webforge/internal/domain/model"
)

type SiteRepository interface {
	// Save inserts the site. A duplicate identifier must surface as
	// domain.ErrAlreadyExists so the resolver can bump its counter;
	// the store-level uniqueness constraint is the backstop for the
	// check-then-insert race.
	Save(ctx context.Context, tx Tx, site *model.Site) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Site, error)
	FindByIdentifier(ctx context.Context, tx Tx, identifier string) (*model.Site, error)
	ExistsByIdentifier(ctx context.Context, tx Tx, identifier string) (bool, error)
	ListRecent(ctx context.Context, tx Tx, limit int) ([]*model.Site, error)
}
