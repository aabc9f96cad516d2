package adapter

import (
	"context"

	"webforge/internal/domain/model"
)

// ContentFetcher retrieves a page and normalizes it into a ContentModel.
// Implementations must honor ctx deadlines; a timed-out fetch resolves as
// an error, never a hang.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (*model.ContentModel, error)
}
