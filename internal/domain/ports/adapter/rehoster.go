package adapter

import (
	"context"

	"webforge/internal/domain/model"
)

// AssetRehoster copies one remote image to stable storage and returns its
// public URL. An error drops that image only; the asset pipeline treats it
// as a per-image degradation, never a pipeline failure.
type AssetRehoster interface {
	Rehost(ctx context.Context, siteID string, img model.ImageRef) (string, error)
}
