package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"webforge/internal/domain/model"
	"webforge/internal/domain/ports/adapter"
	"webforge/internal/domain/ports/repository"
	"webforge/internal/infra/metrics"
)

// AssetPipeline rehosts the images referenced by a content model and rewrites
// the markup snapshot to point at the hosted copies. A failed rehost drops
// that image and keeps the original reference in place; only mapping
// persistence errors abort the pipeline.
type AssetPipeline struct {
	images   repository.ImageMappingRepository
	rehoster adapter.AssetRehoster
	log      *zerolog.Logger
}

func NewAssetPipeline(images repository.ImageMappingRepository, rehoster adapter.AssetRehoster, log *zerolog.Logger) *AssetPipeline {
	return &AssetPipeline{images: images, rehoster: rehoster, log: log}
}

func (p *AssetPipeline) Rewrite(ctx context.Context, content *model.ContentModel, siteID string) error {
	if len(content.Images) == 0 {
		return nil
	}

	type rewrite struct {
		from, to string
	}
	var rewrites []rewrite

	for _, img := range content.Images {
		hosted, err := p.rehoster.Rehost(ctx, siteID, img)
		if err != nil || hosted == "" {
			metrics.IncImageRehost("dropped")
			p.log.Warn().Err(err).Str("image_url", img.URL).Msg("image rehost failed, keeping original reference")
			continue
		}

		mapping := &model.ImageMapping{
			ID:          uuid.NewString(),
			SiteID:      siteID,
			OriginalURL: img.URL,
			RehostedURL: hosted,
			AltText:     img.Alt,
			CreatedAt:   time.Now(),
		}
		// The mapping row lands before the markup references it so a crash
		// between the two leaves an orphan mapping, never a dangling URL.
		if err := p.images.Save(ctx, nil, mapping); err != nil {
			return fmt.Errorf("persist image mapping: %w", err)
		}
		metrics.IncImageRehost("ok")

		rewrites = append(rewrites, rewrite{from: img.URL, to: hosted})
		content.ProcessedImages = append(content.ProcessedImages, model.ImageRef{URL: hosted, Alt: img.Alt})
	}

	// Longer originals go first so a URL that prefixes another cannot
	// clobber it mid-rewrite.
	sort.SliceStable(rewrites, func(i, j int) bool {
		return len(rewrites[i].from) > len(rewrites[j].from)
	})

	markup := content.RawMarkup
	for _, rw := range rewrites {
		markup = strings.ReplaceAll(markup, rw.from, rw.to)
	}
	content.RawMarkup = markup
	return nil
}
