package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"webforge/internal/domain"
	"webforge/internal/domain/model"
	"webforge/internal/domain/ports/adapter"
	"webforge/internal/domain/ports/repository"
)

const defaultListLimit = 10

// SiteSummary is one row of the recent-sites listing.
type SiteSummary struct {
	Identifier string
	SourceURL  string
	Versions   []int
	CreatedAt  time.Time
}

type SiteUseCase interface {
	// Artifact returns the stored document for a site. number zero means
	// "whatever is available", which resolves to the lowest version number.
	// An explicitly requested version that was never persisted yields
	// domain.ErrVersionNotAvailable rather than a silent substitute.
	Artifact(ctx context.Context, identifier string, number int) (*model.SiteVersion, error)
	ListRecent(ctx context.Context, limit int) ([]SiteSummary, error)
}

type siteUC struct {
	sites    repository.SiteRepository
	versions repository.VersionRepository
	cache    adapter.ArtifactCache
	log      *zerolog.Logger
}

var _ SiteUseCase = (*siteUC)(nil)

func NewSiteUseCase(sites repository.SiteRepository, versions repository.VersionRepository, cache adapter.ArtifactCache, log *zerolog.Logger) SiteUseCase {
	return &siteUC{sites: sites, versions: versions, cache: cache, log: log}
}

func (u *siteUC) Artifact(ctx context.Context, identifier string, number int) (*model.SiteVersion, error) {
	if identifier == "" {
		return nil, fmt.Errorf("%w: empty identifier", domain.ErrInvalidArgument)
	}
	if number < 0 {
		return nil, fmt.Errorf("%w: version must be positive", domain.ErrInvalidArgument)
	}

	if number > 0 {
		if artifact, ok := u.cache.Get(ctx, identifier, number); ok {
			return &model.SiteVersion{Number: number, Artifact: artifact}, nil
		}
	}

	site, err := u.sites.FindByIdentifier(ctx, nil, identifier)
	if err != nil {
		return nil, err
	}
	numbers, err := u.versions.ListNumbers(ctx, nil, site.ID)
	if err != nil {
		return nil, err
	}
	if len(numbers) == 0 {
		// Site exists but the pipeline has not produced anything yet.
		return nil, domain.ErrVersionNotAvailable
	}

	pick := numbers[0]
	if number > 0 {
		found := false
		for _, n := range numbers {
			if n == number {
				found = true
				break
			}
		}
		if !found {
			return nil, domain.ErrVersionNotAvailable
		}
		pick = number
	}

	version, err := u.versions.FindBySiteAndNumber(ctx, nil, site.ID, pick)
	if err != nil {
		return nil, err
	}
	u.cache.Store(ctx, identifier, version.Number, version.Artifact)
	return version, nil
}

func (u *siteUC) ListRecent(ctx context.Context, limit int) ([]SiteSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	sites, err := u.sites.ListRecent(ctx, nil, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]SiteSummary, 0, len(sites))
	for _, site := range sites {
		numbers, err := u.versions.ListNumbers(ctx, nil, site.ID)
		if err != nil {
			u.log.Warn().Err(err).Str("site_id", site.ID).Msg("failed to list version numbers")
			numbers = nil
		}
		summaries = append(summaries, SiteSummary{
			Identifier: site.Identifier,
			SourceURL:  site.SourceURL,
			Versions:   numbers,
			CreatedAt:  site.CreatedAt,
		})
	}
	return summaries, nil
}
