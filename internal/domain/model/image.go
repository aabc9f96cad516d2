package model

import "time"

// ImageMapping records one original -> rehosted URL pair for a Site.
// Mappings are append-only; they drive markup rewriting and are exposed
// to the brief planner as a lookup table.
type ImageMapping struct {
	ID          string
	SiteID      string
	OriginalURL string
	RehostedURL string
	AltText     string
	CreatedAt   time.Time
}
