package model

import "time"

// SiteVersion is one successful generation attempt for a Site.
// Failed attempts never produce a row, so Artifact is always populated.
// At most one version exists per (SiteID, Number).
type SiteVersion struct {
	ID        string
	SiteID    string
	Number    int // 1-based, matches the originating brief's position
	Brief     string
	Artifact  string
	CreatedAt time.Time
}
