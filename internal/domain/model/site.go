package model

import "time"

// Site is the durable record of one resolved, fetched source URL.
// Identifier is unique for the lifetime of the store.
type Site struct {
	ID         string
	Identifier string
	SourceURL  string
	RawMarkup  string // markup as fetched, after asset rewriting
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewSite(id, identifier, sourceURL, rawMarkup string) *Site {
	now := time.Now()
	return &Site{
		ID:         id,
		Identifier: identifier,
		SourceURL:  sourceURL,
		RawMarkup:  rawMarkup,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
