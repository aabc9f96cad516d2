package model

// ImageRef is one image reference discovered in fetched markup.
type ImageRef struct {
	URL string
	Alt string
}

// ContentModel is the in-flight representation of a fetched page.
// It is produced by the content fetcher, mutated in place by the asset
// pipeline, consumed by the brief planner and the generation coordinator,
// and discarded once all versions are persisted. It is never stored verbatim.
type ContentModel struct {
	SourceURL       string
	Title           string
	ExtractedText   string
	MetaDescription string
	RawMarkup       string
	Images          []ImageRef

	// ProcessedImages holds the rehosted references after asset rewriting.
	// Only these URLs may appear in generated artifacts.
	ProcessedImages []ImageRef
}

// Brief is one generation instruction set driving one attempt.
// Position is 1-based and determines the resulting version number.
type Brief struct {
	Position     int
	Instructions string
}
