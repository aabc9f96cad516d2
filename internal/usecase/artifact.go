package usecase

import (
	"strings"

	"webforge/internal/domain"
)

// SanitizeArtifact strips the markdown code fences chat models like to wrap
// around output and verifies the remainder starts an HTML document.
func SanitizeArtifact(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```html")
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	s = strings.TrimSpace(s)

	if s == "" {
		return "", domain.ErrEmptyArtifact
	}
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "<!doctype html") && !strings.HasPrefix(lower, "<html") {
		return "", domain.ErrMalformedArtifact
	}
	return s, nil
}
