package usecase

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/oklog/ulid/v2"

	"webforge/internal/domain/ports/repository"
)

const (
	maxSlugLen  = 50
	minSlugLen  = 2
	urlHashLen  = 8
	suffixChars = 8
)

// RetryPolicy bounds the sequential collision scan. Once MaxAttempts
// candidates are taken the resolver gives up on counters and appends a
// random Suffix instead.
type RetryPolicy struct {
	MaxAttempts int
	Suffix      func() string
}

func DefaultRetryPolicy(maxAttempts int) RetryPolicy {
	return RetryPolicy{MaxAttempts: maxAttempts, Suffix: randomSuffix}
}

// randomSuffix takes the entropy tail of a fresh ULID, lowercased so the
// result stays a valid identifier.
func randomSuffix() string {
	id := ulid.Make().String()
	return strings.ToLower(id[len(id)-suffixChars:])
}

// IdentifierResolver derives a short unique slug for a site from its source
// URL, probing the store for collisions.
type IdentifierResolver struct {
	sites  repository.SiteRepository
	policy RetryPolicy
}

func NewIdentifierResolver(sites repository.SiteRepository, policy RetryPolicy) *IdentifierResolver {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 100
	}
	if policy.Suffix == nil {
		policy.Suffix = randomSuffix
	}
	return &IdentifierResolver{sites: sites, policy: policy}
}

// Resolve returns the first free candidate: the base slug, then base1,
// base2, ... until MaxAttempts is exhausted, then base plus a random suffix.
// Uniqueness here is a pre-check only; the database constraint on the
// identifier column is the authority under concurrent writers.
func (r *IdentifierResolver) Resolve(ctx context.Context, sourceURL string) (string, error) {
	base := slugFromURL(sourceURL)
	candidate := base
	for i := 1; i <= r.policy.MaxAttempts; i++ {
		exists, err := r.sites.ExistsByIdentifier(ctx, nil, candidate)
		if err != nil {
			return "", fmt.Errorf("check identifier %q: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	return base + r.policy.Suffix(), nil
}

// slugFromURL reduces a URL to its registrable-domain label: hostname
// lowercased, www. stripped, second-to-last dot label picked, non-alphanumeric
// runes dropped. Hosts that reduce to fewer than two characters fall back to
// a hash of the full URL so IP literals and exotic hosts still get a slug.
func slugFromURL(raw string) string {
	host := ""
	if u, err := url.Parse(raw); err == nil {
		host = strings.ToLower(u.Hostname())
	}
	host = strings.TrimPrefix(host, "www.")

	labels := strings.Split(host, ".")
	label := labels[0]
	if len(labels) >= 2 {
		label = labels[len(labels)-2]
	}

	var b strings.Builder
	for _, r := range label {
		if unicode.IsLower(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	slug := b.String()

	if len(slug) < minSlugLen {
		sum := md5.Sum([]byte(raw))
		return hex.EncodeToString(sum[:])[:urlHashLen]
	}
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	return slug
}
