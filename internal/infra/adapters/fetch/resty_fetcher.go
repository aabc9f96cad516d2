package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"webforge/internal/domain/model"
	"webforge/internal/domain/ports/adapter"
)

const (
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	// maxExtractedText caps what a single page can push into prompts.
	// Token-level trimming happens later in the generator adapters.
	maxExtractedText = 20000
)

// RestyFetcher downloads a page and distills it into a content model: title,
// meta description, visible text and an image inventory with absolute URLs.
type RestyFetcher struct {
	client *resty.Client
	log    *zerolog.Logger
}

var _ adapter.ContentFetcher = (*RestyFetcher)(nil)

func NewRestyFetcher(timeout time.Duration, log *zerolog.Logger) *RestyFetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", browserUserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml")
	return &RestyFetcher{client: client, log: log}
}

func (f *RestyFetcher) Fetch(ctx context.Context, rawURL string) (*model.ContentModel, error) {
	resp, err := f.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("get %s: http %d", rawURL, resp.StatusCode())
	}

	markup := string(resp.Body())
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	content := &model.ContentModel{
		SourceURL: rawURL,
		RawMarkup: markup,
	}
	content.Title, content.MetaDescription = headMeta(doc)
	if content.Title == "" {
		content.Title = "Untitled Page"
	}
	content.ExtractedText = extractText(doc)
	content.Images = collectImages(doc, base)

	f.log.Debug().
		Str("url", rawURL).
		Int("text_len", len(content.ExtractedText)).
		Int("images", len(content.Images)).
		Msg("page distilled")
	return content, nil
}

func headMeta(doc *html.Node) (title, description string) {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if title == "" && n.FirstChild != nil {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				if strings.EqualFold(attr(n, "name"), "description") {
					description = strings.TrimSpace(attr(n, "content"))
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title, description
}

// skippedElements never contribute visible page text.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"head":     true,
	"nav":      true,
	"header":   true,
	"footer":   true,
	"iframe":   true,
}

func extractText(doc *html.Node) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	text := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	if len(text) > maxExtractedText {
		cut := maxExtractedText
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}

func collectImages(doc *html.Node, base *url.URL) []model.ImageRef {
	var refs []model.ImageRef
	seen := map[string]bool{}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			if abs := resolveImageURL(base, attr(n, "src")); abs != "" && !seen[abs] {
				seen[abs] = true
				refs = append(refs, model.ImageRef{URL: abs, Alt: attr(n, "alt")})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return refs
}

func resolveImageURL(base *url.URL, src string) string {
	src = strings.TrimSpace(src)
	if src == "" || strings.HasPrefix(src, "data:") {
		return ""
	}
	ref, err := url.Parse(src)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	return abs.String()
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
