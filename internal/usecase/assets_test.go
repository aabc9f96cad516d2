package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"webforge/internal/domain/model"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestRewriteReplacesURLsAndPersistsMappings(t *testing.T) {
	images := newMemImageRepo()
	rehoster := &fakeRehoster{hosted: map[string]string{
		"https://origin.test/a.png": "https://cdn.test/a.png",
		"https://origin.test/b.jpg": "https://cdn.test/b.jpg",
	}}
	p := NewAssetPipeline(images, rehoster, testLogger())

	content := &model.ContentModel{
		RawMarkup: `<img src="https://origin.test/a.png"><img src="https://origin.test/b.jpg">`,
		Images: []model.ImageRef{
			{URL: "https://origin.test/a.png", Alt: "a"},
			{URL: "https://origin.test/b.jpg", Alt: "b"},
		},
	}

	if err := p.Rewrite(context.Background(), content, "site-1"); err != nil {
		t.Fatalf("Rewrite: %v", err)
	}

	if strings.Contains(content.RawMarkup, "origin.test") {
		t.Errorf("markup still references origin: %s", content.RawMarkup)
	}
	if !strings.Contains(content.RawMarkup, "https://cdn.test/a.png") {
		t.Errorf("markup missing rehosted URL: %s", content.RawMarkup)
	}

	mappings, err := images.ListBySite(context.Background(), nil, "site-1")
	if err != nil {
		t.Fatalf("ListBySite: %v", err)
	}
	if len(mappings) != 2 {
		t.Fatalf("got %d mappings, want 2", len(mappings))
	}
	if len(content.ProcessedImages) != 2 {
		t.Errorf("got %d processed images, want 2", len(content.ProcessedImages))
	}
}

func TestRewriteDropsFailedImages(t *testing.T) {
	images := newMemImageRepo()
	rehoster := &fakeRehoster{
		hosted: map[string]string{"https://origin.test/ok.png": "https://cdn.test/ok.png"},
		errs:   map[string]error{"https://origin.test/bad.png": errors.New("boom")},
	}
	p := NewAssetPipeline(images, rehoster, testLogger())

	content := &model.ContentModel{
		RawMarkup: `<img src="https://origin.test/ok.png"><img src="https://origin.test/bad.png">`,
		Images: []model.ImageRef{
			{URL: "https://origin.test/ok.png"},
			{URL: "https://origin.test/bad.png"},
		},
	}

	if err := p.Rewrite(context.Background(), content, "site-1"); err != nil {
		t.Fatalf("Rewrite: %v", err)
	}

	// Failed image keeps its original reference untouched.
	if !strings.Contains(content.RawMarkup, "https://origin.test/bad.png") {
		t.Errorf("failed image reference was rewritten: %s", content.RawMarkup)
	}
	if !strings.Contains(content.RawMarkup, "https://cdn.test/ok.png") {
		t.Errorf("surviving image not rewritten: %s", content.RawMarkup)
	}

	mappings, _ := images.ListBySite(context.Background(), nil, "site-1")
	if len(mappings) != 1 {
		t.Fatalf("got %d mappings, want 1", len(mappings))
	}
	if mappings[0].OriginalURL != "https://origin.test/ok.png" {
		t.Errorf("unexpected mapping: %+v", mappings[0])
	}
}

func TestRewritePrefixURLsLongestFirst(t *testing.T) {
	images := newMemImageRepo()
	rehoster := &fakeRehoster{hosted: map[string]string{
		"https://origin.test/img":    "https://cdn.test/1.png",
		"https://origin.test/img@2x": "https://cdn.test/2.png",
	}}
	p := NewAssetPipeline(images, rehoster, testLogger())

	content := &model.ContentModel{
		RawMarkup: `<img src="https://origin.test/img"><img src="https://origin.test/img@2x">`,
		Images: []model.ImageRef{
			{URL: "https://origin.test/img"},
			{URL: "https://origin.test/img@2x"},
		},
	}

	if err := p.Rewrite(context.Background(), content, "site-1"); err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if !strings.Contains(content.RawMarkup, "https://cdn.test/2.png") {
		t.Errorf("longer URL clobbered by its prefix: %s", content.RawMarkup)
	}
	if !strings.Contains(content.RawMarkup, "https://cdn.test/1.png") {
		t.Errorf("short URL not rewritten: %s", content.RawMarkup)
	}
}

func TestRewriteNoImagesIsNoOp(t *testing.T) {
	images := newMemImageRepo()
	rehoster := &fakeRehoster{}
	p := NewAssetPipeline(images, rehoster, testLogger())

	content := &model.ContentModel{RawMarkup: "<html><body>text only</body></html>"}
	before := content.RawMarkup

	if err := p.Rewrite(context.Background(), content, "site-1"); err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if content.RawMarkup != before {
		t.Errorf("markup changed without images")
	}
	if len(rehoster.calls) != 0 {
		t.Errorf("rehoster called %d times, want 0", len(rehoster.calls))
	}
}

func TestRewriteMappingPersistFailureAborts(t *testing.T) {
	images := newMemImageRepo()
	images.saveErr = errors.New("db down")
	rehoster := &fakeRehoster{hosted: map[string]string{"https://origin.test/a.png": "https://cdn.test/a.png"}}
	p := NewAssetPipeline(images, rehoster, testLogger())

	content := &model.ContentModel{
		RawMarkup: `<img src="https://origin.test/a.png">`,
		Images:    []model.ImageRef{{URL: "https://origin.test/a.png"}},
	}

	if err := p.Rewrite(context.Background(), content, "site-1"); err == nil {
		t.Fatal("expected error when mapping persistence fails")
	}
	// Markup must stay untouched when the pipeline aborts.
	if !strings.Contains(content.RawMarkup, "origin.test") {
		t.Errorf("markup rewritten despite abort: %s", content.RawMarkup)
	}
}
