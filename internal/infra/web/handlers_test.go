package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"webforge/internal/domain"
	"webforge/internal/domain/model"
	"webforge/internal/usecase"
)

type fakeJobUC struct {
	createJob *model.Job
	createErr error
	statusMap map[string]*usecase.JobStatusView
}

func (f *fakeJobUC) Create(ctx context.Context, sourceURL string) (*model.Job, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createJob, nil
}

func (f *fakeJobUC) Status(ctx context.Context, jobID string) (*usecase.JobStatusView, error) {
	v, ok := f.statusMap[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

type fakeSiteUC struct {
	versions  map[string]*model.SiteVersion // identifier -> version
	earliest  int
	notAvail  bool
	summaries []usecase.SiteSummary
}

func (f *fakeSiteUC) Artifact(ctx context.Context, identifier string, number int) (*model.SiteVersion, error) {
	if f.notAvail {
		return nil, domain.ErrVersionNotAvailable
	}
	v, ok := f.versions[identifier]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if number == 0 {
		v.Number = f.earliest
	}
	return v, nil
}

func (f *fakeSiteUC) ListRecent(ctx context.Context, limit int) ([]usecase.SiteSummary, error) {
	return f.summaries, nil
}

type okPinger struct{ err error }

func (p okPinger) Ping(ctx context.Context) error { return p.err }

func newTestServer(jobUC usecase.JobUseCase, siteUC usecase.SiteUseCase, ping Pinger) http.Handler {
	logger := zerolog.Nop()
	return NewServer(jobUC, siteUC, ping, &logger).Routes()
}

func TestCreateJobAccepted(t *testing.T) {
	job := model.NewJob("job-1", "https://example.com")
	h := newTestServer(&fakeJobUC{createJob: job}, &fakeSiteUC{}, okPinger{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader(`{"url":"https://example.com"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	var resp jobResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != "job-1" || resp.Status != "pending" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestCreateJobBadBody(t *testing.T) {
	h := newTestServer(&fakeJobUC{}, &fakeSiteUC{}, okPinger{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateJobQueueFull(t *testing.T) {
	h := newTestServer(&fakeJobUC{createErr: domain.ErrQueueFull}, &fakeSiteUC{}, okPinger{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader(`{"url":"https://example.com"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestCreateJobInvalidURL(t *testing.T) {
	h := newTestServer(&fakeJobUC{createErr: domain.ErrInvalidArgument}, &fakeSiteUC{}, okPinger{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader(`{"url":"ftp://example.com"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestJobStatusFound(t *testing.T) {
	jobUC := &fakeJobUC{statusMap: map[string]*usecase.JobStatusView{
		"job-1": {
			ID:           "job-1",
			Status:       model.JobStatusCompleted,
			Identifier:   "example",
			VersionsDone: 3,
			CreatedAt:    time.Now(),
		},
	}}
	h := newTestServer(jobUC, &fakeSiteUC{}, okPinger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/job-1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp jobResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "completed" || resp.Identifier != "example" || resp.VersionsDone != 3 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestJobStatusNotFound(t *testing.T) {
	h := newTestServer(&fakeJobUC{statusMap: map[string]*usecase.JobStatusView{}}, &fakeSiteUC{}, okPinger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/ghost", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestArtifactServedAsHTML(t *testing.T) {
	siteUC := &fakeSiteUC{
		versions: map[string]*model.SiteVersion{
			"example": {Number: 1, Artifact: "<html><body>v1</body></html>"},
		},
		earliest: 1,
	}
	h := newTestServer(&fakeJobUC{}, siteUC, okPinger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sites/example/artifact", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	if rec.Body.String() != "<html><body>v1</body></html>" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestArtifactVersionNotAvailable(t *testing.T) {
	h := newTestServer(&fakeJobUC{}, &fakeSiteUC{notAvail: true}, okPinger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sites/example/artifact?version=2", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "version not available") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestArtifactBadVersionParam(t *testing.T) {
	h := newTestServer(&fakeJobUC{}, &fakeSiteUC{}, okPinger{})

	for _, v := range []string{"abc", "0", "-1"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/sites/example/artifact?version="+v, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("version=%s: status = %d, want 400", v, rec.Code)
		}
	}
}

func TestSitesList(t *testing.T) {
	siteUC := &fakeSiteUC{summaries: []usecase.SiteSummary{
		{Identifier: "alpha", SourceURL: "https://alpha.com", Versions: []int{1, 2}},
	}}
	h := newTestServer(&fakeJobUC{}, siteUC, okPinger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sites?limit=5", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Data []siteSummaryResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Identifier != "alpha" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHealth(t *testing.T) {
	h := newTestServer(&fakeJobUC{}, &fakeSiteUC{}, okPinger{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestHealthDegraded(t *testing.T) {
	h := newTestServer(&fakeJobUC{}, &fakeSiteUC{}, okPinger{err: context.DeadlineExceeded})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
