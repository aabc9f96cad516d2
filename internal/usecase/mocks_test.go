package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jackc/pgx/v4"

	"webforge/internal/domain"
	"webforge/internal/domain/model"
	"webforge/internal/domain/ports/adapter"
	"webforge/internal/domain/ports/repository"
)

// memJobRepo is a small in-memory implementation used by unit tests.
type memJobRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.Job
	saveErr error // used by tests to simulate save failures
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{store: make(map[string]*model.Job)}
}

func (m *memJobRepo) Save(ctx context.Context, tx repository.Tx, job *model.Job) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *job
	m.store[job.ID] = &cp
	return nil
}

func (m *memJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

type memSiteRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.Site // by ID
	saveErr error
}

func newMemSiteRepo() *memSiteRepo {
	return &memSiteRepo{store: make(map[string]*model.Site)}
}

func (m *memSiteRepo) Save(ctx context.Context, tx repository.Tx, site *model.Site) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.store {
		if s.Identifier == site.Identifier && s.ID != site.ID {
			return domain.ErrAlreadyExists
		}
	}
	cp := *site
	m.store[site.ID] = &cp
	return nil
}

func (m *memSiteRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Site, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSiteRepo) FindByIdentifier(ctx context.Context, tx repository.Tx, identifier string) (*model.Site, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.store {
		if s.Identifier == identifier {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memSiteRepo) ExistsByIdentifier(ctx context.Context, tx repository.Tx, identifier string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.store {
		if s.Identifier == identifier {
			return true, nil
		}
	}
	return false, nil
}

func (m *memSiteRepo) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.Site, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Site
	for _, s := range m.store {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type versionKey struct {
	siteID string
	number int
}

type memVersionRepo struct {
	mu      sync.RWMutex
	store   map[versionKey]*model.SiteVersion
	saveErr error
}

func newMemVersionRepo() *memVersionRepo {
	return &memVersionRepo{store: make(map[versionKey]*model.SiteVersion)}
}

func (m *memVersionRepo) Save(ctx context.Context, tx repository.Tx, v *model.SiteVersion) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := versionKey{siteID: v.SiteID, number: v.Number}
	if _, ok := m.store[key]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *v
	m.store[key] = &cp
	return nil
}

func (m *memVersionRepo) FindBySiteAndNumber(ctx context.Context, tx repository.Tx, siteID string, number int) (*model.SiteVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.store[versionKey{siteID: siteID, number: number}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *memVersionRepo) ListNumbers(ctx context.Context, tx repository.Tx, siteID string) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []int
	for key := range m.store {
		if key.siteID == siteID {
			out = append(out, key.number)
		}
	}
	sort.Ints(out)
	return out, nil
}

type memImageRepo struct {
	mu      sync.RWMutex
	store   []*model.ImageMapping
	saveErr error
}

func newMemImageRepo() *memImageRepo { return &memImageRepo{} }

func (m *memImageRepo) Save(ctx context.Context, tx repository.Tx, im *model.ImageMapping) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *im
	m.store = append(m.store, &cp)
	return nil
}

func (m *memImageRepo) ListBySite(ctx context.Context, tx repository.Tx, siteID string) ([]*model.ImageMapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.ImageMapping
	for _, im := range m.store {
		if im.SiteID == siteID {
			cp := *im
			out = append(out, &cp)
		}
	}
	return out, nil
}

// memTxManager runs the function directly; tests do not exercise rollback.
type memTxManager struct{}

func (memTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

type fakeFetcher struct {
	content *model.ContentModel
	err     error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*model.ContentModel, error) {
	if f.err != nil {
		return nil, f.err
	}
	cp := *f.content
	cp.SourceURL = url
	return &cp, nil
}

// fakeGenerator hands out configured briefs and per-brief documents. Safe for
// concurrent use because the coordinator calls it from several goroutines.
type fakeGenerator struct {
	mu        sync.Mutex
	briefs    []string
	planErr   error
	docs      map[string]string // brief -> artifact
	docErrs   map[string]error  // brief -> failure
	planCalls int
	docCalls  int
}

func (f *fakeGenerator) PlanBriefs(ctx context.Context, content *model.ContentModel, n int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.planCalls++
	if f.planErr != nil {
		return nil, f.planErr
	}
	return append([]string(nil), f.briefs...), nil
}

func (f *fakeGenerator) GenerateDocument(ctx context.Context, content *model.ContentModel, brief string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docCalls++
	if err, ok := f.docErrs[brief]; ok {
		return "", err
	}
	if doc, ok := f.docs[brief]; ok {
		return doc, nil
	}
	return "<html><body>" + brief + "</body></html>", nil
}

type fakeRehoster struct {
	mu     sync.Mutex
	hosted map[string]string // original -> rehosted
	errs   map[string]error  // original -> failure
	calls  []string
}

func (f *fakeRehoster) Rehost(ctx context.Context, siteID string, img model.ImageRef) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, img.URL)
	if err, ok := f.errs[img.URL]; ok {
		return "", err
	}
	if hosted, ok := f.hosted[img.URL]; ok {
		return hosted, nil
	}
	return "https://cdn.test/" + img.URL, nil
}

type memStatusCache struct {
	mu    sync.RWMutex
	store map[string]adapter.JobStatusEntry
}

func newMemStatusCache() *memStatusCache {
	return &memStatusCache{store: make(map[string]adapter.JobStatusEntry)}
}

func (m *memStatusCache) Get(jobID string) (adapter.JobStatusEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.store[jobID]
	return e, ok
}

// Store mirrors the production cache contract: stale or terminal-regressing
// snapshots are dropped.
func (m *memStatusCache) Store(entry adapter.JobStatusEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.store[entry.Job.ID]; ok {
		if cur.Job.Terminal() && !entry.Job.Terminal() {
			return
		}
		if cur.Job.UpdatedAt.After(entry.Job.UpdatedAt) {
			return
		}
	}
	m.store[entry.Job.ID] = entry
}

type memArtifactCache struct {
	mu    sync.RWMutex
	store map[string]string
}

func newMemArtifactCache() *memArtifactCache {
	return &memArtifactCache{store: make(map[string]string)}
}

func artifactKey(identifier string, number int) string {
	return fmt.Sprintf("%s#%d", identifier, number)
}

func (m *memArtifactCache) Get(ctx context.Context, identifier string, number int) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.store[artifactKey(identifier, number)]
	return a, ok
}

func (m *memArtifactCache) Store(ctx context.Context, identifier string, number int, artifact string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[artifactKey(identifier, number)] = artifact
}

// syncQueue runs submitted tasks inline so tests stay deterministic.
type syncQueue struct {
	full bool
}

func (q *syncQueue) Submit(task adapter.Task) error {
	if q.full {
		return domain.ErrQueueFull
	}
	return task(context.Background())
}
