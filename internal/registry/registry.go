// Package registry owns the set of known projects and their published
// snapshots. It is the single entry point external callers use: it discovers
// project databases, builds snapshots with all derived views, publishes them
// by atomic pointer swap, and serves queries against whatever snapshot is
// currently live.
package registry

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/scripturelens/scripturelens/internal/align"
	"github.com/scripturelens/scripturelens/internal/completion"
	"github.com/scripturelens/scripturelens/internal/concordance"
	"github.com/scripturelens/scripturelens/internal/config"
	"github.com/scripturelens/scripturelens/internal/errors"
	"github.com/scripturelens/scripturelens/internal/interlinear"
	"github.com/scripturelens/scripturelens/internal/source"
)

// ProjectSnapshot bundles one fully-built snapshot with its derived views.
// It is immutable after publish; a rebuild produces a whole new value.
type ProjectSnapshot struct {
	Info        source.Info
	Snap        *align.Snapshot
	Concordance *concordance.Index
	Completion  *completion.Report
	KPIs        source.KPIs
	BuiltAt     time.Time
}

// ProjectStatus is the listing view of one registered project.
type ProjectStatus struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	LastBuilt time.Time `json:"last_built,omitzero"`
	// Stale is set when the newest rebuild failed. The previous snapshot,
	// if any, keeps serving queries.
	Stale     bool   `json:"stale"`
	HasData   bool   `json:"has_data"`
	LastError string `json:"last_error,omitempty"`
}

type chapterKey struct {
	snap      *align.Snapshot
	chapter   align.ChapterRef
	direction interlinear.Direction
}

// project is one registered project. The current snapshot is read and
// replaced without locks; the mutable status fields sit behind the mutex.
type project struct {
	id   string
	path string
	name string

	current atomic.Pointer[ProjectSnapshot]

	mu        sync.Mutex
	stale     bool
	lastError string
}

func (p *project) setFailed(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stale = true
	p.lastError = err.Error()
}

func (p *project) setPublished() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stale = false
	p.lastError = ""
}

func (p *project) status() ProjectStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := ProjectStatus{
		ID:        p.id,
		Name:      p.name,
		Stale:     p.stale,
		LastError: p.lastError,
	}
	if ps := p.current.Load(); ps != nil {
		st.Name = ps.Info.Name
		st.LastBuilt = ps.BuiltAt
		st.HasData = true
	}
	return st
}

// Registry is safe for concurrent use. Queries are pure reads over published
// snapshots and never block on rebuilds.
type Registry struct {
	cfg    *config.Config
	logger *slog.Logger

	mu       sync.RWMutex
	projects map[string]*project
	order    []string

	// rebuilds coalesces concurrent rebuild requests per project id.
	rebuilds singleflight.Group

	// chapters caches assembled interlinear chapters across projects. Keys
	// embed the snapshot pointer, so entries from replaced snapshots simply
	// age out.
	chapters *lru.Cache[chapterKey, *interlinear.Chapter]
}

// New creates a registry. Call Open to discover and build projects.
func New(cfg *config.Config, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := lru.New[chapterKey, *interlinear.Chapter](cfg.Query.ChapterCacheSize)
	if err != nil {
		return nil, errors.InternalError("cannot create chapter cache", err)
	}
	return &Registry{
		cfg:      cfg,
		logger:   logger,
		projects: make(map[string]*project),
		chapters: cache,
	}, nil
}

// Open discovers project databases and builds initial snapshots in parallel,
// bounded by the configured parallelism. A project whose first build fails
// stays registered as stale; discovery only fails when the data directory
// itself is unusable.
func (r *Registry) Open(ctx context.Context) error {
	infos, err := source.Discover(r.cfg.Data.Dir, r.logger)
	if err != nil {
		return err
	}

	r.mu.Lock()
	for _, info := range infos {
		r.register(info.ProjectID, info.Path, info.Name)
	}
	for id, override := range r.cfg.Projects {
		if override.Disabled {
			r.unregister(id)
			continue
		}
		if override.Path != "" {
			r.register(id, override.Path, override.Name)
		} else if p, ok := r.projects[id]; ok && override.Name != "" {
			p.name = override.Name
		}
	}
	r.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Rebuild.Parallelism)
	for _, p := range r.snapshotOfProjects() {
		g.Go(func() error {
			if err := r.Rebuild(gctx, p.id); err != nil {
				r.logger.Warn("initial_build_failed",
					slog.String("project", p.id),
					slog.String("error", err.Error()))
			}
			// Build failures mark the project stale instead of failing
			// startup.
			return nil
		})
	}
	return g.Wait()
}

// register must be called with r.mu held.
func (r *Registry) register(id, path, name string) {
	if p, ok := r.projects[id]; ok {
		p.path = path
		if name != "" {
			p.name = name
		}
		return
	}
	if name == "" {
		name = id
	}
	r.projects[id] = &project{id: id, path: path, name: name}
	r.order = append(r.order, id)
}

// unregister must be called with r.mu held.
func (r *Registry) unregister(id string) {
	if _, ok := r.projects[id]; !ok {
		return
	}
	delete(r.projects, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Registry) snapshotOfProjects() []*project {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*project, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.projects[id])
	}
	return out
}

func (r *Registry) project(id string) (*project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, errors.NotFoundError("unknown project: " + id)
	}
	return p, nil
}

// ListProjects returns the status of every registered project in discovery
// order.
func (r *Registry) ListProjects() []ProjectStatus {
	projects := r.snapshotOfProjects()
	out := make([]ProjectStatus, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.status())
	}
	return out
}

// Snapshot returns the live snapshot for a project. A registered project
// that has never built successfully reports not found with its last error
// attached.
func (r *Registry) Snapshot(id string) (*ProjectSnapshot, error) {
	p, err := r.project(id)
	if err != nil {
		return nil, err
	}
	ps := p.current.Load()
	if ps == nil {
		e := errors.NotFoundError("project has no snapshot yet: " + id)
		if st := p.status(); st.LastError != "" {
			e = e.WithDetail("last_error", st.LastError)
		}
		return nil, e
	}
	return ps, nil
}

// Rebuild builds and publishes a fresh snapshot for one project,
// synchronously. Concurrent calls for the same project are coalesced into a
// single build; every caller gets that build's result. On failure the
// previous snapshot stays live and the project is marked stale.
func (r *Registry) Rebuild(ctx context.Context, id string) error {
	p, err := r.project(id)
	if err != nil {
		return err
	}

	_, err, shared := r.rebuilds.Do(id, func() (any, error) {
		ps, err := r.build(ctx, p)
		if err != nil {
			p.setFailed(err)
			return nil, err
		}
		p.current.Store(ps)
		p.setPublished()
		r.logger.Info("snapshot_published",
			slog.String("project", id),
			slog.String("data_version", ps.Info.DataVersion),
			slog.Int("links", ps.Snap.NumLinks()))
		return nil, nil
	})
	if shared {
		r.logger.Debug("rebuild_coalesced", slog.String("project", id))
	}
	return err
}

// Refresh requests an asynchronous rebuild. It reports whether the request
// was accepted; the outcome is observed through the project's stale flag.
func (r *Registry) Refresh(id string) (bool, error) {
	if _, err := r.project(id); err != nil {
		return false, err
	}
	go func() {
		// Detached from the caller; bounded by the rebuild timeout inside.
		if err := r.Rebuild(context.Background(), id); err != nil {
			r.logger.Warn("refresh_failed",
				slog.String("project", id),
				slog.String("error", err.Error()))
		}
	}()
	return true, nil
}

// build loads raw data and constructs a complete ProjectSnapshot without
// touching the published one. The whole build runs under the rebuild
// timeout.
func (r *Registry) build(ctx context.Context, p *project) (*ProjectSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.RebuildTimeout())
	defer cancel()

	src, err := source.OpenSQLite(p.path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	info := src.Info()
	info.ProjectID = p.id
	if override, ok := r.cfg.Projects[p.id]; ok && override.Name != "" {
		info.Name = override.Name
	}

	words, err := src.Words(ctx)
	if err != nil {
		return nil, rebuildErr(ctx, err)
	}
	links, err := src.Links(ctx)
	if err != nil {
		return nil, rebuildErr(ctx, err)
	}
	kpis, err := src.KPIs(ctx)
	if err != nil {
		return nil, rebuildErr(ctx, err)
	}

	meta := align.Meta{
		ProjectID:   p.id,
		ProjectName: info.Name,
		DataVersion: info.DataVersion,
	}
	snap := align.Build(meta, words, links, r.logger)

	// The derived views are independent of each other.
	ps := &ProjectSnapshot{Info: info, Snap: snap, KPIs: kpis, BuiltAt: snap.BuiltAt}
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		ps.Concordance = concordance.Build(snap, r.logger)
		return nil
	})
	g.Go(func() error {
		ps.Completion = completion.Build(snap, r.logger)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, rebuildErr(ctx, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, rebuildErr(ctx, err)
	}
	return ps, nil
}

// rebuildErr maps a failed build to the rebuild taxonomy: a timeout or
// cancellation gets its own code, everything else keeps its cause.
func rebuildErr(ctx context.Context, err error) error {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return errors.New(errors.ErrCodeRebuildTimeout, "rebuild exceeded its deadline", err)
	case context.Canceled:
		return errors.New(errors.ErrCodeRebuildCanceled, "rebuild canceled", err)
	}
	return errors.RebuildError("rebuild failed", err)
}
