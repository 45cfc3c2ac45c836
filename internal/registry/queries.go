package registry

import (
	"github.com/scripturelens/scripturelens/internal/align"
	"github.com/scripturelens/scripturelens/internal/canon"
	"github.com/scripturelens/scripturelens/internal/completion"
	"github.com/scripturelens/scripturelens/internal/concordance"
	"github.com/scripturelens/scripturelens/internal/drilldown"
	"github.com/scripturelens/scripturelens/internal/errors"
	"github.com/scripturelens/scripturelens/internal/interlinear"
)

// Interlinear assembles (or serves from cache) the interlinear view of one
// chapter. The cache key includes the snapshot identity, so a published
// rebuild naturally invalidates cached chapters.
func (r *Registry) Interlinear(projectID string, book, chapter int, direction interlinear.Direction) (*interlinear.Chapter, error) {
	ps, err := r.Snapshot(projectID)
	if err != nil {
		return nil, err
	}

	key := chapterKey{
		snap:      ps.Snap,
		chapter:   align.ChapterRef{Book: book, Chapter: chapter},
		direction: direction,
	}
	if cached, ok := r.chapters.Get(key); ok {
		return cached, nil
	}

	assembled, err := interlinear.Assemble(ps.Snap, book, chapter, direction)
	if err != nil {
		return nil, err
	}
	r.chapters.Add(key, assembled)
	return assembled, nil
}

// Concordance returns the ranked lemma entries, optionally restricted to one
// testament and capped at the configured maximum.
func (r *Registry) Concordance(projectID string, testament *canon.Testament) ([]*concordance.Entry, error) {
	ps, err := r.Snapshot(projectID)
	if err != nil {
		return nil, err
	}
	entries := ps.Concordance.Entries(testament)
	if max := r.cfg.Query.MaxLemmas; max > 0 && len(entries) > max {
		entries = entries[:max]
	}
	return entries, nil
}

// ConcordanceContext returns KWIC windows for one lemma, optionally narrowed
// to a single rendering. A non-positive width selects the configured default.
func (r *Registry) ConcordanceContext(projectID, lemma, rendering string, width int) ([]concordance.KWIC, error) {
	ps, err := r.Snapshot(projectID)
	if err != nil {
		return nil, err
	}
	if width <= 0 {
		width = r.cfg.Query.ContextWidth
	}
	return ps.Concordance.Context(lemma, rendering, width)
}

// CompletionScope selects the aggregation level of a completion query.
type CompletionScope string

const (
	ScopeTestament CompletionScope = "testament"
	ScopeBook      CompletionScope = "book"
	ScopeChapter   CompletionScope = "chapter"
)

// Completion returns completion stats at the requested scope. Book scope may
// be narrowed by testament; chapter scope requires a book.
func (r *Registry) Completion(projectID string, scope CompletionScope, testament *canon.Testament, book int) ([]completion.Stat, error) {
	ps, err := r.Snapshot(projectID)
	if err != nil {
		return nil, err
	}
	switch scope {
	case ScopeTestament:
		return ps.Completion.Testaments(), nil
	case ScopeBook:
		return ps.Completion.Books(testament), nil
	case ScopeChapter:
		if book == 0 {
			return nil, errors.InvalidFilterError("book", "chapter scope requires a book")
		}
		return ps.Completion.Chapters(book)
	default:
		return nil, errors.InvalidFilterError("scope", "unknown scope: "+string(scope))
	}
}

// Drilldown runs a filtered, paginated link query.
func (r *Registry) Drilldown(projectID string, filter drilldown.Filter, offset, limit int) (*drilldown.Page, error) {
	ps, err := r.Snapshot(projectID)
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = r.cfg.Query.PageSize
	}
	return drilldown.Query(ps.Snap, filter, offset, limit)
}

// Summarize tallies a drilldown filter's matches without paging items.
func (r *Registry) Summarize(projectID string, filter drilldown.Filter) (*drilldown.Summary, error) {
	ps, err := r.Snapshot(projectID)
	if err != nil {
		return nil, err
	}
	return drilldown.Summarize(ps.Snap, filter)
}
