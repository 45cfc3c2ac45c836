// Package drilldown runs filtered, paginated queries over a snapshot's
// flattened link records.
package drilldown

import (
	"strings"

	"github.com/scripturelens/scripturelens/internal/align"
	"github.com/scripturelens/scripturelens/internal/canon"
	"github.com/scripturelens/scripturelens/internal/errors"
)

// DefaultPageSize is used when a query does not specify a limit.
const DefaultPageSize = 50

// Filter narrows the link set. All set fields must match (conjunctive).
// Zero values mean "no constraint".
type Filter struct {
	Testament canon.Testament
	Book      int
	Chapter   int
	Status    align.Status
	// Search is a case-insensitive substring match against the link's
	// combined source and target surface text.
	Search string
}

// Validate checks the filter for structural problems before any matching
// runs. The offending field is named in the returned error.
func (f Filter) Validate() error {
	if f.Chapter != 0 && f.Book == 0 {
		return errors.InvalidFilterError("chapter", "chapter filter requires a book filter")
	}
	if f.Chapter < 0 {
		return errors.InvalidFilterError("chapter", "chapter must be positive")
	}
	if f.Book != 0 && !canon.ValidBook(f.Book) {
		return errors.InvalidFilterError("book", "book id out of range")
	}
	if f.Testament != "" {
		if _, ok := canon.ParseTestament(string(f.Testament)); !ok {
			return errors.InvalidFilterError("testament", "unknown testament: "+string(f.Testament))
		}
	}
	if f.Status != "" {
		if _, ok := align.ParseStatus(string(f.Status)); !ok {
			return errors.InvalidFilterError("status", "unknown status: "+string(f.Status))
		}
	}
	return nil
}

// Item is one flattened link in a query result.
type Item struct {
	LinkID     string         `json:"link_id"`
	Ref        align.VerseRef `json:"ref"`
	RefText    string         `json:"ref_text"`
	Status     align.Status   `json:"status"`
	SourceText string         `json:"source_text"`
	TargetText string         `json:"target_text"`
	CrossVerse bool           `json:"cross_verse,omitempty"`
}

// Page is one page of query results plus the total match count across all
// pages, for pagination UIs.
type Page struct {
	Items        []Item `json:"items"`
	TotalMatches int    `json:"total_matches"`
	Offset       int    `json:"offset"`
	Limit        int    `json:"limit"`
}

// Summary tallies the matching links by status without materializing items.
type Summary struct {
	Total       int `json:"total"`
	Approved    int `json:"approved"`
	Created     int `json:"created"`
	NeedsReview int `json:"needs_review"`
	Rejected    int `json:"rejected"`
	CrossVerse  int `json:"cross_verse"`
}

// Query runs the filter over the snapshot's ordered links and returns the
// requested page. Matching and counting happen in one pass; result order is
// the snapshot's canonical link order, so concatenating consecutive pages
// reproduces the full result set exactly.
func Query(snap *align.Snapshot, filter Filter, offset, limit int) (*Page, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if offset < 0 {
		return nil, errors.InvalidFilterError("offset", "offset must not be negative")
	}
	if limit < 0 {
		return nil, errors.InvalidFilterError("limit", "limit must not be negative")
	}
	if limit == 0 {
		limit = DefaultPageSize
	}

	m := newMatcher(snap, filter)
	page := &Page{Items: []Item{}, Offset: offset, Limit: limit}

	for _, link := range m.scan() {
		source, target, ok := m.match(link)
		if !ok {
			continue
		}
		if page.TotalMatches >= offset && len(page.Items) < limit {
			ref := link.HomeRef()
			page.Items = append(page.Items, Item{
				LinkID:     link.ID,
				Ref:        ref,
				RefText:    ref.String(),
				Status:     link.Status,
				SourceText: source,
				TargetText: target,
				CrossVerse: link.CrossVerse,
			})
		}
		page.TotalMatches++
	}
	return page, nil
}

// Summarize tallies the filter's matches by status in one pass.
func Summarize(snap *align.Snapshot, filter Filter) (*Summary, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	m := newMatcher(snap, filter)
	s := &Summary{}
	for _, link := range m.scan() {
		if _, _, ok := m.match(link); !ok {
			continue
		}
		s.Total++
		switch link.Status {
		case align.StatusApproved:
			s.Approved++
		case align.StatusCreated:
			s.Created++
		case align.StatusRejected:
			s.Rejected++
		default:
			s.NeedsReview++
		}
		if link.CrossVerse {
			s.CrossVerse++
		}
	}
	return s, nil
}

type matcher struct {
	snap   *align.Snapshot
	filter Filter
	search string
}

func newMatcher(snap *align.Snapshot, filter Filter) *matcher {
	if filter.Status != "" {
		// Accept both wire forms; comparisons run on the canonical one.
		if status, ok := align.ParseStatus(string(filter.Status)); ok {
			filter.Status = status
		}
	}
	return &matcher{
		snap:   snap,
		filter: filter,
		search: strings.ToLower(filter.Search),
	}
}

// scan picks the narrowest pre-ordered link view the filter allows.
func (m *matcher) scan() []*align.Link {
	if m.filter.Chapter != 0 {
		return m.snap.LinksForChapter(align.ChapterRef{Book: m.filter.Book, Chapter: m.filter.Chapter})
	}
	if m.filter.Book != 0 {
		return m.snap.LinksForBook(m.filter.Book)
	}
	return m.snap.Links()
}

// match applies the remaining conjunctive constraints and returns the link's
// rendered source and target text on success.
func (m *matcher) match(link *align.Link) (source, target string, ok bool) {
	if m.filter.Testament != "" && !m.filter.Testament.Contains(link.HomeRef().Book) {
		return "", "", false
	}
	if m.filter.Status != "" && link.Status != m.filter.Status {
		return "", "", false
	}

	source = joinTexts(m.snap.SourceWordsOf(link))
	target = joinTexts(m.snap.TargetWordsOf(link))
	if m.search != "" {
		combined := strings.ToLower(source + " " + target)
		if !strings.Contains(combined, m.search) {
			return "", "", false
		}
	}
	return source, target, true
}

func joinTexts(words []*align.Word) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}
