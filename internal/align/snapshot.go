package align

import (
	"log/slog"
	"sort"
	"time"
)

// Meta describes the project a snapshot was built for.
type Meta struct {
	ProjectID   string
	ProjectName string
	DataVersion string
}

// BuildWarnings accumulates the non-fatal data integrity issues found while
// building a snapshot. The build still succeeds; counts are logged and kept
// on the snapshot for inspection.
type BuildWarnings struct {
	// DuplicateWords counts word records that shared a (side, verse,
	// position) key with an earlier record. Last write wins.
	DuplicateWords int
	// OrphanedRefs counts link word references pointing at no known word.
	OrphanedRefs int
	// DiscardedLinks counts links dropped because every reference on both
	// sides was orphaned.
	DiscardedLinks int
	// EmptySideLinks counts kept links left with an empty source or target
	// side despite a non-missing status.
	EmptySideLinks int
	// MultiLinkWords counts words referenced by more than one link. The
	// first link wins for per-word lookup.
	MultiLinkWords int
}

// Total returns the total number of warnings of all kinds.
func (w BuildWarnings) Total() int {
	return w.DuplicateWords + w.OrphanedRefs + w.DiscardedLinks + w.EmptySideLinks + w.MultiLinkWords
}

// Snapshot is one fully-built, immutable instance of a project's normalized
// alignment data. It is built once per (project, data-version) and replaced
// wholesale on refresh; readers never observe a partially-updated model.
type Snapshot struct {
	Meta     Meta
	BuiltAt  time.Time
	Warnings BuildWarnings

	words        map[string]*Word
	sourceByChap map[ChapterRef][]*Word
	targetByChap map[ChapterRef][]*Word

	links        map[string]*Link
	linkBySource map[string]*Link
	linkByTarget map[string]*Link
	linksOrdered []*Link
	linksByChap  map[ChapterRef][]*Link
	linksByBook  map[int][]*Link

	books    []int
	chapters map[int][]int

	numSourceWords int
	numTargetWords int
}

// Build normalizes raw word and link records into a Snapshot.
// Duplicate word keys resolve last-write-wins, orphaned link references are
// discarded, and fully-orphaned links are dropped; all are counted as
// warnings, never fatal.
func Build(meta Meta, words []WordRecord, links []LinkRecord, logger *slog.Logger) *Snapshot {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Snapshot{
		Meta:         meta,
		BuiltAt:      time.Now().UTC(),
		words:        make(map[string]*Word),
		sourceByChap: make(map[ChapterRef][]*Word),
		targetByChap: make(map[ChapterRef][]*Word),
		links:        make(map[string]*Link),
		linkBySource: make(map[string]*Link),
		linkByTarget: make(map[string]*Link),
		linksByChap:  make(map[ChapterRef][]*Link),
		linksByBook:  make(map[int][]*Link),
		chapters:     make(map[int][]int),
	}

	s.buildWords(words)
	s.buildLinks(links)
	s.buildOrdering()

	if s.Warnings.Total() > 0 {
		logger.Warn("snapshot_build_warnings",
			slog.String("project", meta.ProjectID),
			slog.Int("duplicate_words", s.Warnings.DuplicateWords),
			slog.Int("orphaned_refs", s.Warnings.OrphanedRefs),
			slog.Int("discarded_links", s.Warnings.DiscardedLinks),
			slog.Int("empty_side_links", s.Warnings.EmptySideLinks),
			slog.Int("multi_link_words", s.Warnings.MultiLinkWords))
	}
	logger.Info("snapshot_built",
		slog.String("project", meta.ProjectID),
		slog.String("data_version", meta.DataVersion),
		slog.Int("words", len(s.words)),
		slog.Int("links", len(s.links)))

	return s
}

type wordKey struct {
	side     Side
	ref      VerseRef
	position int
}

func (s *Snapshot) buildWords(records []WordRecord) {
	byKey := make(map[wordKey]*Word, len(records))

	for _, r := range records {
		w := &Word{
			ID:       r.ID,
			Side:     r.Side,
			Ref:      VerseRef{Book: r.Book, Chapter: r.Chapter, Verse: r.Verse},
			Position: r.Position,
			Text:     r.Text,
			Lemma:    r.Lemma,
			Gloss:    r.Gloss,
			Required: r.Required,
		}
		key := wordKey{side: w.Side, ref: w.Ref, position: w.Position}
		if prev, ok := byKey[key]; ok {
			// Last write wins; the earlier word is dropped entirely.
			s.Warnings.DuplicateWords++
			delete(s.words, prev.ID)
		}
		byKey[key] = w
		s.words[w.ID] = w
	}

	for _, w := range byKey {
		// A duplicate id may survive only as the key's winning word.
		if s.words[w.ID] != w {
			continue
		}
		chap := w.Ref.ChapterRef()
		if w.Side == SideSource {
			s.sourceByChap[chap] = append(s.sourceByChap[chap], w)
			s.numSourceWords++
		} else {
			s.targetByChap[chap] = append(s.targetByChap[chap], w)
			s.numTargetWords++
		}
	}

	for _, words := range s.sourceByChap {
		sortWords(words)
	}
	for _, words := range s.targetByChap {
		sortWords(words)
	}
}

func sortWords(words []*Word) {
	sort.Slice(words, func(i, j int) bool {
		if words[i].Ref != words[j].Ref {
			return words[i].Ref.Less(words[j].Ref)
		}
		return words[i].Position < words[j].Position
	})
}

func (s *Snapshot) buildLinks(records []LinkRecord) {
	for _, r := range records {
		status, ok := ParseStatus(r.Status)
		if !ok {
			status = StatusNeedsReview
		}

		link := &Link{
			ID:     r.ID,
			Status: status,
			Origin: r.Origin,
		}

		orphans := 0
		link.SourceIDs, orphans = s.resolveSide(r.SourceWordIDs)
		s.Warnings.OrphanedRefs += orphans
		link.TargetIDs, orphans = s.resolveSide(r.TargetWordIDs)
		s.Warnings.OrphanedRefs += orphans

		if len(link.SourceIDs) == 0 && len(link.TargetIDs) == 0 {
			s.Warnings.DiscardedLinks++
			continue
		}
		if (len(link.SourceIDs) == 0 || len(link.TargetIDs) == 0) && status != StatusMissing {
			s.Warnings.EmptySideLinks++
		}

		s.sortSideByPosition(link.SourceIDs)
		s.sortSideByPosition(link.TargetIDs)

		if len(link.SourceIDs) > 0 {
			link.SourceRef = s.words[link.SourceIDs[0]].Ref
		}
		if len(link.TargetIDs) > 0 {
			link.TargetRef = s.words[link.TargetIDs[0]].Ref
		}
		link.CrossVerse = s.spansVerses(link)

		s.links[link.ID] = link
		for _, id := range link.SourceIDs {
			if _, taken := s.linkBySource[id]; taken {
				s.Warnings.MultiLinkWords++
				continue
			}
			s.linkBySource[id] = link
		}
		for _, id := range link.TargetIDs {
			if _, taken := s.linkByTarget[id]; taken {
				s.Warnings.MultiLinkWords++
				continue
			}
			s.linkByTarget[id] = link
		}
	}
}

// resolveSide keeps only word ids that exist in the snapshot, returning the
// kept ids and the number of orphaned references dropped.
func (s *Snapshot) resolveSide(ids []string) ([]string, int) {
	kept := make([]string, 0, len(ids))
	orphans := 0
	for _, id := range ids {
		if _, ok := s.words[id]; ok {
			kept = append(kept, id)
		} else {
			orphans++
		}
	}
	if len(kept) == 0 {
		return nil, orphans
	}
	return kept, orphans
}

func (s *Snapshot) sortSideByPosition(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a, b := s.words[ids[i]], s.words[ids[j]]
		if a.Ref != b.Ref {
			return a.Ref.Less(b.Ref)
		}
		return a.Position < b.Position
	})
}

// spansVerses reports whether the link's words cover more than one distinct
// verse. This covers the source-verse != target-verse case and links whose
// own side spans a verse boundary.
func (s *Snapshot) spansVerses(link *Link) bool {
	var first VerseRef
	seen := false
	for _, ids := range [][]string{link.SourceIDs, link.TargetIDs} {
		for _, id := range ids {
			ref := s.words[id].Ref
			if !seen {
				first = ref
				seen = true
				continue
			}
			if ref != first {
				return true
			}
		}
	}
	return false
}

func (s *Snapshot) buildOrdering() {
	s.linksOrdered = make([]*Link, 0, len(s.links))
	for _, link := range s.links {
		s.linksOrdered = append(s.linksOrdered, link)
	}
	sort.Slice(s.linksOrdered, func(i, j int) bool {
		a, b := s.linksOrdered[i], s.linksOrdered[j]
		ar, br := a.HomeRef(), b.HomeRef()
		if ar != br {
			return ar.Less(br)
		}
		ap, bp := s.firstPosition(a), s.firstPosition(b)
		if ap != bp {
			return ap < bp
		}
		return a.ID < b.ID
	})

	for _, link := range s.linksOrdered {
		home := link.HomeRef()
		chap := home.ChapterRef()
		s.linksByChap[chap] = append(s.linksByChap[chap], link)
		s.linksByBook[home.Book] = append(s.linksByBook[home.Book], link)
	}

	// Chapter inventory is the union of chapters holding words or links.
	chapterSet := make(map[ChapterRef]struct{})
	for chap := range s.sourceByChap {
		chapterSet[chap] = struct{}{}
	}
	for chap := range s.targetByChap {
		chapterSet[chap] = struct{}{}
	}
	for chap := range s.linksByChap {
		chapterSet[chap] = struct{}{}
	}

	bookSet := make(map[int]struct{})
	for chap := range chapterSet {
		bookSet[chap.Book] = struct{}{}
		s.chapters[chap.Book] = append(s.chapters[chap.Book], chap.Chapter)
	}
	for book := range bookSet {
		s.books = append(s.books, book)
		sort.Ints(s.chapters[book])
	}
	sort.Ints(s.books)
}

// firstPosition returns the position of the link's first source word,
// falling back to the first target word for source-empty links.
func (s *Snapshot) firstPosition(link *Link) int {
	if len(link.SourceIDs) > 0 {
		return s.words[link.SourceIDs[0]].Position
	}
	if len(link.TargetIDs) > 0 {
		return s.words[link.TargetIDs[0]].Position
	}
	return 0
}

// WordByID looks up a word by id.
func (s *Snapshot) WordByID(id string) (*Word, bool) {
	w, ok := s.words[id]
	return w, ok
}

// SourceWords returns the chapter's source words ordered by (verse, position).
// The returned slice must not be modified.
func (s *Snapshot) SourceWords(chap ChapterRef) []*Word {
	return s.sourceByChap[chap]
}

// TargetWords returns the chapter's target words ordered by (verse, position).
// The returned slice must not be modified.
func (s *Snapshot) TargetWords(chap ChapterRef) []*Word {
	return s.targetByChap[chap]
}

// LinkForSourceWord returns the link referencing the source word, if any.
func (s *Snapshot) LinkForSourceWord(id string) (*Link, bool) {
	l, ok := s.linkBySource[id]
	return l, ok
}

// LinkForTargetWord returns the link referencing the target word, if any.
func (s *Snapshot) LinkForTargetWord(id string) (*Link, bool) {
	l, ok := s.linkByTarget[id]
	return l, ok
}

// LinkByID looks up a link by id.
func (s *Snapshot) LinkByID(id string) (*Link, bool) {
	l, ok := s.links[id]
	return l, ok
}

// Links returns all links ordered by (book, chapter, verse, first source
// word position). The returned slice must not be modified.
func (s *Snapshot) Links() []*Link {
	return s.linksOrdered
}

// LinksForBook returns the book's links in canonical order.
func (s *Snapshot) LinksForBook(book int) []*Link {
	return s.linksByBook[book]
}

// LinksForChapter returns the chapter's links in canonical order. A link is
// homed in the chapter of its first source word.
func (s *Snapshot) LinksForChapter(chap ChapterRef) []*Link {
	return s.linksByChap[chap]
}

// Books returns the ids of books present in the snapshot, ascending.
func (s *Snapshot) Books() []int {
	return s.books
}

// Chapters returns the chapter numbers present for a book, ascending.
func (s *Snapshot) Chapters(book int) []int {
	return s.chapters[book]
}

// HasChapter reports whether the chapter holds any words or links.
func (s *Snapshot) HasChapter(chap ChapterRef) bool {
	for _, c := range s.chapters[chap.Book] {
		if c == chap.Chapter {
			return true
		}
	}
	return false
}

// SourceWordsOf resolves the link's source word ids to words, in order.
func (s *Snapshot) SourceWordsOf(link *Link) []*Word {
	return s.wordsOf(link.SourceIDs)
}

// TargetWordsOf resolves the link's target word ids to words, in order.
func (s *Snapshot) TargetWordsOf(link *Link) []*Word {
	return s.wordsOf(link.TargetIDs)
}

func (s *Snapshot) wordsOf(ids []string) []*Word {
	if len(ids) == 0 {
		return nil
	}
	words := make([]*Word, 0, len(ids))
	for _, id := range ids {
		words = append(words, s.words[id])
	}
	return words
}

// NumWords returns the total word count.
func (s *Snapshot) NumWords() int { return len(s.words) }

// NumSourceWords returns the source-side word count.
func (s *Snapshot) NumSourceWords() int { return s.numSourceWords }

// NumTargetWords returns the target-side word count.
func (s *Snapshot) NumTargetWords() int { return s.numTargetWords }

// NumLinks returns the link count after normalization.
func (s *Snapshot) NumLinks() int { return len(s.links) }
