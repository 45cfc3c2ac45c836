// Package concordance builds the lemma-keyed concordance index: for every
// source lemma, the distinct target renderings it receives, ranked by
// frequency, with verse occurrences and key-word-in-context windows.
package concordance

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/scripturelens/scripturelens/internal/align"
	"github.com/scripturelens/scripturelens/internal/canon"
	"github.com/scripturelens/scripturelens/internal/errors"
)

// DefaultContextWidth is the KWIC window size (words on each side) used when
// the caller does not specify one.
const DefaultContextWidth = 5

// Occurrence is one linked use of a lemma: the verse it happens in and the
// target word the KWIC window centers on.
type Occurrence struct {
	Ref          align.VerseRef
	LinkID       string
	TargetWordID string
}

// Rendering is one distinct target-language phrase a lemma is translated
// with, and the links that produced it.
type Rendering struct {
	Text        string
	Frequency   int
	Occurrences []Occurrence

	// firstSeen is the verse of the rendering's first occurrence, the
	// deterministic tie-break for equal frequencies.
	firstSeen align.VerseRef
	order     int
}

// Entry is the concordance entry for one lemma.
type Entry struct {
	Lemma string
	Gloss string
	// Renderings are ranked by frequency descending, ties broken by
	// first-appearance verse order.
	Renderings []Rendering
	// TotalFrequency is the number of links whose source side includes a
	// word with this lemma; it equals the sum of rendering frequencies.
	TotalFrequency int

	// Books holds the distinct book ids the lemma's occurrences fall in,
	// for testament view filtering.
	books map[int]struct{}

	firstSeen align.VerseRef
}

// VisibleIn reports whether the entry has occurrences in the testament.
func (e *Entry) VisibleIn(t canon.Testament) bool {
	for book := range e.books {
		if t.Contains(book) {
			return true
		}
	}
	return false
}

// Rendering returns the entry's rendering with the given text.
func (e *Entry) Rendering(text string) (*Rendering, bool) {
	for i := range e.Renderings {
		if e.Renderings[i].Text == text {
			return &e.Renderings[i], true
		}
	}
	return nil, false
}

// Index is the concordance over one snapshot. Like the snapshot it is
// immutable once built; testament filtering is a view, not a rebuild.
type Index struct {
	snap    *align.Snapshot
	entries []*Entry
	byLemma map[string]*Entry
}

// KWIC is a key-word-in-context window around one occurrence.
type KWIC struct {
	Ref     align.VerseRef `json:"ref"`
	RefText string         `json:"ref_text"`
	Before  string         `json:"before"`
	Keyword string         `json:"keyword"`
	After   string         `json:"after"`
}

// Build constructs the concordance index from a snapshot. Grouping is by
// lemma identity; a link contributes one occurrence under the joined text of
// its target words, once per distinct lemma on its source side.
func Build(snap *align.Snapshot, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}

	idx := &Index{
		snap:    snap,
		byLemma: make(map[string]*Entry),
	}

	renderOrder := 0
	for _, link := range snap.Links() {
		sources := snap.SourceWordsOf(link)
		targets := snap.TargetWordsOf(link)
		if len(sources) == 0 || len(targets) == 0 {
			continue
		}

		rendering := joinWords(targets)
		occ := Occurrence{
			Ref:          targets[0].Ref,
			LinkID:       link.ID,
			TargetWordID: targets[0].ID,
		}

		for _, lemma := range distinctLemmas(sources) {
			entry := idx.byLemma[lemma.text]
			if entry == nil {
				entry = &Entry{
					Lemma:     lemma.text,
					Gloss:     lemma.gloss,
					books:     make(map[int]struct{}),
					firstSeen: occ.Ref,
				}
				idx.byLemma[lemma.text] = entry
				idx.entries = append(idx.entries, entry)
			}
			if entry.Gloss == "" {
				entry.Gloss = lemma.gloss
			}
			entry.TotalFrequency++
			entry.books[occ.Ref.Book] = struct{}{}

			r, ok := entry.Rendering(rendering)
			if !ok {
				entry.Renderings = append(entry.Renderings, Rendering{
					Text:      rendering,
					firstSeen: occ.Ref,
					order:     renderOrder,
				})
				renderOrder++
				r = &entry.Renderings[len(entry.Renderings)-1]
			}
			r.Frequency++
			r.Occurrences = append(r.Occurrences, occ)
		}
	}

	for _, entry := range idx.entries {
		sortRenderings(entry.Renderings)
	}
	sort.Slice(idx.entries, func(i, j int) bool {
		a, b := idx.entries[i], idx.entries[j]
		if a.TotalFrequency != b.TotalFrequency {
			return a.TotalFrequency > b.TotalFrequency
		}
		if a.firstSeen != b.firstSeen {
			return a.firstSeen.Less(b.firstSeen)
		}
		return a.Lemma < b.Lemma
	})

	logger.Info("concordance_built",
		slog.String("project", snap.Meta.ProjectID),
		slog.Int("lemmas", len(idx.entries)))

	return idx
}

type lemmaKey struct {
	text  string
	gloss string
}

// distinctLemmas returns the distinct non-empty lemmas among the words,
// preserving word order.
func distinctLemmas(words []*align.Word) []lemmaKey {
	seen := make(map[string]struct{}, len(words))
	out := make([]lemmaKey, 0, len(words))
	for _, w := range words {
		if w.Lemma == "" {
			continue
		}
		if _, ok := seen[w.Lemma]; ok {
			continue
		}
		seen[w.Lemma] = struct{}{}
		out = append(out, lemmaKey{text: w.Lemma, gloss: w.Gloss})
	}
	return out
}

func joinWords(words []*align.Word) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}

func sortRenderings(rs []Rendering) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Frequency != rs[j].Frequency {
			return rs[i].Frequency > rs[j].Frequency
		}
		if rs[i].firstSeen != rs[j].firstSeen {
			return rs[i].firstSeen.Less(rs[j].firstSeen)
		}
		return rs[i].order < rs[j].order
	})
}

// Entries returns the concordance entries ranked by total frequency,
// optionally restricted to one testament. Filtering is a view over the
// built index; the index itself is never rebuilt for it.
func (idx *Index) Entries(testament *canon.Testament) []*Entry {
	if testament == nil {
		return idx.entries
	}
	out := make([]*Entry, 0, len(idx.entries))
	for _, e := range idx.entries {
		if e.VisibleIn(*testament) {
			out = append(out, e)
		}
	}
	return out
}

// Entry looks up the entry for a lemma.
func (idx *Index) Entry(lemma string) (*Entry, bool) {
	e, ok := idx.byLemma[lemma]
	return e, ok
}

// Context returns KWIC windows for a lemma's occurrences, optionally
// restricted to one rendering. width is the number of context words on each
// side; zero or negative selects the default. The window is cut from the
// target words of the verse containing each occurrence.
func (idx *Index) Context(lemma, rendering string, width int) ([]KWIC, error) {
	entry, ok := idx.byLemma[lemma]
	if !ok {
		return nil, errors.NotFoundError("unknown lemma: " + lemma)
	}
	if width <= 0 {
		width = DefaultContextWidth
	}

	var occurrences []Occurrence
	if rendering == "" {
		for _, r := range entry.Renderings {
			occurrences = append(occurrences, r.Occurrences...)
		}
	} else {
		r, ok := entry.Rendering(rendering)
		if !ok {
			return nil, errors.NotFoundError("lemma " + lemma + " has no rendering " + rendering)
		}
		occurrences = r.Occurrences
	}

	sort.Slice(occurrences, func(i, j int) bool {
		if occurrences[i].Ref != occurrences[j].Ref {
			return occurrences[i].Ref.Less(occurrences[j].Ref)
		}
		return occurrences[i].LinkID < occurrences[j].LinkID
	})

	windows := make([]KWIC, 0, len(occurrences))
	for _, occ := range occurrences {
		if w, ok := idx.window(occ, width); ok {
			windows = append(windows, w)
		}
	}
	return windows, nil
}

// window cuts the KWIC window for one occurrence out of its verse's target
// words.
func (idx *Index) window(occ Occurrence, width int) (KWIC, bool) {
	chapWords := idx.snap.TargetWords(occ.Ref.ChapterRef())

	verseWords := chapWords[:0:0]
	center := -1
	for _, w := range chapWords {
		if w.Ref != occ.Ref {
			continue
		}
		if w.ID == occ.TargetWordID {
			center = len(verseWords)
		}
		verseWords = append(verseWords, w)
	}
	if center < 0 {
		return KWIC{}, false
	}

	lo := center - width
	if lo < 0 {
		lo = 0
	}
	hi := center + width + 1
	if hi > len(verseWords) {
		hi = len(verseWords)
	}

	return KWIC{
		Ref:     occ.Ref,
		RefText: occ.Ref.String(),
		Before:  joinWords(verseWords[lo:center]),
		Keyword: verseWords[center].Text,
		After:   joinWords(verseWords[center+1 : hi]),
	}, true
}

// NumLemmas returns the number of indexed lemmas.
func (idx *Index) NumLemmas() int {
	return len(idx.entries)
}
