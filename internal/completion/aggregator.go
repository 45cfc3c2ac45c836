// Package completion tallies alignment links by review status and derives
// completion percentages at chapter, book, testament, and project scope.
package completion

import (
	"log/slog"
	"sort"

	"github.com/scripturelens/scripturelens/internal/align"
	"github.com/scripturelens/scripturelens/internal/canon"
	"github.com/scripturelens/scripturelens/internal/errors"
)

// Counts holds per-status link tallies for one scope. Missing counts the
// required source words that no link covers.
type Counts struct {
	Approved    int `json:"approved"`
	Created     int `json:"created"`
	NeedsReview int `json:"needs_review"`
	Rejected    int `json:"rejected"`
	Missing     int `json:"missing"`
}

// Total is the completion denominator for the scope.
func (c Counts) Total() int {
	return c.Approved + c.Created + c.NeedsReview + c.Rejected + c.Missing
}

// Complete is the completion numerator: links in a done state.
func (c Counts) Complete() int {
	return c.Approved + c.Created
}

func (c *Counts) add(o Counts) {
	c.Approved += o.Approved
	c.Created += o.Created
	c.NeedsReview += o.NeedsReview
	c.Rejected += o.Rejected
	c.Missing += o.Missing
}

// Stat is the completion report for one scope. Percent is computed from the
// scope's integer counts in one division; rollups never accumulate
// per-chapter percentages.
type Stat struct {
	Ref       string          `json:"ref"`
	Testament canon.Testament `json:"testament"`
	Book      int             `json:"book,omitempty"`
	Chapter   int             `json:"chapter,omitempty"`
	Counts
	Percent float64 `json:"percent"`
	// HasData distinguishes an empty chapter from a complete one. A scope
	// with no links and no required words reports 0% and HasData false,
	// never 100%.
	HasData bool `json:"has_data"`
}

func makeStat(ref string, testament canon.Testament, book, chapter int, c Counts) Stat {
	s := Stat{
		Ref:       ref,
		Testament: testament,
		Book:      book,
		Chapter:   chapter,
		Counts:    c,
	}
	if total := c.Total(); total > 0 {
		s.HasData = true
		s.Percent = 100 * float64(c.Complete()) / float64(total)
	}
	return s
}

// Report holds the per-chapter tallies for one snapshot. Like every derived
// view it is immutable once built; scope queries aggregate on demand from the
// chapter-level integers.
type Report struct {
	byChapter map[align.ChapterRef]Counts
	books     []int
	chapters  map[int][]int
	project   Counts
}

// Build tallies the snapshot's links and uncovered required words per
// chapter. Each link is counted once, under its home verse's chapter.
func Build(snap *align.Snapshot, logger *slog.Logger) *Report {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Report{
		byChapter: make(map[align.ChapterRef]Counts),
		chapters:  make(map[int][]int),
	}

	for _, link := range snap.Links() {
		chap := link.HomeRef().ChapterRef()
		c := r.byChapter[chap]
		switch link.Status {
		case align.StatusApproved:
			c.Approved++
		case align.StatusCreated:
			c.Created++
		case align.StatusRejected:
			c.Rejected++
		default:
			c.NeedsReview++
		}
		r.byChapter[chap] = c
	}

	// Required source words with no link count as missing in their own
	// chapter. Chapters that only appear through such words still get an
	// entry so they report as incomplete rather than absent.
	for _, book := range snap.Books() {
		for _, chapter := range snap.Chapters(book) {
			chap := align.ChapterRef{Book: book, Chapter: chapter}
			c := r.byChapter[chap]
			for _, w := range snap.SourceWords(chap) {
				if !w.Required {
					continue
				}
				if _, linked := snap.LinkForSourceWord(w.ID); !linked {
					c.Missing++
				}
			}
			r.byChapter[chap] = c

			r.chapters[book] = append(r.chapters[book], chapter)
			r.project.add(c)
		}
		r.books = append(r.books, book)
	}
	sort.Ints(r.books)
	for _, chs := range r.chapters {
		sort.Ints(chs)
	}

	logger.Info("completion_built",
		slog.String("project", snap.Meta.ProjectID),
		slog.Int("chapters", len(r.byChapter)),
		slog.Int("links", r.project.Total()-r.project.Missing))

	return r
}

// Testaments returns one stat per testament present in the snapshot, in
// canonical order.
func (r *Report) Testaments() []Stat {
	out := make([]Stat, 0, 2)
	for _, t := range []canon.Testament{canon.OldTestament, canon.NewTestament} {
		var c Counts
		present := false
		for _, book := range r.books {
			if !t.Contains(book) {
				continue
			}
			present = true
			c.add(r.bookCounts(book))
		}
		if present {
			out = append(out, makeStat(string(t), t, 0, 0, c))
		}
	}
	return out
}

// Books returns one stat per book, optionally restricted to a testament.
func (r *Report) Books(testament *canon.Testament) []Stat {
	out := make([]Stat, 0, len(r.books))
	for _, book := range r.books {
		if testament != nil && !testament.Contains(book) {
			continue
		}
		out = append(out, makeStat(
			canon.BookName(book), canon.TestamentOf(book), book, 0,
			r.bookCounts(book)))
	}
	return out
}

// Chapters returns one stat per chapter of a book present in the snapshot.
func (r *Report) Chapters(book int) ([]Stat, error) {
	chapters, ok := r.chapters[book]
	if !ok {
		return nil, errors.NotFoundError("no data for book " + canon.BookName(book))
	}
	out := make([]Stat, 0, len(chapters))
	for _, chapter := range chapters {
		chap := align.ChapterRef{Book: book, Chapter: chapter}
		out = append(out, makeStat(
			chap.String(), canon.TestamentOf(book), book, chapter,
			r.byChapter[chap]))
	}
	return out, nil
}

// Chapter returns the stat for one chapter.
func (r *Report) Chapter(chap align.ChapterRef) (Stat, error) {
	c, ok := r.byChapter[chap]
	if !ok {
		return Stat{}, errors.NotFoundError("no data for " + chap.String())
	}
	return makeStat(
		chap.String(), canon.TestamentOf(chap.Book), chap.Book, chap.Chapter, c), nil
}

// Project returns the whole-project rollup.
func (r *Report) Project(projectName string) Stat {
	return makeStat(projectName, "", 0, 0, r.project)
}

func (r *Report) bookCounts(book int) Counts {
	var c Counts
	for _, chapter := range r.chapters[book] {
		c.add(r.byChapter[align.ChapterRef{Book: book, Chapter: chapter}])
	}
	return c
}
