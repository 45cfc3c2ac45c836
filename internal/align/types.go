// Package align holds the in-memory alignment model: words, links, and the
// immutable Snapshot built from a project's raw records. A Snapshot is the
// single source of truth the derived views (concordance, completion,
// interlinear, drilldown) are computed from.
package align

import (
	"github.com/scripturelens/scripturelens/internal/canon"
)

// Side identifies which language side a word belongs to.
type Side string

const (
	// SideSource is the original-language side (Greek/Hebrew).
	SideSource Side = "source"
	// SideTarget is the translation side.
	SideTarget Side = "target"
)

// Status is the review status of an alignment link.
type Status string

const (
	// StatusApproved marks a reviewed and accepted link.
	StatusApproved Status = "approved"
	// StatusCreated marks a link made but not yet reviewed.
	StatusCreated Status = "created"
	// StatusNeedsReview marks a link flagged for review.
	StatusNeedsReview Status = "needsReview"
	// StatusRejected marks a link rejected during review.
	StatusRejected Status = "rejected"
	// StatusMissing is the placeholder for a required word with no link.
	StatusMissing Status = "missing"
)

// ParseStatus parses a wire-form status string. Both the camelCase form used
// by Clear Aligner data and the kebab-case form are accepted.
func ParseStatus(s string) (Status, bool) {
	switch s {
	case "approved":
		return StatusApproved, true
	case "created":
		return StatusCreated, true
	case "needsReview", "needs-review":
		return StatusNeedsReview, true
	case "rejected":
		return StatusRejected, true
	case "missing":
		return StatusMissing, true
	default:
		return "", false
	}
}

// Complete reports whether the status counts toward completion.
func (s Status) Complete() bool {
	return s == StatusApproved || s == StatusCreated
}

// VerseRef identifies a verse by (book, chapter, verse).
type VerseRef struct {
	Book    int `json:"book"`
	Chapter int `json:"chapter"`
	Verse   int `json:"verse"`
}

// String formats the reference like "John 1:1".
func (r VerseRef) String() string {
	return canon.Ref(r.Book, r.Chapter, r.Verse)
}

// ChapterRef returns the chapter the verse belongs to.
func (r VerseRef) ChapterRef() ChapterRef {
	return ChapterRef{Book: r.Book, Chapter: r.Chapter}
}

// Less orders verse references canonically.
func (r VerseRef) Less(o VerseRef) bool {
	if r.Book != o.Book {
		return r.Book < o.Book
	}
	if r.Chapter != o.Chapter {
		return r.Chapter < o.Chapter
	}
	return r.Verse < o.Verse
}

// IsZero reports whether the reference is unset.
func (r VerseRef) IsZero() bool {
	return r == VerseRef{}
}

// ChapterRef identifies a chapter by (book, chapter).
type ChapterRef struct {
	Book    int `json:"book"`
	Chapter int `json:"chapter"`
}

// String formats the reference like "John 1".
func (r ChapterRef) String() string {
	return canon.ChapterRef(r.Book, r.Chapter)
}

// Less orders chapter references canonically.
func (r ChapterRef) Less(o ChapterRef) bool {
	if r.Book != o.Book {
		return r.Book < o.Book
	}
	return r.Chapter < o.Chapter
}

// Word is one token on either side of an alignment.
// The (Side, Ref, Position) triple is unique within a snapshot.
type Word struct {
	ID       string
	Side     Side
	Ref      VerseRef
	Position int
	Text     string

	// Source-side only.
	Lemma    string
	Gloss    string
	Required bool
}

// Link is a recorded correspondence between one-or-more source words and
// one-or-more target words. Word ids are kept sorted by (verse, position)
// after the snapshot build.
type Link struct {
	ID        string
	Status    Status
	Origin    string
	SourceIDs []string
	TargetIDs []string

	// SourceRef is the verse of the first source word; TargetRef the verse
	// of the first target word. Either may be zero when that side is empty.
	SourceRef VerseRef
	TargetRef VerseRef

	// CrossVerse is set when the link's words span more than one verse.
	CrossVerse bool
}

// HomeRef is the verse the link is ordered and counted under: the first
// source word's verse, falling back to the first target word's verse for
// links with an empty source side.
func (l *Link) HomeRef() VerseRef {
	if !l.SourceRef.IsZero() {
		return l.SourceRef
	}
	return l.TargetRef
}

// WordRecord is a raw word row as loaded from a data source, before
// normalization into a Snapshot.
type WordRecord struct {
	ID       string
	Side     Side
	Book     int
	Chapter  int
	Verse    int
	Position int
	Text     string
	Lemma    string
	Gloss    string
	Required bool
}

// LinkRecord is a raw link row as loaded from a data source.
type LinkRecord struct {
	ID            string
	Status        string
	Origin        string
	SourceWordIDs []string
	TargetWordIDs []string
}
