// Package interlinear assembles ordered per-verse word stacks for one
// chapter: each word on the walked side paired with the words its alignment
// link maps it to on the other side.
package interlinear

import (
	"sort"

	"github.com/scripturelens/scripturelens/internal/align"
	"github.com/scripturelens/scripturelens/internal/canon"
	"github.com/scripturelens/scripturelens/internal/errors"
)

// Direction selects which side's word order drives the assembly.
type Direction string

const (
	// SourceOrder walks the original-language words in sequence.
	SourceOrder Direction = "source-order"
	// TargetOrder walks the translation words in sequence. This is a
	// re-derivation against the target side, not a reversal of the
	// source-order output.
	TargetOrder Direction = "target-order"
)

// ParseDirection parses a direction string. The forward/reverse aliases are
// accepted alongside the canonical names.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case string(SourceOrder), "forward", "":
		return SourceOrder, true
	case string(TargetOrder), "reverse":
		return TargetOrder, true
	default:
		return "", false
	}
}

// Unit pairs one walked-side word with the other-side words its link maps it
// to. A word with no link is an unaligned stub; no word is ever omitted from
// its own side's sequence.
type Unit struct {
	Word   *align.Word
	Linked []*align.Word

	LinkID string
	Status align.Status
	// Required marks a source word the data flags as obligatory to
	// translate. Unlinked required words carry the missing status.
	Required   bool
	CrossVerse bool
	Unaligned  bool
}

// CrossLink annotates a verse touched by a cross-verse link whose walked-side
// words sit in a different verse, so neither verse loses the connection.
type CrossLink struct {
	LinkID string
	Status align.Status
	// OtherRef is the verse holding the link's walked-side words.
	OtherRef align.VerseRef
}

// VerseStack is one verse's ordered alignment units.
type VerseStack struct {
	Ref        align.VerseRef
	Units      []Unit
	CrossLinks []CrossLink
}

// Chapter is the assembled interlinear view of one chapter.
type Chapter struct {
	Ref       align.ChapterRef
	Direction Direction
	Verses    []VerseStack
}

// NumUnits returns the total unit count across all verses. It equals the
// number of walked-side words in the chapter.
func (c *Chapter) NumUnits() int {
	n := 0
	for _, v := range c.Verses {
		n += len(v.Units)
	}
	return n
}

// Assemble builds the interlinear view for one chapter. It is a pure read
// over the snapshot; every call derives the result afresh.
func Assemble(snap *align.Snapshot, book, chapter int, direction Direction) (*Chapter, error) {
	if !canon.ValidBook(book) {
		return nil, errors.NotFoundError("unknown book id " + canon.BookName(book)).
			WithDetail("book", canon.BookName(book))
	}
	chap := align.ChapterRef{Book: book, Chapter: chapter}
	if !snap.HasChapter(chap) {
		return nil, errors.NotFoundError("no data for " + chap.String())
	}
	if direction != SourceOrder && direction != TargetOrder {
		return nil, errors.InvalidFilterError("direction", "unknown direction: "+string(direction))
	}

	walked := snap.SourceWords(chap)
	if direction == TargetOrder {
		walked = snap.TargetWords(chap)
	}

	a := assembly{
		snap:      snap,
		chap:      chap,
		direction: direction,
		stacks:    make(map[align.VerseRef]*VerseStack),
	}
	for _, w := range walked {
		a.addUnit(w)
	}
	a.annotateCrossLinks()

	return &Chapter{Ref: chap, Direction: direction, Verses: a.ordered()}, nil
}

type assembly struct {
	snap      *align.Snapshot
	chap      align.ChapterRef
	direction Direction

	stacks map[align.VerseRef]*VerseStack
	order  []align.VerseRef
}

func (a *assembly) stack(ref align.VerseRef) *VerseStack {
	if s, ok := a.stacks[ref]; ok {
		return s
	}
	s := &VerseStack{Ref: ref}
	a.stacks[ref] = s
	a.order = append(a.order, ref)
	return s
}

func (a *assembly) addUnit(w *align.Word) {
	unit := Unit{Word: w, Required: w.Required}

	link, ok := a.linkFor(w)
	if !ok {
		unit.Unaligned = true
		if w.Required {
			unit.Status = align.StatusMissing
		}
	} else {
		unit.LinkID = link.ID
		unit.Status = link.Status
		unit.CrossVerse = link.CrossVerse
		if a.direction == SourceOrder {
			unit.Linked = a.snap.TargetWordsOf(link)
		} else {
			unit.Linked = a.snap.SourceWordsOf(link)
			unit.Required = anyRequired(unit.Linked)
		}
		if len(unit.Linked) == 0 {
			unit.Unaligned = true
		}
	}

	a.stack(w.Ref).Units = append(a.stack(w.Ref).Units, unit)
}

func (a *assembly) linkFor(w *align.Word) (*align.Link, bool) {
	if w.Side == align.SideSource {
		return a.snap.LinkForSourceWord(w.ID)
	}
	return a.snap.LinkForTargetWord(w.ID)
}

// annotateCrossLinks attaches a cross-verse link to every in-chapter verse
// that holds some of its words but none of its walked-side words. The link's
// unit lives in the walked-side verse; the annotation keeps the counterpart
// verse aware of the span.
func (a *assembly) annotateCrossLinks() {
	seen := make(map[string]struct{})
	for _, link := range a.chapterLinks() {
		if !link.CrossVerse {
			continue
		}
		if _, dup := seen[link.ID]; dup {
			continue
		}
		seen[link.ID] = struct{}{}

		walkedIDs, otherIDs := link.SourceIDs, link.TargetIDs
		if a.direction == TargetOrder {
			walkedIDs, otherIDs = link.TargetIDs, link.SourceIDs
		}

		walkedVerses := make(map[align.VerseRef]struct{}, len(walkedIDs))
		var home align.VerseRef
		for i, id := range walkedIDs {
			w, _ := a.snap.WordByID(id)
			walkedVerses[w.Ref] = struct{}{}
			if i == 0 {
				home = w.Ref
			}
		}
		if home.IsZero() {
			home = link.HomeRef()
		}

		annotated := make(map[align.VerseRef]struct{})
		for _, id := range otherIDs {
			w, _ := a.snap.WordByID(id)
			ref := w.Ref
			if ref.ChapterRef() != a.chap {
				continue
			}
			if _, own := walkedVerses[ref]; own {
				continue
			}
			if _, done := annotated[ref]; done {
				continue
			}
			annotated[ref] = struct{}{}
			a.stack(ref).CrossLinks = append(a.stack(ref).CrossLinks, CrossLink{
				LinkID:   link.ID,
				Status:   link.Status,
				OtherRef: home,
			})
		}
	}
}

// chapterLinks collects every link touching the chapter through either side's
// words or through its home verse.
func (a *assembly) chapterLinks() []*align.Link {
	var out []*align.Link
	seen := make(map[string]struct{})
	add := func(l *align.Link) {
		if _, dup := seen[l.ID]; dup {
			return
		}
		seen[l.ID] = struct{}{}
		out = append(out, l)
	}

	for _, l := range a.snap.LinksForChapter(a.chap) {
		add(l)
	}
	for _, w := range a.snap.SourceWords(a.chap) {
		if l, ok := a.snap.LinkForSourceWord(w.ID); ok {
			add(l)
		}
	}
	for _, w := range a.snap.TargetWords(a.chap) {
		if l, ok := a.snap.LinkForTargetWord(w.ID); ok {
			add(l)
		}
	}
	return out
}

func (a *assembly) ordered() []VerseStack {
	sort.Slice(a.order, func(i, j int) bool {
		return a.order[i].Less(a.order[j])
	})
	out := make([]VerseStack, 0, len(a.order))
	for _, ref := range a.order {
		out = append(out, *a.stacks[ref])
	}
	return out
}

func anyRequired(words []*align.Word) bool {
	for _, w := range words {
		if w.Required {
			return true
		}
	}
	return false
}
