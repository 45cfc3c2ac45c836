package concordance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scripturelens/scripturelens/internal/align"
	"github.com/scripturelens/scripturelens/internal/canon"
	"github.com/scripturelens/scripturelens/internal/errors"
)

func src(id string, book, chapter, verse, pos int, text, lemma, gloss string) align.WordRecord {
	return align.WordRecord{
		ID: id, Side: align.SideSource,
		Book: book, Chapter: chapter, Verse: verse, Position: pos,
		Text: text, Lemma: lemma, Gloss: gloss, Required: true,
	}
}

func tgt(id string, book, chapter, verse, pos int, text string) align.WordRecord {
	return align.WordRecord{
		ID: id, Side: align.SideTarget,
		Book: book, Chapter: chapter, Verse: verse, Position: pos,
		Text: text,
	}
}

func link(id string, sources, targets []string) align.LinkRecord {
	return align.LinkRecord{ID: id, Status: "approved", SourceWordIDs: sources, TargetWordIDs: targets}
}

// fixtureIndex aligns the lemma "λόγος" three times in John 1: twice as
// "word", once as "saying", plus a Hebrew lemma in Genesis for testament
// filtering.
func fixtureIndex(t *testing.T) *Index {
	t.Helper()

	words := []align.WordRecord{
		src("s1", 43, 1, 1, 1, "λόγος", "λόγος", "word"),
		src("s2", 43, 1, 2, 1, "λόγον", "λόγος", "word"),
		src("s3", 43, 1, 3, 1, "λόγῳ", "λόγος", "word"),
		src("s4", 1, 1, 1, 1, "בְּרֵאשִׁית", "רֵאשִׁית", "beginning"),

		tgt("t1", 43, 1, 1, 1, "the"),
		tgt("t2", 43, 1, 1, 2, "word"),
		tgt("t3", 43, 1, 1, 3, "was"),
		tgt("t4", 43, 1, 2, 1, "word"),
		tgt("t5", 43, 1, 3, 1, "saying"),
		tgt("t6", 1, 1, 1, 1, "beginning"),
	}
	links := []align.LinkRecord{
		link("l1", []string{"s1"}, []string{"t2"}),
		link("l2", []string{"s2"}, []string{"t4"}),
		link("l3", []string{"s3"}, []string{"t5"}),
		link("l4", []string{"s4"}, []string{"t6"}),
	}

	snap := align.Build(align.Meta{ProjectID: "test"}, words, links, nil)
	return Build(snap, nil)
}

func TestBuild_RenderingsRankedByFrequency(t *testing.T) {
	idx := fixtureIndex(t)

	entry, ok := idx.Entry("λόγος")
	require.True(t, ok)
	assert.Equal(t, "word", entry.Gloss)
	assert.Equal(t, 3, entry.TotalFrequency)

	require.Len(t, entry.Renderings, 2)
	assert.Equal(t, "word", entry.Renderings[0].Text)
	assert.Equal(t, 2, entry.Renderings[0].Frequency)
	assert.Equal(t, "saying", entry.Renderings[1].Text)
	assert.Equal(t, 1, entry.Renderings[1].Frequency)
}

func TestBuild_FrequencyInvariant(t *testing.T) {
	idx := fixtureIndex(t)

	// Sum of a lemma's rendering frequencies equals the count of links
	// whose source side includes a word with that lemma.
	for _, entry := range idx.Entries(nil) {
		sum := 0
		for _, r := range entry.Renderings {
			sum += r.Frequency
		}
		assert.Equal(t, entry.TotalFrequency, sum, "lemma %s", entry.Lemma)
	}
}

func TestEntries_TestamentFilterIsAView(t *testing.T) {
	idx := fixtureIndex(t)

	all := idx.Entries(nil)
	require.Len(t, all, 2)

	nt := canon.NewTestament
	ntEntries := idx.Entries(&nt)
	require.Len(t, ntEntries, 1)
	assert.Equal(t, "λόγος", ntEntries[0].Lemma)

	ot := canon.OldTestament
	otEntries := idx.Entries(&ot)
	require.Len(t, otEntries, 1)
	assert.Equal(t, "רֵאשִׁית", otEntries[0].Lemma)

	// Filtered views share the same entries; nothing is rebuilt.
	assert.Same(t, all[0], ntEntries[0])
}

func TestContext_KWICWindow(t *testing.T) {
	idx := fixtureIndex(t)

	windows, err := idx.Context("λόγος", "word", 5)
	require.NoError(t, err)
	require.Len(t, windows, 2)

	// John 1:1 yields "the [word] was"
	assert.Equal(t, align.VerseRef{Book: 43, Chapter: 1, Verse: 1}, windows[0].Ref)
	assert.Equal(t, "John 1:1", windows[0].RefText)
	assert.Equal(t, "the", windows[0].Before)
	assert.Equal(t, "word", windows[0].Keyword)
	assert.Equal(t, "was", windows[0].After)

	// John 1:2 is a one-word verse
	assert.Equal(t, "", windows[1].Before)
	assert.Equal(t, "word", windows[1].Keyword)
	assert.Equal(t, "", windows[1].After)
}

func TestContext_AllRenderings(t *testing.T) {
	idx := fixtureIndex(t)

	windows, err := idx.Context("λόγος", "", 3)
	require.NoError(t, err)
	assert.Len(t, windows, 3)

	// Ordered canonically
	assert.Equal(t, 1, windows[0].Ref.Verse)
	assert.Equal(t, 2, windows[1].Ref.Verse)
	assert.Equal(t, 3, windows[2].Ref.Verse)
}

func TestContext_WindowNarrowerThanVerse(t *testing.T) {
	words := []align.WordRecord{
		src("s1", 40, 1, 1, 4, "x", "x", ""),
	}
	for i := 1; i <= 7; i++ {
		words = append(words, tgt(
			string(rune('a'+i-1)), 40, 1, 1, i, string(rune('A'+i-1))))
	}
	links := []align.LinkRecord{link("l1", []string{"s1"}, []string{"d"})}

	snap := align.Build(align.Meta{ProjectID: "test"}, words, links, nil)
	idx := Build(snap, nil)

	windows, err := idx.Context("x", "", 2)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, "B C", windows[0].Before)
	assert.Equal(t, "D", windows[0].Keyword)
	assert.Equal(t, "E F", windows[0].After)
}

func TestContext_NotFound(t *testing.T) {
	idx := fixtureIndex(t)

	_, err := idx.Context("ἀγάπη", "", 5)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	_, err = idx.Context("λόγος", "never-used", 5)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestBuild_MultiWordTargetJoinsPhrase(t *testing.T) {
	words := []align.WordRecord{
		src("s1", 40, 1, 1, 1, "a", "a", ""),
		tgt("t1", 40, 1, 1, 1, "kicked"),
		tgt("t2", 40, 1, 1, 2, "off"),
	}
	links := []align.LinkRecord{link("l1", []string{"s1"}, []string{"t1", "t2"})}

	snap := align.Build(align.Meta{ProjectID: "test"}, words, links, nil)
	idx := Build(snap, nil)

	entry, ok := idx.Entry("a")
	require.True(t, ok)
	require.Len(t, entry.Renderings, 1)
	assert.Equal(t, "kicked off", entry.Renderings[0].Text)
}
