package drilldown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scripturelens/scripturelens/internal/align"
	"github.com/scripturelens/scripturelens/internal/canon"
	"github.com/scripturelens/scripturelens/internal/errors"
)

// fixture builds a snapshot with five links across Genesis 1 and John 1-2.
func fixture(t *testing.T) *align.Snapshot {
	t.Helper()

	mk := func(id string, side align.Side, book, chapter, verse, pos int, text string) align.WordRecord {
		return align.WordRecord{
			ID: id, Side: side,
			Book: book, Chapter: chapter, Verse: verse, Position: pos,
			Text: text, Lemma: text,
		}
	}
	words := []align.WordRecord{
		mk("g1", align.SideSource, 1, 1, 1, 1, "בָּרָא"),
		mk("j1", align.SideSource, 43, 1, 1, 1, "λόγος"),
		mk("j2", align.SideSource, 43, 1, 2, 1, "φῶς"),
		mk("j3", align.SideSource, 43, 2, 1, 1, "οἶνος"),
		mk("j4", align.SideSource, 43, 2, 1, 2, "ὕδωρ"),
		mk("tg1", align.SideTarget, 1, 1, 1, 1, "created"),
		mk("tj1", align.SideTarget, 43, 1, 1, 1, "Word"),
		mk("tj2", align.SideTarget, 43, 1, 2, 1, "light"),
		mk("tj3", align.SideTarget, 43, 2, 1, 1, "wine"),
		mk("tj4", align.SideTarget, 43, 2, 1, 2, "water"),
	}
	link := func(id, status, s, tw string) align.LinkRecord {
		return align.LinkRecord{
			ID: id, Status: status,
			SourceWordIDs: []string{s}, TargetWordIDs: []string{tw},
		}
	}
	links := []align.LinkRecord{
		link("l1", "approved", "g1", "tg1"),
		link("l2", "approved", "j1", "tj1"),
		link("l3", "created", "j2", "tj2"),
		link("l4", "needsReview", "j3", "tj3"),
		link("l5", "rejected", "j4", "tj4"),
	}
	return align.Build(align.Meta{ProjectID: "test"}, words, links, nil)
}

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.LinkID)
	}
	return out
}

func TestQuery_NoFilterReturnsAllInOrder(t *testing.T) {
	snap := fixture(t)

	page, err := Query(snap, Filter{}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, page.TotalMatches)
	assert.Equal(t, []string{"l1", "l2", "l3", "l4", "l5"}, ids(page.Items))
	assert.Equal(t, DefaultPageSize, page.Limit)

	first := page.Items[0]
	assert.Equal(t, "Genesis 1:1", first.RefText)
	assert.Equal(t, "בָּרָא", first.SourceText)
	assert.Equal(t, "created", first.TargetText)
	assert.Equal(t, align.StatusApproved, first.Status)
}

func TestQuery_ConjunctiveFilters(t *testing.T) {
	snap := fixture(t)

	page, err := Query(snap, Filter{Book: 43, Status: align.StatusApproved}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"l2"}, ids(page.Items))

	nt, err := Query(snap, Filter{Testament: canon.NewTestament}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, nt.TotalMatches)

	chap, err := Query(snap, Filter{Book: 43, Chapter: 2}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"l4", "l5"}, ids(chap.Items))
}

func TestQuery_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	snap := fixture(t)

	page, err := Query(snap, Filter{Search: "WORD"}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"l2"}, ids(page.Items))

	page, err = Query(snap, Filter{Search: "λόγ"}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"l2"}, ids(page.Items))

	page, err = Query(snap, Filter{Search: "no such text"}, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalMatches)
}

func TestQuery_PaginationReproducesFullSet(t *testing.T) {
	snap := fixture(t)

	var all []string
	limit := 2
	for offset := 0; ; offset += limit {
		page, err := Query(snap, Filter{}, offset, limit)
		require.NoError(t, err)
		assert.Equal(t, 5, page.TotalMatches)
		all = append(all, ids(page.Items)...)
		if offset+limit >= page.TotalMatches {
			break
		}
	}
	assert.Equal(t, []string{"l1", "l2", "l3", "l4", "l5"}, all)
}

func TestQuery_NoMatchesIsNotAnError(t *testing.T) {
	snap := fixture(t)

	page, err := Query(snap, Filter{Book: 40, Status: align.StatusMissing}, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalMatches)
}

func TestFilter_Validate(t *testing.T) {
	err := Filter{Chapter: 3}.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsInvalidFilter(err))

	err = Filter{Book: 99}.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsInvalidFilter(err))

	err = Filter{Testament: "XT"}.Validate()
	require.Error(t, err)

	err = Filter{Status: "weird"}.Validate()
	require.Error(t, err)

	assert.NoError(t, Filter{Book: 43, Chapter: 3, Status: "needs-review"}.Validate())
}

func TestQuery_KebabCaseStatusAccepted(t *testing.T) {
	snap := fixture(t)

	page, err := Query(snap, Filter{Status: "needs-review"}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"l4"}, ids(page.Items))
}

func TestQuery_BadPaginationRejected(t *testing.T) {
	snap := fixture(t)

	_, err := Query(snap, Filter{}, -1, 0)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidFilter(err))

	_, err = Query(snap, Filter{}, 0, -5)
	require.Error(t, err)
}

func TestSummarize(t *testing.T) {
	snap := fixture(t)

	s, err := Summarize(snap, Filter{Book: 43})
	require.NoError(t, err)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 1, s.Approved)
	assert.Equal(t, 1, s.Created)
	assert.Equal(t, 1, s.NeedsReview)
	assert.Equal(t, 1, s.Rejected)
	assert.Equal(t, 0, s.CrossVerse)
}
