package registry

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scripturelens/scripturelens/internal/align"
	"github.com/scripturelens/scripturelens/internal/config"
	"github.com/scripturelens/scripturelens/internal/drilldown"
	"github.com/scripturelens/scripturelens/internal/errors"
	"github.com/scripturelens/scripturelens/internal/interlinear"
)

const testSchema = `
CREATE TABLE corpora (id TEXT PRIMARY KEY, name TEXT, full_name TEXT, side TEXT, language_id TEXT);
CREATE TABLE words_or_parts (
	id TEXT PRIMARY KEY, side TEXT, text TEXT, lemma TEXT, gloss TEXT, required INTEGER,
	position_book INTEGER, position_chapter INTEGER, position_verse INTEGER, position_word INTEGER
);
CREATE TABLE links (id TEXT PRIMARY KEY, status TEXT, origin TEXT);
CREATE TABLE links__source_words (link_id TEXT, word_id TEXT);
CREATE TABLE links__target_words (link_id TEXT, word_id TEXT);
`

// writeProjectDB creates a one-verse Clear Aligner database: John 1:1 with
// two approved 1:1 links.
func writeProjectDB(t *testing.T, path, fullName string) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	stmts := []string{
		`INSERT INTO corpora VALUES ('c1', 'tr', '` + strings.ReplaceAll(fullName, "'", "''") + `', 'target', 'eng')`,
		`INSERT INTO words_or_parts VALUES ('source_1', 'sources', 'λόγος', 'λόγος', 'word', 1, 43, 1, 1, 1)`,
		`INSERT INTO words_or_parts VALUES ('source_2', 'sources', 'θεοῦ', 'θεός', 'God', 1, 43, 1, 1, 2)`,
		`INSERT INTO words_or_parts VALUES ('target_1', 'target', 'Word1', NULL, NULL, 0, 43, 1, 1, 1)`,
		`INSERT INTO words_or_parts VALUES ('target_2', 'target', 'God''s', NULL, NULL, 0, 43, 1, 1, 2)`,
		`INSERT INTO links VALUES ('l1', 'approved', 'manual')`,
		`INSERT INTO links VALUES ('l2', 'approved', 'manual')`,
		`INSERT INTO links__source_words VALUES ('l1', 'source_1')`,
		`INSERT INTO links__source_words VALUES ('l2', 'source_2')`,
		`INSERT INTO links__target_words VALUES ('l1', 'target_1')`,
		`INSERT INTO links__target_words VALUES ('l2', 'target_2')`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
}

func openRegistry(t *testing.T, dir string) *Registry {
	t.Helper()

	cfg := config.Default()
	cfg.Data.Dir = dir
	r, err := New(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, r.Open(context.Background()))
	return r
}

func TestOpen_DiscoversAndBuilds(t *testing.T) {
	dir := t.TempDir()
	writeProjectDB(t, filepath.Join(dir, "clear-aligner-YLT.sqlite"), "Young's Literal Translation")
	r := openRegistry(t, dir)

	projects := r.ListProjects()
	require.Len(t, projects, 1)
	assert.Equal(t, "ylt", projects[0].ID)
	assert.Equal(t, "Young's Literal Translation", projects[0].Name)
	assert.True(t, projects[0].HasData)
	assert.False(t, projects[0].Stale)
	assert.False(t, projects[0].LastBuilt.IsZero())

	ps, err := r.Snapshot("ylt")
	require.NoError(t, err)
	assert.Equal(t, 2, ps.Snap.NumLinks())
	assert.Equal(t, 2, ps.KPIs.Links)
}

func TestSnapshot_UnknownProject(t *testing.T) {
	r := openRegistry(t, t.TempDir())

	_, err := r.Snapshot("missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestQueries_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeProjectDB(t, filepath.Join(dir, "clear-aligner-YLT.sqlite"), "YLT")
	r := openRegistry(t, dir)

	// Completion for John 1 reports both approved links at 100%.
	stats, err := r.Completion("ylt", ScopeChapter, nil, 43)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 2, stats[0].Approved)
	assert.Equal(t, 100.0, stats[0].Percent)
	assert.True(t, stats[0].HasData)

	// Concordance reports lemma "λόγος" rendered as "Word1" once.
	entries, err := r.Concordance("ylt", nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	logos, ok := entries[0], true
	if logos.Lemma != "λόγος" {
		logos, ok = entries[1], entries[1].Lemma == "λόγος"
	}
	require.True(t, ok)
	require.Len(t, logos.Renderings, 1)
	assert.Equal(t, "Word1", logos.Renderings[0].Text)
	assert.Equal(t, 1, logos.Renderings[0].Frequency)

	// Interlinear returns one unit per source word.
	chapter, err := r.Interlinear("ylt", 43, 1, interlinear.SourceOrder)
	require.NoError(t, err)
	assert.Equal(t, 2, chapter.NumUnits())

	// The second call is served from cache.
	again, err := r.Interlinear("ylt", 43, 1, interlinear.SourceOrder)
	require.NoError(t, err)
	assert.Same(t, chapter, again)

	// Drilldown with no matches is an empty page, not an error.
	page, err := r.Drilldown("ylt", drilldown.Filter{Book: 40, Status: align.StatusMissing}, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.TotalMatches)
}

func TestRebuild_FailureKeepsOldSnapshotAndMarksStale(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clear-aligner-YLT.sqlite")
	writeProjectDB(t, path, "YLT")
	r := openRegistry(t, dir)

	before, err := r.Snapshot("ylt")
	require.NoError(t, err)

	// Replace the database with garbage and rebuild.
	require.NoError(t, os.WriteFile(path, []byte("not a database"), 0o644))
	err = r.Rebuild(context.Background(), "ylt")
	require.Error(t, err)

	after, err := r.Snapshot("ylt")
	require.NoError(t, err)
	assert.Same(t, before, after)

	projects := r.ListProjects()
	require.Len(t, projects, 1)
	assert.True(t, projects[0].Stale)
	assert.NotEmpty(t, projects[0].LastError)
}

func TestRebuild_PublishesNewSnapshotAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clear-aligner-YLT.sqlite")
	writeProjectDB(t, path, "YLT")
	r := openRegistry(t, dir)

	held, err := r.Snapshot("ylt")
	require.NoError(t, err)

	require.NoError(t, r.Rebuild(context.Background(), "ylt"))

	fresh, err := r.Snapshot("ylt")
	require.NoError(t, err)
	assert.NotSame(t, held, fresh)

	// The held reference stays fully consistent after the swap.
	assert.Equal(t, 2, held.Snap.NumLinks())
	assert.Equal(t, 2, held.Concordance.NumLemmas())
}

func TestRefresh(t *testing.T) {
	dir := t.TempDir()
	writeProjectDB(t, filepath.Join(dir, "clear-aligner-YLT.sqlite"), "YLT")
	r := openRegistry(t, dir)

	accepted, err := r.Refresh("ylt")
	require.NoError(t, err)
	assert.True(t, accepted)

	_, err = r.Refresh("missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestOpen_ProjectOverrides(t *testing.T) {
	dir := t.TempDir()
	writeProjectDB(t, filepath.Join(dir, "clear-aligner-YLT.sqlite"), "YLT")
	writeProjectDB(t, filepath.Join(dir, "clear-aligner-ASV.sqlite"), "ASV")
	extra := filepath.Join(t.TempDir(), "clear-aligner-KJV.sqlite")
	writeProjectDB(t, extra, "KJV")

	cfg := config.Default()
	cfg.Data.Dir = dir
	cfg.Projects = map[string]config.ProjectOverride{
		"asv": {Disabled: true},
		"ylt": {Name: "Young's"},
		"kjv": {Path: extra},
	}
	r, err := New(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, r.Open(context.Background()))

	projects := r.ListProjects()
	require.Len(t, projects, 2)
	ids := []string{projects[0].ID, projects[1].ID}
	assert.ElementsMatch(t, []string{"ylt", "kjv"}, ids)

	ps, err := r.Snapshot("ylt")
	require.NoError(t, err)
	assert.Equal(t, "Young's", ps.Info.Name)
}
