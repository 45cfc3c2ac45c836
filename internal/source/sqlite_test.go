package source

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scripturelens/scripturelens/internal/align"
)

const testSchema = `
CREATE TABLE corpora (
	id TEXT PRIMARY KEY,
	name TEXT,
	full_name TEXT,
	side TEXT,
	language_id TEXT
);
CREATE TABLE words_or_parts (
	id TEXT PRIMARY KEY,
	side TEXT,
	text TEXT,
	lemma TEXT,
	gloss TEXT,
	required INTEGER,
	position_book INTEGER,
	position_chapter INTEGER,
	position_verse INTEGER,
	position_word INTEGER
);
CREATE TABLE links (
	id TEXT PRIMARY KEY,
	status TEXT,
	origin TEXT
);
CREATE TABLE links__source_words (
	link_id TEXT,
	word_id TEXT
);
CREATE TABLE links__target_words (
	link_id TEXT,
	word_id TEXT
);
`

// createProjectDB writes a minimal Clear Aligner database for tests.
func createProjectDB(t *testing.T, path string) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	stmts := []string{
		`INSERT INTO corpora VALUES ('c1', 'ylt', 'Young''s Literal Translation', 'target', 'eng')`,
		`INSERT INTO corpora VALUES ('c2', 'sbl', 'SBL Greek New Testament', 'sources', 'grc')`,

		`INSERT INTO words_or_parts VALUES ('source_1', 'sources', 'λόγος', 'λόγος', 'word', 1, 43, 1, 1, 1)`,
		`INSERT INTO words_or_parts VALUES ('source_2', 'sources', 'θεοῦ', 'θεός', 'God', 1, 43, 1, 1, 2)`,
		`INSERT INTO words_or_parts VALUES ('source_3', 'sources', 'בָּרָא', 'ברא', 'create', 1, 1, 1, 1, 1)`,
		`INSERT INTO words_or_parts VALUES ('target_1', 'target', 'Word', NULL, NULL, 0, 43, 1, 1, 1)`,
		`INSERT INTO words_or_parts VALUES ('target_2', 'target', 'God''s', NULL, NULL, 0, 43, 1, 1, 2)`,
		`INSERT INTO words_or_parts VALUES ('weird_1', 'margin', 'x', NULL, NULL, 0, 1, 1, 1, 1)`,

		`INSERT INTO links VALUES ('l1', 'approved', 'manual')`,
		`INSERT INTO links VALUES ('l2', 'created', NULL)`,
		`INSERT INTO links__source_words VALUES ('l1', 'source_1')`,
		`INSERT INTO links__source_words VALUES ('l2', 'source_2')`,
		`INSERT INTO links__source_words VALUES ('gone', 'source_3')`,
		`INSERT INTO links__target_words VALUES ('l1', 'target_1')`,
		`INSERT INTO links__target_words VALUES ('l2', 'target_2')`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
}

func TestOpenSQLite_Info(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clear-aligner-YLT.sqlite")
	createProjectDB(t, path)

	src, err := OpenSQLite(path)
	require.NoError(t, err)
	defer src.Close()

	info := src.Info()
	assert.Equal(t, "ylt", info.ProjectID)
	assert.Equal(t, "Young's Literal Translation", info.Name)
	assert.Equal(t, "eng", info.Language)
	assert.NotEmpty(t, info.DataVersion)
	assert.Equal(t, path, info.Path)
}

func TestSQLite_Words(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clear-aligner-YLT.sqlite")
	createProjectDB(t, path)

	src, err := OpenSQLite(path)
	require.NoError(t, err)
	defer src.Close()

	words, err := src.Words(context.Background())
	require.NoError(t, err)

	// The unknown-side row is skipped.
	require.Len(t, words, 5)

	byID := make(map[string]align.WordRecord)
	for _, w := range words {
		byID[w.ID] = w
	}
	logos := byID["source_1"]
	assert.Equal(t, align.SideSource, logos.Side)
	assert.Equal(t, "λόγος", logos.Lemma)
	assert.Equal(t, "word", logos.Gloss)
	assert.True(t, logos.Required)
	assert.Equal(t, 43, logos.Book)

	target := byID["target_1"]
	assert.Equal(t, align.SideTarget, target.Side)
	assert.Empty(t, target.Lemma)
	assert.False(t, target.Required)
}

func TestSQLite_Links(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clear-aligner-YLT.sqlite")
	createProjectDB(t, path)

	src, err := OpenSQLite(path)
	require.NoError(t, err)
	defer src.Close()

	links, err := src.Links(context.Background())
	require.NoError(t, err)
	require.Len(t, links, 2)

	byID := make(map[string]align.LinkRecord)
	for _, l := range links {
		byID[l.ID] = l
	}
	assert.Equal(t, "approved", byID["l1"].Status)
	assert.Equal(t, "manual", byID["l1"].Origin)
	assert.Equal(t, []string{"source_1"}, byID["l1"].SourceWordIDs)
	assert.Equal(t, []string{"target_1"}, byID["l1"].TargetWordIDs)

	// The join row for the deleted link "gone" is dropped silently.
	assert.Equal(t, []string{"source_2"}, byID["l2"].SourceWordIDs)
}

func TestSQLite_KPIs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clear-aligner-YLT.sqlite")
	createProjectDB(t, path)

	src, err := OpenSQLite(path)
	require.NoError(t, err)
	defer src.Close()

	kpis, err := src.KPIs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, kpis.SourceOT)
	assert.Equal(t, 2, kpis.SourceNT)
	assert.Equal(t, 2, kpis.TargetWords)
	assert.Equal(t, 2, kpis.Links)
}

func TestOpenSQLite_MissingFile(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "nope.sqlite"))
	require.Error(t, err)
}

func TestOpenSQLite_BadSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clear-aligner-bad.sqlite")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE unrelated (id TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = OpenSQLite(path)
	require.Error(t, err)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	createProjectDB(t, filepath.Join(dir, "clear-aligner-YLT.sqlite"))
	createProjectDB(t, filepath.Join(dir, "clear-aligner-ASV.sqlite"))
	// Working copy and stray file are both ignored.
	createProjectDB(t, filepath.Join(dir, "clear-aligner-YLT-updated.sqlite"))
	createProjectDB(t, filepath.Join(dir, "other.sqlite"))

	infos, err := Discover(dir, nil)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "asv", infos[0].ProjectID)
	assert.Equal(t, "ylt", infos[1].ProjectID)
}

func TestDiscover_MissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "absent"), nil)
	require.Error(t, err)
}

func TestProjectIDForPath(t *testing.T) {
	assert.Equal(t, "ylt", ProjectIDForPath("/data/clear-aligner-YLT.sqlite"))
	assert.Equal(t, "ylt", ProjectIDForPath("clear-aligner-YLT-updated.sqlite"))
	assert.Equal(t, "plain", ProjectIDForPath("plain.sqlite"))
}
