package cmd

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

// writeFixtureDir creates a data directory holding one project database with
// a single aligned verse.
func writeFixtureDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	db, err := sql.Open("sqlite", filepath.Join(dir, "clear-aligner-YLT.sqlite"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	stmts := []string{
		`INSERT INTO corpora VALUES ('c1', 'ylt', 'Young''s Literal Translation', 'target', 'eng')`,
		`INSERT INTO words_or_parts VALUES ('source_1', 'sources', 'λόγος', 'λόγος', 'word', 1, 43, 1, 1, 1)`,
		`INSERT INTO words_or_parts VALUES ('target_1', 'target', 'Word', NULL, NULL, 0, 43, 1, 1, 1)`,
		`INSERT INTO links VALUES ('l1', 'approved', 'manual')`,
		`INSERT INTO links__source_words VALUES ('l1', 'source_1')`,
		`INSERT INTO links__target_words VALUES ('l1', 'target_1')`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return dir
}

// runCommand executes the root command with args and returns stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Help(t *testing.T) {
	out, err := runCommand(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "scripturelens")
	assert.Contains(t, out, "serve")
	assert.Contains(t, out, "interlinear")
}

func TestProjectsCmd(t *testing.T) {
	dir := writeFixtureDir(t)

	out, err := runCommand(t, "projects", "--data-dir", dir, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "ylt")
	assert.Contains(t, out, "Young's Literal Translation")
	assert.Contains(t, out, "links: 1")
}

func TestProjectsCmd_JSON(t *testing.T) {
	dir := writeFixtureDir(t)

	out, err := runCommand(t, "projects", "--data-dir", dir, "--json")
	require.NoError(t, err)

	var statuses []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &statuses))
	require.Len(t, statuses, 1)
	assert.Equal(t, "ylt", statuses[0]["id"])
}

func TestCompletionCmd(t *testing.T) {
	dir := writeFixtureDir(t)

	out, err := runCommand(t, "completion",
		"--data-dir", dir, "--no-color",
		"-p", "ylt", "--scope", "chapter", "--book", "43")
	require.NoError(t, err)
	assert.Contains(t, out, "John 1")
	assert.Contains(t, out, "100.0%")
}

func TestConcordanceCmd(t *testing.T) {
	dir := writeFixtureDir(t)

	out, err := runCommand(t, "concordance",
		"--data-dir", dir, "--no-color", "-p", "ylt")
	require.NoError(t, err)
	assert.Contains(t, out, "λόγος")
	assert.Contains(t, out, "Word")
}

func TestInterlinearCmd(t *testing.T) {
	dir := writeFixtureDir(t)

	out, err := runCommand(t, "interlinear",
		"--data-dir", dir, "--no-color",
		"-p", "ylt", "--book", "43", "--chapter", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "John 1:1")
	assert.Contains(t, out, "λόγος")
	assert.Contains(t, out, "approved")
}

func TestDrilldownCmd_Summary(t *testing.T) {
	dir := writeFixtureDir(t)

	out, err := runCommand(t, "drilldown",
		"--data-dir", dir, "--no-color", "-p", "ylt", "--summary")
	require.NoError(t, err)
	assert.Contains(t, out, "total")
	assert.Contains(t, out, "approved")
}

func TestDrilldownCmd_UnknownProject(t *testing.T) {
	dir := writeFixtureDir(t)

	_, err := runCommand(t, "drilldown", "--data-dir", dir, "-p", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown project")
}

func TestExportCmd(t *testing.T) {
	dir := writeFixtureDir(t)
	outDir := filepath.Join(t.TempDir(), "app_data")

	out, err := runCommand(t, "export",
		"--data-dir", dir, "--no-color", "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "exported ylt")
	assert.FileExists(t, filepath.Join(outDir, "index.json"))
}

func TestRefreshCmd(t *testing.T) {
	dir := writeFixtureDir(t)

	out, err := runCommand(t, "refresh", "--data-dir", dir, "--no-color", "-p", "ylt")
	require.NoError(t, err)
	assert.Contains(t, out, "rebuilt ylt")
}
