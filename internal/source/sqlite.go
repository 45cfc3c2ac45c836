package source

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/scripturelens/scripturelens/internal/align"
	"github.com/scripturelens/scripturelens/internal/canon"
	"github.com/scripturelens/scripturelens/internal/errors"
)

// requiredTables is the minimal Clear Aligner schema surface we read.
var requiredTables = []string{
	"corpora",
	"words_or_parts",
	"links",
	"links__source_words",
	"links__target_words",
}

// SQLite reads one Clear Aligner project database. All access is read-only;
// the aligner owns the file and may replace it at any time, so each rebuild
// opens a fresh connection against the file as it is.
type SQLite struct {
	db   *sql.DB
	info Info
}

var _ Source = (*SQLite)(nil)

// OpenSQLite opens a project database read-only and validates its schema.
func OpenSQLite(path string) (*SQLite, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.SourceError("database not found: "+path, err)
		}
		return nil, errors.SourceError("cannot stat database: "+path, err)
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, errors.SourceError("cannot open database: "+path, err)
	}
	// One connection is enough for a sequential snapshot load and keeps the
	// read lock footprint minimal.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	for _, pragma := range []string{
		"PRAGMA query_only = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, errors.SourceError("cannot set pragma on "+path, err)
		}
	}

	if err := validateSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLite{
		db: db,
		info: Info{
			ProjectID:   ProjectIDForPath(path),
			Path:        path,
			DataVersion: fmt.Sprintf("%d-%d", stat.ModTime().UnixNano(), stat.Size()),
		},
	}
	s.loadCorpusInfo()
	return s, nil
}

func validateSchema(db *sql.DB) error {
	for _, table := range requiredTables {
		var count int
		err := db.QueryRow(
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`,
			table).Scan(&count)
		if err != nil {
			return errors.SourceError("cannot query schema", err)
		}
		if count == 0 {
			return errors.SchemaError("missing table "+table, nil)
		}
	}
	return nil
}

// loadCorpusInfo fills display name and language from the target corpus.
// Absence is tolerated; the file-derived project id stands in for the name.
func (s *SQLite) loadCorpusInfo() {
	var fullName, name, language sql.NullString
	err := s.db.QueryRow(
		`SELECT full_name, name, language_id FROM corpora WHERE side LIKE 'target%' LIMIT 1`).
		Scan(&fullName, &name, &language)
	if err != nil {
		s.info.Name = s.info.ProjectID
		return
	}
	switch {
	case fullName.Valid && fullName.String != "":
		s.info.Name = fullName.String
	case name.Valid && name.String != "":
		s.info.Name = name.String
	default:
		s.info.Name = s.info.ProjectID
	}
	if language.Valid {
		s.info.Language = language.String
	}
}

// Info returns the source identification read at open time.
func (s *SQLite) Info() Info {
	return s.info
}

// Words loads every word row. Rows with an unknown side are skipped.
func (s *SQLite) Words(ctx context.Context) ([]align.WordRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, side,
		       COALESCE(text, ''), COALESCE(lemma, ''), COALESCE(gloss, ''),
		       COALESCE(required, 0),
		       COALESCE(position_book, 0), COALESCE(position_chapter, 0),
		       COALESCE(position_verse, 0), COALESCE(position_word, 0)
		FROM words_or_parts`)
	if err != nil {
		return nil, errors.SourceError("cannot read words", err)
	}
	defer rows.Close()

	var words []align.WordRecord
	for rows.Next() {
		var (
			w        align.WordRecord
			side     string
			required int
		)
		if err := rows.Scan(&w.ID, &side, &w.Text, &w.Lemma, &w.Gloss,
			&required, &w.Book, &w.Chapter, &w.Verse, &w.Position); err != nil {
			return nil, errors.SourceError("cannot scan word row", err)
		}
		switch {
		case side == "sources":
			w.Side = align.SideSource
		case strings.HasPrefix(side, "target"):
			w.Side = align.SideTarget
		default:
			continue
		}
		w.Required = required != 0
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.SourceError("word read interrupted", err)
	}
	return words, nil
}

// Links loads every link row with its word references from the join tables.
func (s *SQLite) Links(ctx context.Context) ([]align.LinkRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, COALESCE(status, ''), COALESCE(origin, '') FROM links`)
	if err != nil {
		return nil, errors.SourceError("cannot read links", err)
	}
	defer rows.Close()

	var links []align.LinkRecord
	index := make(map[string]int)
	for rows.Next() {
		var l align.LinkRecord
		if err := rows.Scan(&l.ID, &l.Status, &l.Origin); err != nil {
			return nil, errors.SourceError("cannot scan link row", err)
		}
		index[l.ID] = len(links)
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.SourceError("link read interrupted", err)
	}

	if err := s.attachWordRefs(ctx, "links__source_words", links, index, true); err != nil {
		return nil, err
	}
	if err := s.attachWordRefs(ctx, "links__target_words", links, index, false); err != nil {
		return nil, err
	}
	return links, nil
}

func (s *SQLite) attachWordRefs(ctx context.Context, table string, links []align.LinkRecord, index map[string]int, sourceSide bool) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT link_id, word_id FROM "+table)
	if err != nil {
		return errors.SourceError("cannot read "+table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var linkID, wordID string
		if err := rows.Scan(&linkID, &wordID); err != nil {
			return errors.SourceError("cannot scan "+table+" row", err)
		}
		i, ok := index[linkID]
		if !ok {
			// Join row for a deleted link; the snapshot build would only
			// discard it again.
			continue
		}
		if sourceSide {
			links[i].SourceWordIDs = append(links[i].SourceWordIDs, wordID)
		} else {
			links[i].TargetWordIDs = append(links[i].TargetWordIDs, wordID)
		}
	}
	return rows.Err()
}

// KPIs reads whole-project row counts.
func (s *SQLite) KPIs(ctx context.Context) (KPIs, error) {
	var k KPIs
	count := func(dst *int, query string, args ...any) error {
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(dst); err != nil {
			return errors.SourceError("cannot read project counts", err)
		}
		return nil
	}
	if err := count(&k.SourceOT,
		`SELECT COUNT(*) FROM words_or_parts WHERE side = 'sources' AND position_book <= ?`,
		canon.LastOTBook); err != nil {
		return KPIs{}, err
	}
	if err := count(&k.SourceNT,
		`SELECT COUNT(*) FROM words_or_parts WHERE side = 'sources' AND position_book > ?`,
		canon.LastOTBook); err != nil {
		return KPIs{}, err
	}
	if err := count(&k.TargetWords,
		`SELECT COUNT(*) FROM words_or_parts WHERE side LIKE 'target%'`); err != nil {
		return KPIs{}, err
	}
	if err := count(&k.Links, `SELECT COUNT(*) FROM links`); err != nil {
		return KPIs{}, err
	}
	return k, nil
}

// Close releases the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}
