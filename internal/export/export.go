// Package export writes a project snapshot to the on-disk JSON layout
// consumed by downstream tools: shared source text per book, per-project
// target text and alignment records, and a top-level index manifest.
package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/scripturelens/scripturelens/internal/align"
	"github.com/scripturelens/scripturelens/internal/canon"
	"github.com/scripturelens/scripturelens/internal/errors"
	"github.com/scripturelens/scripturelens/internal/source"
)

// lockFile guards the export directory against concurrent exporters, which
// may run from separate processes.
const lockFile = ".export.lock"

// Index is the top-level manifest. Counts are recorded per project so a
// consumer can validate a partially-synced tree.
type Index struct {
	Sources  map[string]IndexFolder  `json:"sources"`
	Projects map[string]IndexProject `json:"projects"`
}

// IndexFolder points at a shared source-text folder.
type IndexFolder struct {
	Folder string `json:"folder"`
}

// IndexProject records one exported project and its entity counts.
type IndexProject struct {
	Name            string      `json:"name"`
	Language        string      `json:"language,omitempty"`
	DataVersion     string      `json:"dataVersion"`
	TargetFolder    string      `json:"targetFolder"`
	AlignmentFolder string      `json:"alignmentFolder"`
	Stats           IndexStats  `json:"stats"`
	Books           []IndexBook `json:"books"`
}

// IndexStats holds the entity counts used for validation.
type IndexStats struct {
	SourceWords int `json:"sourceWords"`
	TargetWords int `json:"targetWords"`
	Links       int `json:"links"`
	Books       int `json:"books"`
}

// IndexBook summarizes one exported alignment file.
type IndexBook struct {
	Book           int    `json:"book"`
	BookName       string `json:"bookName"`
	AlignmentCount int    `json:"alignmentCount"`
	File           string `json:"file"`
}

type bookFile struct {
	Book     int           `json:"book"`
	BookName string        `json:"bookName"`
	Chapters []chapterNode `json:"chapters"`
}

type chapterNode struct {
	Chapter int         `json:"chapter"`
	Verses  []verseNode `json:"verses"`
}

type verseNode struct {
	Verse int        `json:"verse"`
	Words []wordNode `json:"words"`
}

type wordNode struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Position int    `json:"position"`
	Lemma    string `json:"lemma,omitempty"`
	Gloss    string `json:"gloss,omitempty"`
	Required bool   `json:"required,omitempty"`
}

type alignmentFile struct {
	Book     int               `json:"book"`
	BookName string            `json:"bookName"`
	Records  []alignmentRecord `json:"records"`
}

type alignmentRecord struct {
	ID         string `json:"id"`
	Ref        string `json:"ref"`
	Status     string `json:"status"`
	Origin     string `json:"origin,omitempty"`
	SourceText string `json:"sourceText"`
	TargetText string `json:"targetText"`
	SourceIDs  []string `json:"sourceIds"`
	TargetIDs  []string `json:"targetIds"`
	CrossVerse bool   `json:"crossVerse,omitempty"`
}

// Exporter writes snapshots under one output directory.
type Exporter struct {
	dir    string
	logger *slog.Logger
}

// New creates an exporter targeting dir. The directory is created on first
// export.
func New(dir string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{dir: dir, logger: logger}
}

// Export writes one project's source, target, and alignment trees and
// updates the index manifest. The export directory is locked for the
// duration; a held lock fails fast rather than interleaving two writers.
func (e *Exporter) Export(info source.Info, snap *align.Snapshot) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return errors.New(errors.ErrCodeExportFailed, "cannot create export directory", err)
	}

	lock := flock.New(filepath.Join(e.dir, lockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return errors.New(errors.ErrCodeExportFailed, "cannot acquire export lock", err)
	}
	if !locked {
		return errors.New(errors.ErrCodeExportLocked, "export already in progress for "+e.dir, nil)
	}
	defer func() { _ = lock.Unlock() }()

	if err := e.exportSources(snap); err != nil {
		return err
	}
	if err := e.exportTargets(info.ProjectID, snap); err != nil {
		return err
	}
	books, err := e.exportAlignments(info.ProjectID, snap)
	if err != nil {
		return err
	}
	if err := e.updateIndex(info, snap, books); err != nil {
		return err
	}

	e.logger.Info("project_exported",
		slog.String("project", info.ProjectID),
		slog.String("dir", e.dir),
		slog.Int("books", len(books)))
	return nil
}

// exportSources writes the original-language text, split greek/hebrew by
// testament. The source text is shared across projects; later exports simply
// rewrite the same content.
func (e *Exporter) exportSources(snap *align.Snapshot) error {
	for _, book := range snap.Books() {
		folder := "hebrew"
		if canon.TestamentOf(book) == canon.NewTestament {
			folder = "greek"
		}
		file := e.buildBookFile(snap, book, align.SideSource)
		if len(file.Chapters) == 0 {
			continue
		}
		if err := e.writeJSON(filepath.Join("sources", folder, bookFileName(book)), file); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) exportTargets(projectID string, snap *align.Snapshot) error {
	for _, book := range snap.Books() {
		file := e.buildBookFile(snap, book, align.SideTarget)
		if len(file.Chapters) == 0 {
			continue
		}
		if err := e.writeJSON(filepath.Join("targets", projectID, bookFileName(book)), file); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) buildBookFile(snap *align.Snapshot, book int, side align.Side) bookFile {
	out := bookFile{Book: book, BookName: canon.BookName(book)}
	for _, chapter := range snap.Chapters(book) {
		chap := align.ChapterRef{Book: book, Chapter: chapter}
		words := snap.SourceWords(chap)
		if side == align.SideTarget {
			words = snap.TargetWords(chap)
		}
		if len(words) == 0 {
			continue
		}

		node := chapterNode{Chapter: chapter}
		var verse *verseNode
		for _, w := range words {
			if verse == nil || verse.Verse != w.Ref.Verse {
				node.Verses = append(node.Verses, verseNode{Verse: w.Ref.Verse})
				verse = &node.Verses[len(node.Verses)-1]
			}
			verse.Words = append(verse.Words, wordNode{
				ID:       w.ID,
				Text:     w.Text,
				Position: w.Position,
				Lemma:    w.Lemma,
				Gloss:    w.Gloss,
				Required: w.Required,
			})
		}
		out.Chapters = append(out.Chapters, node)
	}
	return out
}

func (e *Exporter) exportAlignments(projectID string, snap *align.Snapshot) ([]IndexBook, error) {
	var books []IndexBook
	for _, book := range snap.Books() {
		links := snap.LinksForBook(book)
		if len(links) == 0 {
			continue
		}

		file := alignmentFile{Book: book, BookName: canon.BookName(book)}
		for _, link := range links {
			file.Records = append(file.Records, alignmentRecord{
				ID:         link.ID,
				Ref:        link.HomeRef().String(),
				Status:     string(link.Status),
				Origin:     link.Origin,
				SourceText: joinTexts(snap.SourceWordsOf(link)),
				TargetText: joinTexts(snap.TargetWordsOf(link)),
				SourceIDs:  link.SourceIDs,
				TargetIDs:  link.TargetIDs,
				CrossVerse: link.CrossVerse,
			})
		}

		name := bookFileName(book)
		if err := e.writeJSON(filepath.Join("alignments", projectID, name), file); err != nil {
			return nil, err
		}
		books = append(books, IndexBook{
			Book:           book,
			BookName:       canon.BookName(book),
			AlignmentCount: len(file.Records),
			File:           name,
		})
	}
	return books, nil
}

// updateIndex merges this project into index.json, preserving other
// projects' entries.
func (e *Exporter) updateIndex(info source.Info, snap *align.Snapshot, books []IndexBook) error {
	index := Index{
		Sources: map[string]IndexFolder{
			"greek":  {Folder: "sources/greek"},
			"hebrew": {Folder: "sources/hebrew"},
		},
		Projects: make(map[string]IndexProject),
	}
	path := filepath.Join(e.dir, "index.json")
	if data, err := os.ReadFile(path); err == nil {
		// A corrupt index is rebuilt from scratch rather than failing the
		// export.
		_ = json.Unmarshal(data, &index)
		if index.Projects == nil {
			index.Projects = make(map[string]IndexProject)
		}
	}

	index.Projects[info.ProjectID] = IndexProject{
		Name:            info.Name,
		Language:        info.Language,
		DataVersion:     info.DataVersion,
		TargetFolder:    "targets/" + info.ProjectID,
		AlignmentFolder: "alignments/" + info.ProjectID,
		Stats: IndexStats{
			SourceWords: snap.NumSourceWords(),
			TargetWords: snap.NumTargetWords(),
			Links:       snap.NumLinks(),
			Books:       len(snap.Books()),
		},
		Books: books,
	}
	return e.writeJSON("index.json", index)
}

func (e *Exporter) writeJSON(rel string, v any) error {
	path := filepath.Join(e.dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.New(errors.ErrCodeExportFailed, "cannot create "+filepath.Dir(path), err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.New(errors.ErrCodeExportFailed, "cannot encode "+rel, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New(errors.ErrCodeExportFailed, "cannot write "+rel, err)
	}
	return nil
}

func bookFileName(book int) string {
	slug := strings.ToLower(strings.ReplaceAll(canon.BookName(book), " ", "_"))
	return fmt.Sprintf("%02d_%s.json", book, slug)
}

func joinTexts(words []*align.Word) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}
