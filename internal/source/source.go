// Package source loads raw alignment data from Clear Aligner project
// databases. The rest of the engine depends only on the Source interface and
// the record types in internal/align, never on the storage engine.
package source

import (
	"context"

	"github.com/scripturelens/scripturelens/internal/align"
)

// Info identifies one project data source.
type Info struct {
	// ProjectID is the stable slug derived from the database file name.
	ProjectID string
	// Name is the display name, taken from the target corpus when present.
	Name string
	// Language is the target corpus language code, when recorded.
	Language string
	// DataVersion changes whenever the underlying file changes; it is the
	// cache key for snapshot rebuilds.
	DataVersion string
	// Path is the database file location.
	Path string
}

// KPIs are whole-project row counts read straight from the store.
type KPIs struct {
	SourceOT    int `json:"source_ot"`
	SourceNT    int `json:"source_nt"`
	TargetWords int `json:"target_words"`
	Links       int `json:"links"`
}

// Source is a read-only cursor over one project's word and link tables.
type Source interface {
	Info() Info
	Words(ctx context.Context) ([]align.WordRecord, error)
	Links(ctx context.Context) ([]align.LinkRecord, error)
	KPIs(ctx context.Context) (KPIs, error)
	Close() error
}
