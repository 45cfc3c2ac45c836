package mcp

// ListProjectsInput defines the input schema for the list_projects tool (no parameters).
type ListProjectsInput struct{}

// ProjectOutput is one project in the list_projects output.
type ProjectOutput struct {
	ID        string `json:"id" jsonschema:"project identifier derived from the database file name"`
	Name      string `json:"name" jsonschema:"display name of the target translation"`
	LastBuilt string `json:"last_built,omitempty" jsonschema:"RFC3339 time of the last successful snapshot build"`
	Stale     bool   `json:"stale,omitempty" jsonschema:"true when the newest rebuild failed and an older snapshot is serving"`
	HasData   bool   `json:"has_data" jsonschema:"true when a snapshot has been built"`
	LastError string `json:"last_error,omitempty" jsonschema:"error message from the last failed rebuild"`
	SourceOT  int    `json:"source_ot,omitempty" jsonschema:"Hebrew source word count"`
	SourceNT  int    `json:"source_nt,omitempty" jsonschema:"Greek source word count"`
	Target    int    `json:"target_words,omitempty" jsonschema:"target translation word count"`
	Links     int    `json:"links,omitempty" jsonschema:"alignment link count"`
}

// ListProjectsOutput defines the output schema for the list_projects tool.
type ListProjectsOutput struct {
	Projects []ProjectOutput `json:"projects" jsonschema:"registered projects in discovery order"`
}

// CompletionInput defines the input schema for the get_completion tool.
type CompletionInput struct {
	Project   string `json:"project" jsonschema:"project identifier"`
	Scope     string `json:"scope,omitempty" jsonschema:"aggregation level: testament, book, or chapter (default testament)"`
	Testament string `json:"testament,omitempty" jsonschema:"restrict book scope to one testament: OT or NT"`
	Book      int    `json:"book,omitempty" jsonschema:"book id 1-66, required for chapter scope"`
}

// CompletionStatOutput is one completion row.
type CompletionStatOutput struct {
	Ref         string  `json:"ref" jsonschema:"scope label, e.g. Genesis or John 3"`
	Testament   string  `json:"testament,omitempty"`
	Book        int     `json:"book,omitempty"`
	Chapter     int     `json:"chapter,omitempty"`
	Approved    int     `json:"approved"`
	Created     int     `json:"created"`
	NeedsReview int     `json:"needs_review"`
	Rejected    int     `json:"rejected"`
	Missing     int     `json:"missing"`
	Percent     float64 `json:"percent" jsonschema:"completion percentage from 0 to 100"`
	HasData     bool    `json:"has_data"`
}

// CompletionOutput defines the output schema for the get_completion tool.
type CompletionOutput struct {
	Stats []CompletionStatOutput `json:"stats"`
}

// ConcordanceInput defines the input schema for the get_concordance tool.
type ConcordanceInput struct {
	Project   string `json:"project" jsonschema:"project identifier"`
	Testament string `json:"testament,omitempty" jsonschema:"restrict to one testament: OT or NT"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of lemmas to return"`
}

// RenderingOutput is one target rendering of a lemma.
type RenderingOutput struct {
	Text      string `json:"text"`
	Frequency int    `json:"frequency"`
}

// ConcordanceEntryOutput is one lemma entry.
type ConcordanceEntryOutput struct {
	Lemma          string            `json:"lemma"`
	Gloss          string            `json:"gloss,omitempty"`
	TotalFrequency int               `json:"total_frequency"`
	Renderings     []RenderingOutput `json:"renderings" jsonschema:"distinct target renderings ranked by frequency"`
}

// ConcordanceOutput defines the output schema for the get_concordance tool.
type ConcordanceOutput struct {
	Entries []ConcordanceEntryOutput `json:"entries"`
}

// ConcordanceContextInput defines the input schema for the get_concordance_context tool.
type ConcordanceContextInput struct {
	Project   string `json:"project" jsonschema:"project identifier"`
	Lemma     string `json:"lemma" jsonschema:"source-language lemma to show in context"`
	Rendering string `json:"rendering,omitempty" jsonschema:"restrict to one target rendering"`
	Width     int    `json:"width,omitempty" jsonschema:"context words on each side of the keyword"`
}

// KWICOutput is one key-word-in-context window.
type KWICOutput struct {
	Ref     string `json:"ref" jsonschema:"verse reference, e.g. John 1:1"`
	Before  string `json:"before"`
	Keyword string `json:"keyword"`
	After   string `json:"after"`
}

// ConcordanceContextOutput defines the output schema for the get_concordance_context tool.
type ConcordanceContextOutput struct {
	Windows []KWICOutput `json:"windows"`
}

// InterlinearInput defines the input schema for the get_interlinear tool.
type InterlinearInput struct {
	Project   string `json:"project" jsonschema:"project identifier"`
	Book      int    `json:"book" jsonschema:"book id 1-66"`
	Chapter   int    `json:"chapter" jsonschema:"chapter number"`
	Direction string `json:"direction,omitempty" jsonschema:"word order to walk: source-order (default) or target-order"`
}

// LinkedWordOutput is one other-side word a unit maps to.
type LinkedWordOutput struct {
	Text  string `json:"text"`
	Lemma string `json:"lemma,omitempty"`
	Gloss string `json:"gloss,omitempty"`
}

// UnitOutput is one interlinear alignment unit.
type UnitOutput struct {
	Text       string             `json:"text"`
	Lemma      string             `json:"lemma,omitempty"`
	Gloss      string             `json:"gloss,omitempty"`
	Linked     []LinkedWordOutput `json:"linked,omitempty"`
	Status     string             `json:"status,omitempty"`
	Required   bool               `json:"required,omitempty"`
	CrossVerse bool               `json:"cross_verse,omitempty"`
	Unaligned  bool               `json:"unaligned,omitempty"`
}

// VerseOutput is one verse's ordered units.
type VerseOutput struct {
	Ref        string            `json:"ref"`
	Units      []UnitOutput      `json:"units"`
	CrossLinks []CrossLinkOutput `json:"cross_links,omitempty"`
}

// CrossLinkOutput annotates a verse touched by a cross-verse link homed elsewhere.
type CrossLinkOutput struct {
	LinkID   string `json:"link_id"`
	Status   string `json:"status"`
	OtherRef string `json:"other_ref" jsonschema:"verse holding the link's walked-side words"`
}

// InterlinearOutput defines the output schema for the get_interlinear tool.
type InterlinearOutput struct {
	Ref       string        `json:"ref" jsonschema:"chapter reference, e.g. John 1"`
	Direction string        `json:"direction"`
	Verses    []VerseOutput `json:"verses"`
}

// DrilldownInput defines the input schema for the query_drilldown tool.
type DrilldownInput struct {
	Project   string `json:"project" jsonschema:"project identifier"`
	Testament string `json:"testament,omitempty" jsonschema:"filter by testament: OT or NT"`
	Book      int    `json:"book,omitempty" jsonschema:"filter by book id 1-66"`
	Chapter   int    `json:"chapter,omitempty" jsonschema:"filter by chapter, requires book"`
	Status    string `json:"status,omitempty" jsonschema:"filter by link status: approved, created, needsReview, rejected"`
	Search    string `json:"search,omitempty" jsonschema:"case-insensitive substring match over source and target text"`
	Offset    int    `json:"offset,omitempty" jsonschema:"pagination offset"`
	Limit     int    `json:"limit,omitempty" jsonschema:"page size, default 50"`
}

// DrilldownItemOutput is one matching alignment link.
type DrilldownItemOutput struct {
	LinkID     string `json:"link_id"`
	Ref        string `json:"ref"`
	Status     string `json:"status"`
	SourceText string `json:"source_text"`
	TargetText string `json:"target_text"`
	CrossVerse bool   `json:"cross_verse,omitempty"`
}

// DrilldownOutput defines the output schema for the query_drilldown tool.
type DrilldownOutput struct {
	Items        []DrilldownItemOutput `json:"items"`
	TotalMatches int                   `json:"total_matches"`
	Offset       int                   `json:"offset"`
	Limit        int                   `json:"limit"`
}

// RefreshInput defines the input schema for the refresh_project tool.
type RefreshInput struct {
	Project string `json:"project" jsonschema:"project identifier to rebuild"`
}

// RefreshOutput defines the output schema for the refresh_project tool.
type RefreshOutput struct {
	Accepted bool `json:"accepted" jsonschema:"true when the rebuild request was accepted"`
}

// WordStudyInput defines the input schema for the word_study tool.
type WordStudyInput struct {
	Lemma     string `json:"lemma" jsonschema:"source-language lemma to study"`
	Testament string `json:"testament,omitempty" jsonschema:"OT for Hebrew, NT for Greek (default NT)"`
}

// WordStudyOutput defines the output schema for the word_study tool.
type WordStudyOutput struct {
	Lemma    string `json:"lemma"`
	Provider string `json:"provider"`
	Study    string `json:"study" jsonschema:"markdown word study"`
}
