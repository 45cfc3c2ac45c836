package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/scripturelens/scripturelens/internal/align"
	"github.com/scripturelens/scripturelens/internal/canon"
	"github.com/scripturelens/scripturelens/internal/completion"
	"github.com/scripturelens/scripturelens/internal/concordance"
	"github.com/scripturelens/scripturelens/internal/config"
	"github.com/scripturelens/scripturelens/internal/drilldown"
	slerrors "github.com/scripturelens/scripturelens/internal/errors"
	"github.com/scripturelens/scripturelens/internal/interlinear"
	"github.com/scripturelens/scripturelens/internal/registry"
	"github.com/scripturelens/scripturelens/internal/wordstudy"
	"github.com/scripturelens/scripturelens/pkg/version"
)

// Server is the MCP server for ScriptureLens. It bridges AI clients with the
// alignment registry and its query engines.
type Server struct {
	mcp      *mcp.Server
	registry *registry.Registry
	study    *wordstudy.Service // nil when word study is disabled
	config   *config.Config
	logger   *slog.Logger
}

// ToolInfo contains information about a registered tool.
type ToolInfo struct {
	Name        string
	Description string
}

// NewServer creates a new MCP server over an opened registry. The word study
// service may be nil; the word_study tool then reports unavailable.
func NewServer(reg *registry.Registry, study *wordstudy.Service, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if reg == nil {
		return nil, slerrors.InternalError("registry is required", nil)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		registry: reg,
		study:    study,
		config:   cfg,
		logger:   logger,
	}

	s.mcp = mcp.NewServer(
		&mcp.Implementation{
			Name:    "ScriptureLens",
			Version: version.Version,
		},
		nil,
	)
	s.registerTools()

	return s, nil
}

// MCPServer returns the underlying MCP server instance.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Info returns the server name and version.
func (s *Server) Info() (name, ver string) {
	return "ScriptureLens", version.Version
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []ToolInfo {
	out := make([]ToolInfo, 0, len(toolDescriptions))
	for _, t := range toolDescriptions {
		out = append(out, t)
	}
	return out
}

var toolDescriptions = []ToolInfo{
	{
		Name:        "list_projects",
		Description: "List the registered alignment projects with build status and corpus statistics. Use this first to discover valid project identifiers.",
	},
	{
		Name:        "get_completion",
		Description: "Alignment completion percentages at testament, book, or chapter scope. Shows how much of a translation has been aligned and reviewed.",
	},
	{
		Name:        "get_concordance",
		Description: "Source-language lemmas ranked by how often they are aligned, with their distinct target renderings. Reveals how a translation renders each original word.",
	},
	{
		Name:        "get_concordance_context",
		Description: "Key-word-in-context windows for one lemma: every aligned occurrence with surrounding target text. Use after get_concordance to examine individual uses.",
	},
	{
		Name:        "get_interlinear",
		Description: "Word-by-word interlinear view of one chapter: each word paired with the words its alignment link maps it to on the other side.",
	},
	{
		Name:        "query_drilldown",
		Description: "Filtered, paginated query over individual alignment links. Filter by testament, book, chapter, status, or a text search.",
	},
	{
		Name:        "refresh_project",
		Description: "Request an asynchronous snapshot rebuild for one project after its database changed. Returns immediately; check list_projects for the outcome.",
	},
	{
		Name:        "word_study",
		Description: "AI-generated word study for a Hebrew or Greek lemma: definition, semantic range, theological significance, and translation tips.",
	},
}

// registerTools registers all tools with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_projects",
		Description: toolDescriptions[0].Description,
	}, s.mcpListProjectsHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_completion",
		Description: toolDescriptions[1].Description,
	}, s.mcpCompletionHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_concordance",
		Description: toolDescriptions[2].Description,
	}, s.mcpConcordanceHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_concordance_context",
		Description: toolDescriptions[3].Description,
	}, s.mcpConcordanceContextHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_interlinear",
		Description: toolDescriptions[4].Description,
	}, s.mcpInterlinearHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "query_drilldown",
		Description: toolDescriptions[5].Description,
	}, s.mcpDrilldownHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "refresh_project",
		Description: toolDescriptions[6].Description,
	}, s.mcpRefreshHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "word_study",
		Description: toolDescriptions[7].Description,
	}, s.mcpWordStudyHandler)

	s.logger.Info("mcp_tools_registered", slog.Int("count", len(toolDescriptions)))
}

// parseTestamentArg parses an optional testament argument.
func parseTestamentArg(arg string) (*canon.Testament, error) {
	if arg == "" {
		return nil, nil
	}
	t, ok := canon.ParseTestament(arg)
	if !ok {
		return nil, NewInvalidParamsError("testament must be OT or NT, got '" + arg + "'")
	}
	return &t, nil
}

func (s *Server) handleListProjects() ListProjectsOutput {
	statuses := s.registry.ListProjects()
	out := ListProjectsOutput{Projects: make([]ProjectOutput, 0, len(statuses))}
	for _, st := range statuses {
		p := ProjectOutput{
			ID:        st.ID,
			Name:      st.Name,
			Stale:     st.Stale,
			HasData:   st.HasData,
			LastError: st.LastError,
		}
		if !st.LastBuilt.IsZero() {
			p.LastBuilt = st.LastBuilt.Format(time.RFC3339)
		}
		if ps, err := s.registry.Snapshot(st.ID); err == nil {
			p.SourceOT = ps.KPIs.SourceOT
			p.SourceNT = ps.KPIs.SourceNT
			p.Target = ps.KPIs.TargetWords
			p.Links = ps.KPIs.Links
		}
		out.Projects = append(out.Projects, p)
	}
	return out
}

func (s *Server) handleCompletion(input CompletionInput) (CompletionOutput, error) {
	if input.Project == "" {
		return CompletionOutput{}, NewInvalidParamsError("project parameter is required")
	}
	scope := registry.CompletionScope(input.Scope)
	if input.Scope == "" {
		scope = registry.ScopeTestament
	}
	testament, err := parseTestamentArg(input.Testament)
	if err != nil {
		return CompletionOutput{}, err
	}

	stats, err := s.registry.Completion(input.Project, scope, testament, input.Book)
	if err != nil {
		return CompletionOutput{}, MapError(err)
	}

	out := CompletionOutput{Stats: make([]CompletionStatOutput, 0, len(stats))}
	for _, st := range stats {
		out.Stats = append(out.Stats, toCompletionStatOutput(st))
	}
	return out, nil
}

func toCompletionStatOutput(st completion.Stat) CompletionStatOutput {
	return CompletionStatOutput{
		Ref:         st.Ref,
		Testament:   string(st.Testament),
		Book:        st.Book,
		Chapter:     st.Chapter,
		Approved:    st.Approved,
		Created:     st.Created,
		NeedsReview: st.NeedsReview,
		Rejected:    st.Rejected,
		Missing:     st.Missing,
		Percent:     st.Percent,
		HasData:     st.HasData,
	}
}

func (s *Server) handleConcordance(input ConcordanceInput) (ConcordanceOutput, error) {
	if input.Project == "" {
		return ConcordanceOutput{}, NewInvalidParamsError("project parameter is required")
	}
	testament, err := parseTestamentArg(input.Testament)
	if err != nil {
		return ConcordanceOutput{}, err
	}

	entries, err := s.registry.Concordance(input.Project, testament)
	if err != nil {
		return ConcordanceOutput{}, MapError(err)
	}
	if input.Limit > 0 && len(entries) > input.Limit {
		entries = entries[:input.Limit]
	}

	out := ConcordanceOutput{Entries: make([]ConcordanceEntryOutput, 0, len(entries))}
	for _, e := range entries {
		out.Entries = append(out.Entries, toConcordanceEntryOutput(e))
	}
	return out, nil
}

func toConcordanceEntryOutput(e *concordance.Entry) ConcordanceEntryOutput {
	eo := ConcordanceEntryOutput{
		Lemma:          e.Lemma,
		Gloss:          e.Gloss,
		TotalFrequency: e.TotalFrequency,
		Renderings:     make([]RenderingOutput, 0, len(e.Renderings)),
	}
	for _, r := range e.Renderings {
		eo.Renderings = append(eo.Renderings, RenderingOutput{
			Text:      r.Text,
			Frequency: r.Frequency,
		})
	}
	return eo
}

func (s *Server) handleConcordanceContext(input ConcordanceContextInput) (ConcordanceContextOutput, error) {
	if input.Project == "" {
		return ConcordanceContextOutput{}, NewInvalidParamsError("project parameter is required")
	}
	if input.Lemma == "" {
		return ConcordanceContextOutput{}, NewInvalidParamsError("lemma parameter is required")
	}

	windows, err := s.registry.ConcordanceContext(input.Project, input.Lemma, input.Rendering, input.Width)
	if err != nil {
		return ConcordanceContextOutput{}, MapError(err)
	}

	out := ConcordanceContextOutput{Windows: make([]KWICOutput, 0, len(windows))}
	for _, w := range windows {
		out.Windows = append(out.Windows, KWICOutput{
			Ref:     w.RefText,
			Before:  w.Before,
			Keyword: w.Keyword,
			After:   w.After,
		})
	}
	return out, nil
}

func (s *Server) handleInterlinear(input InterlinearInput) (InterlinearOutput, error) {
	if input.Project == "" {
		return InterlinearOutput{}, NewInvalidParamsError("project parameter is required")
	}
	direction, ok := interlinear.ParseDirection(input.Direction)
	if !ok {
		return InterlinearOutput{}, NewInvalidParamsError(
			"direction must be source-order or target-order, got '" + input.Direction + "'")
	}

	chapter, err := s.registry.Interlinear(input.Project, input.Book, input.Chapter, direction)
	if err != nil {
		return InterlinearOutput{}, MapError(err)
	}
	return toInterlinearOutput(chapter), nil
}

func toInterlinearOutput(c *interlinear.Chapter) InterlinearOutput {
	out := InterlinearOutput{
		Ref:       c.Ref.String(),
		Direction: string(c.Direction),
		Verses:    make([]VerseOutput, 0, len(c.Verses)),
	}
	for _, v := range c.Verses {
		vo := VerseOutput{
			Ref:   v.Ref.String(),
			Units: make([]UnitOutput, 0, len(v.Units)),
		}
		for _, u := range v.Units {
			uo := UnitOutput{
				Text:       u.Word.Text,
				Lemma:      u.Word.Lemma,
				Gloss:      u.Word.Gloss,
				Status:     string(u.Status),
				Required:   u.Required,
				CrossVerse: u.CrossVerse,
				Unaligned:  u.Unaligned,
			}
			for _, lw := range u.Linked {
				uo.Linked = append(uo.Linked, LinkedWordOutput{
					Text:  lw.Text,
					Lemma: lw.Lemma,
					Gloss: lw.Gloss,
				})
			}
			vo.Units = append(vo.Units, uo)
		}
		for _, cl := range v.CrossLinks {
			vo.CrossLinks = append(vo.CrossLinks, CrossLinkOutput{
				LinkID:   cl.LinkID,
				Status:   string(cl.Status),
				OtherRef: cl.OtherRef.String(),
			})
		}
		out.Verses = append(out.Verses, vo)
	}
	return out
}

func (s *Server) handleDrilldown(input DrilldownInput) (DrilldownOutput, error) {
	if input.Project == "" {
		return DrilldownOutput{}, NewInvalidParamsError("project parameter is required")
	}

	filter := drilldown.Filter{
		Testament: canon.Testament(input.Testament),
		Book:      input.Book,
		Chapter:   input.Chapter,
		Status:    align.Status(input.Status),
		Search:    input.Search,
	}
	page, err := s.registry.Drilldown(input.Project, filter, input.Offset, input.Limit)
	if err != nil {
		return DrilldownOutput{}, MapError(err)
	}

	out := DrilldownOutput{
		Items:        make([]DrilldownItemOutput, 0, len(page.Items)),
		TotalMatches: page.TotalMatches,
		Offset:       page.Offset,
		Limit:        page.Limit,
	}
	for _, item := range page.Items {
		out.Items = append(out.Items, DrilldownItemOutput{
			LinkID:     item.LinkID,
			Ref:        item.RefText,
			Status:     string(item.Status),
			SourceText: item.SourceText,
			TargetText: item.TargetText,
			CrossVerse: item.CrossVerse,
		})
	}
	return out, nil
}

func (s *Server) handleRefresh(input RefreshInput) (RefreshOutput, error) {
	if input.Project == "" {
		return RefreshOutput{}, NewInvalidParamsError("project parameter is required")
	}
	accepted, err := s.registry.Refresh(input.Project)
	if err != nil {
		return RefreshOutput{}, MapError(err)
	}
	s.logger.Info("refresh_requested", slog.String("project", input.Project))
	return RefreshOutput{Accepted: accepted}, nil
}

func (s *Server) handleWordStudy(ctx context.Context, input WordStudyInput) (WordStudyOutput, error) {
	if s.study == nil {
		return WordStudyOutput{}, &MCPError{
			Code:    ErrCodeWordStudyUnavailable,
			Message: "Word study is disabled. Configure word_study.provider to enable it.",
		}
	}
	if input.Lemma == "" {
		return WordStudyOutput{}, NewInvalidParamsError("lemma parameter is required")
	}
	testament := canon.NewTestament
	if input.Testament != "" {
		t, ok := canon.ParseTestament(input.Testament)
		if !ok {
			return WordStudyOutput{}, NewInvalidParamsError("testament must be OT or NT, got '" + input.Testament + "'")
		}
		testament = t
	}

	text, err := s.study.Study(ctx, input.Lemma, testament)
	if err != nil {
		return WordStudyOutput{}, MapError(err)
	}
	return WordStudyOutput{
		Lemma:    input.Lemma,
		Provider: s.study.Provider(),
		Study:    text,
	}, nil
}

func (s *Server) mcpListProjectsHandler(_ context.Context, _ *mcp.CallToolRequest, _ ListProjectsInput) (
	*mcp.CallToolResult, ListProjectsOutput, error,
) {
	return nil, s.handleListProjects(), nil
}

func (s *Server) mcpCompletionHandler(_ context.Context, _ *mcp.CallToolRequest, input CompletionInput) (
	*mcp.CallToolResult, CompletionOutput, error,
) {
	out, err := s.handleCompletion(input)
	return nil, out, err
}

func (s *Server) mcpConcordanceHandler(_ context.Context, _ *mcp.CallToolRequest, input ConcordanceInput) (
	*mcp.CallToolResult, ConcordanceOutput, error,
) {
	out, err := s.handleConcordance(input)
	return nil, out, err
}

func (s *Server) mcpConcordanceContextHandler(_ context.Context, _ *mcp.CallToolRequest, input ConcordanceContextInput) (
	*mcp.CallToolResult, ConcordanceContextOutput, error,
) {
	out, err := s.handleConcordanceContext(input)
	return nil, out, err
}

func (s *Server) mcpInterlinearHandler(_ context.Context, _ *mcp.CallToolRequest, input InterlinearInput) (
	*mcp.CallToolResult, InterlinearOutput, error,
) {
	out, err := s.handleInterlinear(input)
	return nil, out, err
}

func (s *Server) mcpDrilldownHandler(_ context.Context, _ *mcp.CallToolRequest, input DrilldownInput) (
	*mcp.CallToolResult, DrilldownOutput, error,
) {
	out, err := s.handleDrilldown(input)
	return nil, out, err
}

func (s *Server) mcpRefreshHandler(_ context.Context, _ *mcp.CallToolRequest, input RefreshInput) (
	*mcp.CallToolResult, RefreshOutput, error,
) {
	out, err := s.handleRefresh(input)
	return nil, out, err
}

func (s *Server) mcpWordStudyHandler(ctx context.Context, _ *mcp.CallToolRequest, input WordStudyInput) (
	*mcp.CallToolResult, WordStudyOutput, error,
) {
	out, err := s.handleWordStudy(ctx, input)
	return nil, out, err
}

// Serve starts the server with the specified transport.
func (s *Server) Serve(ctx context.Context, transport, addr string) error {
	s.logger.Info("mcp_server_starting",
		slog.String("transport", transport),
		slog.String("addr", addr))

	switch transport {
	case "stdio":
		err := s.mcp.Run(ctx, &mcp.StdioTransport{})
		if err != nil && err != context.Canceled {
			s.logger.Error("mcp_server_stopped", slog.String("error", err.Error()))
			return err
		}
		s.logger.Info("mcp_server_stopped")
		return nil
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio)", transport)
	}
}
