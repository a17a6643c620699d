// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes donefold's aggregation and history tools via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/velikov/donefold/internal/aggservice"
)

// Server wraps the MCP server with donefold tools.
type Server struct {
	mcp *server.MCPServer
	svc *aggservice.Service
}

// New creates a new MCP server with all donefold tools registered.
func New(svc *aggservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Donefold",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("preview_week",
		mcp.WithDescription("Aggregate a weekly report in memory and return the result "+
			"without writing any file."),
		mcp.WithString("report_path", mcp.Required(),
			mcp.Description("Report path relative to the journal root (e.g. \"2024 Week 07.md\")")),
	), s.previewWeek)

	s.mcp.AddTool(mcp.NewTool("aggregate_week",
		mcp.WithDescription("Aggregate a weekly report, write the \"_done\" output file next "+
			"to it, and record the run in the history."),
		mcp.WithString("report_path", mcp.Required(),
			mcp.Description("Report path relative to the journal root")),
	), s.aggregateWeek)

	s.mcp.AddTool(mcp.NewTool("list_week_actions",
		mcp.WithDescription("List the parsed actions stored in the history for a week."),
		mcp.WithNumber("week", mcp.Required(), mcp.Description("Week number")),
	), s.listWeekActions)

	s.mcp.AddTool(mcp.NewTool("search_history",
		mcp.WithDescription("Full-text search through recorded action names and notes."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchHistory)

	s.mcp.AddTool(mcp.NewTool("get_done_format",
		mcp.WithDescription("Returns the Done journal format contract. Call this before "+
			"writing journal entries to ensure the aggregator can parse them."),
	), s.getDoneFormat)

	// Resource: journal format contract.
	s.mcp.AddResource(
		mcp.NewResource("donefold://done-format", "Done Journal Format Contract",
			mcp.WithResourceDescription("The journal dialect the aggregation engine parses."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDoneFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) previewWeek(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("report_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Preview(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(res.Output), nil
}

func (s *Server) aggregateWeek(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("report_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Aggregate(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("aggregated week %d: %d of %d actions matched, output written to %s",
		res.Week, res.Matched, res.Total, res.OutputPath)), nil
}

func (s *Server) listWeekActions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	week, err := req.RequireInt("week")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	actions, err := s.svc.WeekActions(ctx, week)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(actions, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no matches found"), nil
	}
	var lines []string
	for _, r := range results {
		lines = append(lines, fmt.Sprintf("week %02d: %s: %s", r.Week, r.Name, r.Snippet))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getDoneFormat(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DoneFormatContract), nil
}

func (s *Server) readDoneFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "donefold://done-format",
			MIMEType: "text/markdown",
			Text:     DoneFormatContract,
		},
	}, nil
}
