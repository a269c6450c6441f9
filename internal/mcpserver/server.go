// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the corpus to assistants via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/docservice"
)

// Server wraps the MCP server with corpus tools.
type Server struct {
	mcp *server.MCPServer
	svc *docservice.Service
}

// New creates a new MCP server with all corpus tools registered.
func New(svc *docservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_skills",
		mcp.WithDescription("List every skill package in the corpus with its name and description."),
	), s.listSkills)

	s.mcp.AddTool(mcp.NewTool("read_skill",
		mcp.WithDescription("Read the full SKILL.md content of a skill package by name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Skill name (e.g. code-review)")),
	), s.readSkill)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read the full content of a corpus document by relative path."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the document (e.g. guides/setup.md)")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("search_corpus",
		mcp.WithDescription("Full-text search through document titles, descriptions, and bodies."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchCorpus)

	s.mcp.AddTool(mcp.NewTool("validate_content",
		mcp.WithDescription("Validate Markdown content against the authoring contract before writing it. "+
			"Read the contract first via the get_authoring_contract tool or the "+
			"ansuz://authoring-contract resource."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown content to validate")),
		mcp.WithString("path", mcp.Description("Path the content is intended for (defaults to SKILL.md)")),
	), s.validateContent)

	s.mcp.AddTool(mcp.NewTool("get_authoring_contract",
		mcp.WithDescription("Returns the canonical authoring contract for documents and skill packages. "+
			"Call this before creating or updating corpus content."),
	), s.getAuthoringContract)

	// Resource: authoring contract.
	s.mcp.AddResource(
		mcp.NewResource("ansuz://authoring-contract", "Authoring Contract",
			mcp.WithResourceDescription("Canonical format that corpus documents and skills must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
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

func (s *Server) listSkills(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	skills, err := s.svc.ListSkills(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(skills) == 0 {
		return mcp.NewToolResultText("no skills found"), nil
	}
	out, _ := json.MarshalIndent(skills, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readSkill(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	_, doc, err := s.svc.GetSkill(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("skill not found: %s", name)), nil
	}
	return mcp.NewToolResultText(doc.Content), nil
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.GetDocument(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(doc.Content), nil
}

func (s *Server) searchCorpus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no results"), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) validateContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path := "SKILL.md"
	if p, err := req.RequireString("path"); err == nil && p != "" {
		path = p
	}

	report := s.svc.ValidateContent(ctx, path, []byte(content))
	if len(report.Findings) == 0 {
		return mcp.NewToolResultText("ok"), nil
	}
	var b strings.Builder
	for _, f := range report.Findings {
		fmt.Fprintf(&b, "%s: [%s] %s\n", f.Severity, f.Rule, f.Message)
	}
	if report.HasErrors() {
		return mcp.NewToolResultError(b.String()), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) getAuthoringContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(AuthoringContract), nil
}

func (s *Server) readContractResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "ansuz://authoring-contract",
			MIMEType: "text/markdown",
			Text:     AuthoringContract,
		},
	}, nil
}
