// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes Naudiz note tools for LLM integration via stdio transport.
//
// The MCP surface always acts on behalf of a single configured owner; it is
// meant for the local user's own assistant, not for multi-tenant access.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/naudiz/internal/noteservice"
)

// Server wraps the MCP server with Naudiz tools.
type Server struct {
	mcp   *server.MCPServer
	svc   *noteservice.Service
	owner string
}

// New creates a new MCP server with all Naudiz tools registered.
func New(svc *noteservice.Service, owner string) *Server {
	s := &Server{svc: svc, owner: owner}

	s.mcp = server.NewMCPServer(
		"Naudiz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List active notes, optionally scoped to one folder."),
		mcp.WithString("folder_id", mcp.Description("Optional folder id to list (empty for all active notes)")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a single note by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new note. At least one of title and body must be non-empty."),
		mcp.WithString("title", mcp.Description("Note title")),
		mcp.WithString("body", mcp.Description("Note body text")),
		mcp.WithString("category", mcp.Description("Optional category tag")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Case-insensitive substring search over active note titles and bodies."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("trash_note",
		mcp.WithDescription("Move a note to the trash. Trashed notes are kept for the retention window and can be restored."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.trashNote)

	s.mcp.AddTool(mcp.NewTool("list_folders",
		mcp.WithDescription("List all folders."),
	), s.listFolders)

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

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folderID := req.GetString("folder_id", "")
	var (
		notes any
		err   error
	)
	if folderID != "" {
		notes, err = s.svc.ListFolderNotes(ctx, s.owner, folderID)
	} else {
		notes, err = s.svc.ListActiveNotes(ctx, s.owner)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(notes)
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.GetNote(ctx, s.owner, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return jsonResult(note)
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	note, err := s.svc.CreateNote(ctx, s.owner, noteservice.CreateNoteInput{
		Title:    req.GetString("title", ""),
		Body:     req.GetString("body", ""),
		Category: req.GetString("category", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(note)
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Search(ctx, s.owner, query, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res.Notes)
}

func (s *Server) trashNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.TrashNote(ctx, s.owner, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(note)
}

func (s *Server) listFolders(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folders, err := s.svc.ListFolders(ctx, s.owner)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(folders)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
