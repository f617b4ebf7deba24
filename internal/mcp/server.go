// Package mcp exposes marketplace search to MCP clients.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"artisanhub/backend/internal/listing"
	"artisanhub/backend/internal/services"
)

type Server struct {
	mcpServer *server.MCPServer
	listings  *services.ListingService
	token     string
}

// NewServer creates the MCP server. Tools call the marketplace with token, a
// service account's bearer token.
func NewServer(listings *services.ListingService, token string) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"artisanhub",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		listings: listings,
		token:    token,
	}

	s.registerTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"search_jobs",
			mcp.WithDescription("Search job listings by text, category, location and price bucket"),
			mcp.WithString("search", mcp.Description("Text matched against title and description")),
			mcp.WithString("category", mcp.Description("Exact category name")),
			mcp.WithString("location", mcp.Description("Part of the city, LGA or state")),
			mcp.WithString("price", mcp.Description("Price bucket: under-5000, 5000-10000, 10000-20000 or above-20000")),
			mcp.WithNumber("page", mcp.Description("1-based page number")),
		),
		s.handleSearchJobs,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"search_artisans",
			mcp.WithDescription("Search artisans by text, category, location and price bucket"),
			mcp.WithString("search", mcp.Description("Text matched against name, skills and bio")),
			mcp.WithString("category", mcp.Description("Exact category name")),
			mcp.WithString("location", mcp.Description("Part of the city, LGA or state")),
			mcp.WithString("price", mcp.Description("Price bucket: under-5000, 5000-10000, 10000-20000 or above-20000")),
			mcp.WithBoolean("verified", mcp.Description("Only verified artisans")),
			mcp.WithNumber("page", mcp.Description("1-based page number")),
		),
		s.handleSearchArtisans,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_categories",
			mcp.WithDescription("List trade categories"),
		),
		s.handleListCategories,
	)
}

// queryFromArgs builds a listing query from tool arguments. Unknown and
// non-string filter values are ignored.
func queryFromArgs(args map[string]interface{}) listing.Query {
	q := listing.Query{Page: 1}
	for _, name := range []string{listing.FilterSearch, listing.FilterCategory, listing.FilterLocation, listing.FilterPrice} {
		if v, ok := args[name].(string); ok && listing.IsActive(v) {
			q.SetFilter(name, v)
		}
	}
	if v, ok := args[listing.FilterVerified].(bool); ok {
		q.SetFilter(listing.FilterVerified, fmt.Sprint(v))
	}
	if page, ok := args["page"].(float64); ok && page >= 1 {
		q.Page = int(page)
	}
	return q
}

func (s *Server) handleSearchJobs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	page, err := s.listings.Jobs(ctx, s.token, queryFromArgs(args))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to search jobs: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(page)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleSearchArtisans(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	page, err := s.listings.Artisans(ctx, s.token, queryFromArgs(args))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to search artisans: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(page)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cats, err := s.listings.Categories(ctx, s.token)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list categories: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(cats)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	// Use SSE server for /mcp/sse and /mcp/message endpoints
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		// Direct POST for tool calls
		if r.Method == http.MethodPost {
			sseServer.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// SSE endpoints
	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}
