package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/domain"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/conf"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/logger"
	toolrouter "github.com/zendesk-mcp/zendesk-mcp-go/internal/mcp"
)

const (
	// ServerName is the MCP implementation name
	ServerName = "zendesk-mcp"

	// KnowledgeBaseURI is the knowledge-base resource
	KnowledgeBaseURI = "zendesk://knowledge-base"

	knowledgeBaseNote = "Use the search_kb_articles tool to find specific articles"

	janitorInterval = 5 * time.Minute

	instructions = "Tools for reading and updating Zendesk tickets, searching the Help Center and applying macros."
)

// Version is stamped at build time
var Version = "dev"

// MCPServer exposes the tool router, prompts and knowledge-base resource over MCP
type MCPServer struct {
	server   *mcp.Server
	handler  *toolrouter.Handler
	usecases *biz.Usecases
	prompts  *conf.PromptsConfig
	log      *slog.Logger
}

// NewMCPServer creates a new MCP server and registers everything it serves
func NewMCPServer(uc *biz.Usecases, cfg *conf.Config) *MCPServer {
	prompts := cfg.Prompts
	if prompts == nil {
		prompts = conf.DefaultPromptsConfig()
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: Version,
	}, &mcp.ServerOptions{
		Instructions: instructions,
	})

	s := &MCPServer{
		server:   server,
		handler:  toolrouter.NewHandler(uc, cfg.DefaultLocale),
		usecases: uc,
		prompts:  prompts,
		log:      logger.WithComponent("server"),
	}

	s.registerTools()
	s.registerPrompts()
	s.registerResources()

	return s
}

// registerTools routes every declared tool through the handler
func (s *MCPServer) registerTools() {
	for _, tool := range toolrouter.Tools() {
		name := tool.Name
		s.server.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return s.handler.HandleToolCall(ctx, name, req.Params.Arguments), nil
		})
	}
}

func (s *MCPServer) registerPrompts() {
	for _, name := range []string{conf.PromptAnalyzeTicket, conf.PromptDraftTicketResponse} {
		tmpl, _ := s.prompts.Lookup(name)
		s.server.AddPrompt(&mcp.Prompt{
			Name:        name,
			Description: tmpl.Description,
			Arguments: []*mcp.PromptArgument{
				{Name: "ticket_id", Description: tmpl.ArgumentDescription, Required: true},
			},
		}, s.handlePrompt)
	}
}

func (s *MCPServer) handlePrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	tmpl, ok := s.prompts.Lookup(req.Params.Name)
	if !ok {
		return nil, fmt.Errorf("unknown prompt: %s", req.Params.Name)
	}

	raw := strings.TrimSpace(req.Params.Arguments["ticket_id"])
	ticketID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ticketID <= 0 {
		return nil, domain.NewValidationError("ticket_id", "must be a positive integer")
	}

	title, text := tmpl.Render(ticketID)
	return &mcp.GetPromptResult{
		Description: title,
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}, nil
}

func (s *MCPServer) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         KnowledgeBaseURI,
		Name:        "knowledge_base",
		Description: "Index of all Help Center sections",
		MIMEType:    "application/json",
	}, s.handleKnowledgeBase)
}

type knowledgeBaseMetadata struct {
	TotalSections int              `json:"total_sections"`
	Sections      []domain.Section `json:"sections"`
	Note          string           `json:"note"`
}

func (s *MCPServer) handleKnowledgeBase(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	if uri != KnowledgeBaseURI {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	sections, err := s.usecases.Knowledge.ListSections(ctx)
	if err != nil {
		s.log.Warn("knowledge base resource failed", "error", err)
		return nil, err
	}

	data, err := json.MarshalIndent(map[string]knowledgeBaseMetadata{
		"metadata": {
			TotalSections: len(sections),
			Sections:      sections,
			Note:          knowledgeBaseNote,
		},
	}, "", "  ")
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: uri, MIMEType: "application/json", Text: string(data)},
		},
	}, nil
}

// Run serves MCP over stdio until ctx is done or the client disconnects
func (s *MCPServer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.janitor(ctx, janitorInterval)

	s.log.Info("serving MCP over stdio", "version", Version, "tools", len(toolrouter.Tools()))
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// janitor drops expired knowledge-base cache entries
func (s *MCPServer) janitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := s.usecases.Knowledge.PurgeExpired()
			for _, st := range s.usecases.Knowledge.CacheStats() {
				s.log.Debug("cache stats", "cache", st.Name, "entries", st.Entries, "hits", st.Hits, "misses", st.Misses)
			}
			if removed > 0 {
				s.log.Debug("purged expired cache entries", "count", removed)
			}
		}
	}
}

// Handler returns the tool router
func (s *MCPServer) Handler() *toolrouter.Handler {
	return s.handler
}

// GetServer returns the underlying MCP server
func (s *MCPServer) GetServer() *mcp.Server {
	return s.server
}
