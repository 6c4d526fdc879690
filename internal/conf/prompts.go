package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zendesk-mcp/zendesk-mcp-go/internal/logger"
)

// Prompt names exposed over MCP
const (
	PromptAnalyzeTicket       = "analyze-ticket"
	PromptDraftTicketResponse = "draft-ticket-response"
)

// PromptsConfig contains all prompt templates loaded from YAML
type PromptsConfig struct {
	AnalyzeTicket       PromptTemplate `yaml:"analyze_ticket"`
	DraftTicketResponse PromptTemplate `yaml:"draft_ticket_response"`
}

// PromptTemplate is one prompt. Template and Title may use {{ticket_id}}.
type PromptTemplate struct {
	Description         string `yaml:"description"`
	ArgumentDescription string `yaml:"argument_description"`
	Title               string `yaml:"title"`
	Template            string `yaml:"template"`
}

// LoadPromptsConfig loads prompts configuration from YAML file
func LoadPromptsConfig(configPath string) (*PromptsConfig, error) {
	log := logger.WithComponent("conf")

	// Try multiple paths
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/prompts.yaml",
			"/etc/zendesk-mcp/prompts.yaml",
		}
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "prompts.yaml"))
		}
	}

	var data []byte
	var loadedPath string
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err == nil {
			data = b
			loadedPath = p
			break
		}
	}

	if data == nil {
		if configPath != "" {
			return nil, fmt.Errorf("failed to read prompts file %s", configPath)
		}
		log.Debug("no prompts.yaml found, using defaults")
		return DefaultPromptsConfig(), nil
	}

	log.Info("loading prompts", "path", loadedPath)

	var config PromptsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse prompts.yaml: %w", err)
	}

	// Fill in defaults for empty values
	config.fillDefaults()

	return &config, nil
}

// fillDefaults fills in default values for empty fields
func (c *PromptsConfig) fillDefaults() {
	defaults := DefaultPromptsConfig()
	c.AnalyzeTicket.fillFrom(defaults.AnalyzeTicket)
	c.DraftTicketResponse.fillFrom(defaults.DraftTicketResponse)
}

func (p *PromptTemplate) fillFrom(d PromptTemplate) {
	if p.Description == "" {
		p.Description = d.Description
	}
	if p.ArgumentDescription == "" {
		p.ArgumentDescription = d.ArgumentDescription
	}
	if p.Title == "" {
		p.Title = d.Title
	}
	if p.Template == "" {
		p.Template = d.Template
	}
}

// Lookup returns the template registered under an MCP prompt name
func (c *PromptsConfig) Lookup(name string) (PromptTemplate, bool) {
	switch name {
	case PromptAnalyzeTicket:
		return c.AnalyzeTicket, true
	case PromptDraftTicketResponse:
		return c.DraftTicketResponse, true
	default:
		return PromptTemplate{}, false
	}
}

// Render fills the template for a ticket and returns its title and text
func (p PromptTemplate) Render(ticketID int64) (title, text string) {
	id := fmt.Sprintf("%d", ticketID)
	title = strings.ReplaceAll(p.Title, "{{ticket_id}}", id)
	text = strings.TrimSpace(strings.ReplaceAll(p.Template, "{{ticket_id}}", id))
	return title, text
}

// DefaultPromptsConfig returns default prompts configuration
func DefaultPromptsConfig() *PromptsConfig {
	return &PromptsConfig{
		AnalyzeTicket: PromptTemplate{
			Description:         "Analyze a Zendesk ticket and provide insights",
			ArgumentDescription: "The ID of the ticket to analyze",
			Title:               "Analysis prompt for ticket #{{ticket_id}}",
			Template: `You are a helpful Zendesk support analyst. You've been asked to analyze ticket #{{ticket_id}}.

Please fetch the ticket info and comments to analyze it and provide:
1. A summary of the issue
2. The current status and timeline
3. Key points of interaction

Remember to be professional and focus on actionable insights.`,
		},
		DraftTicketResponse: PromptTemplate{
			Description:         "Draft a professional response to a Zendesk ticket",
			ArgumentDescription: "The ID of the ticket to respond to",
			Title:               "Response draft prompt for ticket #{{ticket_id}}",
			Template: `You are a helpful Zendesk support agent. You need to draft a response to ticket #{{ticket_id}}.

Please:
1. Fetch the ticket info and comments to understand the issue
2. Search the knowledge base for relevant articles using the search_kb_articles tool
3. Draft a professional and helpful response that:
   - Acknowledges the customer's concern
   - Addresses the specific issues raised
   - Provides clear next steps or ask for specific details need to proceed
   - Maintains a friendly and professional tone
4. Ask for confirmation before commenting on the ticket

The response should be formatted well and ready to be posted as a comment.`,
		},
	}
}
