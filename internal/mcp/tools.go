package mcp

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names
const (
	ToolGetTicket           = "get_ticket"
	ToolGetTicketComments   = "get_ticket_comments"
	ToolCreateTicketComment = "create_ticket_comment"
	ToolGetAttachment       = "get_attachment"
	ToolSearchKBArticles    = "search_kb_articles"
	ToolGetKBArticle        = "get_kb_article"
	ToolListKBSections      = "list_kb_sections"
	ToolGetSectionArticles  = "get_section_articles"
	ToolSearchMacros        = "search_macros"
	ToolGetMacro            = "get_macro"
	ToolApplyMacroToTicket  = "apply_macro_to_ticket"
)

// Default list limits
const (
	DefaultSearchLimit  = 10
	DefaultSectionLimit = 20
	MaxLimit            = 100
)

func object(required []string, props map[string]*jsonschema.Schema) *jsonschema.Schema {
	if props == nil {
		props = map[string]*jsonschema.Schema{}
	}
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

func idProp(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "integer", Description: description}
}

func stringProp(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: description}
}

func boolProp(description string, def bool) *jsonschema.Schema {
	raw, _ := json.Marshal(def)
	return &jsonschema.Schema{Type: "boolean", Description: description, Default: raw}
}

func limitProp(def int) *jsonschema.Schema {
	minimum, maximum := 1.0, float64(MaxLimit)
	raw, _ := json.Marshal(def)
	return &jsonschema.Schema{
		Type:        "integer",
		Description: "Maximum number of results to return",
		Default:     raw,
		Minimum:     &minimum,
		Maximum:     &maximum,
	}
}

func localeProp() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: "Help Center locale, e.g. en-us, zh-cn, de (default en-us)",
	}
}

// Tools returns all available MCP tool definitions
func Tools() []*sdk.Tool {
	return []*sdk.Tool{
		{
			Name:        ToolGetTicket,
			Description: "Retrieve a Zendesk ticket by its ID",
			InputSchema: object([]string{"ticket_id"}, map[string]*jsonschema.Schema{
				"ticket_id": idProp("The ID of the ticket to retrieve"),
			}),
		},
		{
			Name:        ToolGetTicketComments,
			Description: "Retrieve all comments for a Zendesk ticket by its ID. Attachment metadata is always included; set include_inline_images to also return image attachments as images.",
			InputSchema: object([]string{"ticket_id"}, map[string]*jsonschema.Schema{
				"ticket_id":             idProp("The ID of the ticket to get comments for"),
				"include_inline_images": boolProp("Fetch image attachments and return them inline", false),
			}),
		},
		{
			Name:        ToolCreateTicketComment,
			Description: "Create a new comment on an existing Zendesk ticket. Markdown and basic HTML are accepted.",
			InputSchema: object([]string{"ticket_id", "comment"}, map[string]*jsonschema.Schema{
				"ticket_id": idProp("The ID of the ticket to comment on"),
				"comment":   stringProp("The comment text/content to add"),
				"public":    boolProp("Whether the comment should be public", true),
			}),
		},
		{
			Name:        ToolGetAttachment,
			Description: "Download a ticket attachment. Images are returned as images, other files as base64 with their metadata.",
			InputSchema: object([]string{"attachment_id"}, map[string]*jsonschema.Schema{
				"attachment_id": idProp("The ID of the attachment"),
			}),
		},
		{
			Name:        ToolSearchKBArticles,
			Description: "Search Zendesk Help Center articles by query",
			InputSchema: object([]string{"query"}, map[string]*jsonschema.Schema{
				"query":  stringProp("Search query to find relevant articles"),
				"limit":  limitProp(DefaultSearchLimit),
				"locale": localeProp(),
			}),
		},
		{
			Name:        ToolGetKBArticle,
			Description: "Get a specific Zendesk Help Center article by ID",
			InputSchema: object([]string{"article_id"}, map[string]*jsonschema.Schema{
				"article_id": idProp("The ID of the article to retrieve"),
				"locale":     localeProp(),
			}),
		},
		{
			Name:        ToolListKBSections,
			Description: "List all Zendesk Help Center sections",
			InputSchema: object(nil, nil),
		},
		{
			Name:        ToolGetSectionArticles,
			Description: "Get articles from a specific Zendesk Help Center section",
			InputSchema: object([]string{"section_id"}, map[string]*jsonschema.Schema{
				"section_id": idProp("The ID of the section"),
				"limit":      limitProp(DefaultSectionLimit),
				"locale":     localeProp(),
			}),
		},
		{
			Name:        ToolSearchMacros,
			Description: "Search Zendesk macros by title",
			InputSchema: object([]string{"query"}, map[string]*jsonschema.Schema{
				"query": stringProp("Words to look for in macro titles; must not be empty"),
				"limit": limitProp(DefaultSearchLimit),
			}),
		},
		{
			Name:        ToolGetMacro,
			Description: "Get a Zendesk macro and its actions by ID",
			InputSchema: object([]string{"macro_id"}, map[string]*jsonschema.Schema{
				"macro_id": idProp("The ID of the macro"),
			}),
		},
		{
			Name:        ToolApplyMacroToTicket,
			Description: "Apply a macro to a ticket. The change is previewed by Zendesk and then saved; the updated ticket is returned.",
			InputSchema: object([]string{"ticket_id", "macro_id"}, map[string]*jsonschema.Schema{
				"ticket_id": idProp("The ID of the ticket to update"),
				"macro_id":  idProp("The ID of the macro to apply"),
			}),
		},
	}
}
