package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/domain"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/usecase"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/logger"
)

// Handler routes MCP tool calls to the usecases
type Handler struct {
	tickets     *usecase.TicketUsecase
	knowledge   *usecase.KnowledgeUsecase
	attachments *usecase.AttachmentUsecase
	macros      *usecase.MacroUsecase

	defaultLocale string
	validate      *validator.Validate
	log           *slog.Logger
}

// NewHandler creates a new MCP handler; an empty defaultLocale means en-us
func NewHandler(uc *biz.Usecases, defaultLocale string) *Handler {
	if defaultLocale == "" {
		defaultLocale = domain.DefaultLocale
	}
	return &Handler{
		tickets:       uc.Ticket,
		knowledge:     uc.Knowledge,
		attachments:   uc.Attachment,
		macros:        uc.Macro,
		defaultLocale: defaultLocale,
		validate:      newValidator(),
		log:           logger.WithComponent("router"),
	}
}

// HandleToolCall handles a tool call and returns the result.
// Failures are reported inside the result, never as a Go error.
func (h *Handler) HandleToolCall(ctx context.Context, name string, args json.RawMessage) *sdk.CallToolResult {
	callID := uuid.NewString()
	start := time.Now()
	log := h.log.With("call_id", callID, "tool", name)
	log.Debug("tool call", "args", string(args))

	result, err := h.dispatch(ctx, name, args)
	if err != nil {
		log.Warn("tool call failed", "duration", time.Since(start), "error", err)
		return FormatToolError(err)
	}

	log.Info("tool call", "duration", time.Since(start), "items", len(result.Content))
	return result
}

func (h *Handler) dispatch(ctx context.Context, name string, raw json.RawMessage) (*sdk.CallToolResult, error) {
	switch name {
	case ToolGetTicket:
		return h.handleGetTicket(ctx, raw)
	case ToolGetTicketComments:
		return h.handleGetTicketComments(ctx, raw)
	case ToolCreateTicketComment:
		return h.handleCreateTicketComment(ctx, raw)
	case ToolGetAttachment:
		return h.handleGetAttachment(ctx, raw)
	case ToolSearchKBArticles:
		return h.handleSearchKBArticles(ctx, raw)
	case ToolGetKBArticle:
		return h.handleGetKBArticle(ctx, raw)
	case ToolListKBSections:
		return h.handleListKBSections(ctx)
	case ToolGetSectionArticles:
		return h.handleGetSectionArticles(ctx, raw)
	case ToolSearchMacros:
		return h.handleSearchMacros(ctx, raw)
	case ToolGetMacro:
		return h.handleGetMacro(ctx, raw)
	case ToolApplyMacroToTicket:
		return h.handleApplyMacro(ctx, raw)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// ============ Ticket Handlers ============

func (h *Handler) handleGetTicket(ctx context.Context, raw json.RawMessage) (*sdk.CallToolResult, error) {
	var args ticketArgs
	if err := h.decodeArgs(raw, &args); err != nil {
		return nil, err
	}

	ticket, err := h.tickets.Get(ctx, int64(args.TicketID))
	if err != nil {
		return nil, err
	}
	return FormatToolResult(ticket)
}

func (h *Handler) handleGetTicketComments(ctx context.Context, raw json.RawMessage) (*sdk.CallToolResult, error) {
	var args ticketCommentsArgs
	if err := h.decodeArgs(raw, &args); err != nil {
		return nil, err
	}

	comments, err := h.tickets.Comments(ctx, int64(args.TicketID))
	if err != nil {
		return nil, err
	}

	result, err := FormatToolResult(comments)
	if err != nil {
		return nil, err
	}

	for _, item := range h.attachments.ResolveInline(ctx, comments, args.IncludeInlineImages) {
		switch item.Kind {
		case usecase.AttachmentImage:
			result.Content = append(result.Content,
				&sdk.TextContent{Text: fmt.Sprintf("Attachment %d: %s", item.Attachment.ID, item.Attachment.FileName)},
				&sdk.ImageContent{Data: item.Data, MIMEType: item.MIMEType},
			)
		case usecase.AttachmentFailed:
			result.Content = append(result.Content, &sdk.TextContent{Text: errorText(item.Err)})
		}
	}
	return result, nil
}

func (h *Handler) handleCreateTicketComment(ctx context.Context, raw json.RawMessage) (*sdk.CallToolResult, error) {
	var args createCommentArgs
	if err := h.decodeArgs(raw, &args); err != nil {
		return nil, err
	}

	public := true
	if args.Public != nil {
		public = *args.Public
	}

	if err := h.tickets.AddComment(ctx, int64(args.TicketID), args.Comment, public); err != nil {
		return nil, err
	}
	return FormatToolResult(map[string]any{
		"success":   true,
		"ticket_id": args.TicketID,
		"public":    public,
		"message":   "Comment created successfully",
	})
}

// ============ Attachment Handlers ============

// documentPayload is the non-image attachment result
type documentPayload struct {
	AttachmentID int64  `json:"attachment_id"`
	FileName     string `json:"filename"`
	ContentType  string `json:"content_type"`
	Size         int    `json:"size"`
	Encoding     string `json:"encoding"`
	Data         string `json:"data"`
}

func (h *Handler) handleGetAttachment(ctx context.Context, raw json.RawMessage) (*sdk.CallToolResult, error) {
	var args attachmentArgs
	if err := h.decodeArgs(raw, &args); err != nil {
		return nil, err
	}

	item, err := h.attachments.Fetch(ctx, int64(args.AttachmentID))
	if err != nil {
		return nil, err
	}

	if item.Kind == usecase.AttachmentImage {
		return &sdk.CallToolResult{
			Content: []sdk.Content{&sdk.ImageContent{Data: item.Data, MIMEType: item.MIMEType}},
		}, nil
	}

	return FormatToolResult(documentPayload{
		AttachmentID: item.Attachment.ID,
		FileName:     item.Attachment.FileName,
		ContentType:  item.MIMEType,
		Size:         len(item.Data),
		Encoding:     "base64",
		Data:         base64.StdEncoding.EncodeToString(item.Data),
	})
}

// ============ Knowledge Base Handlers ============

func (h *Handler) handleSearchKBArticles(ctx context.Context, raw json.RawMessage) (*sdk.CallToolResult, error) {
	var args searchArticlesArgs
	if err := h.decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	locale, err := normalizeLocale(args.Locale, h.defaultLocale)
	if err != nil {
		return nil, err
	}

	articles, err := h.knowledge.SearchArticles(ctx, args.Query, locale, limitOrDefault(args.Limit, DefaultSearchLimit))
	if err != nil {
		return nil, err
	}
	return FormatToolResult(articles)
}

func (h *Handler) handleGetKBArticle(ctx context.Context, raw json.RawMessage) (*sdk.CallToolResult, error) {
	var args articleArgs
	if err := h.decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	locale, err := normalizeLocale(args.Locale, h.defaultLocale)
	if err != nil {
		return nil, err
	}

	article, err := h.knowledge.GetArticle(ctx, int64(args.ArticleID), locale)
	if err != nil {
		return nil, err
	}
	return FormatToolResult(article)
}

func (h *Handler) handleListKBSections(ctx context.Context) (*sdk.CallToolResult, error) {
	sections, err := h.knowledge.ListSections(ctx)
	if err != nil {
		return nil, err
	}
	return FormatToolResult(sections)
}

func (h *Handler) handleGetSectionArticles(ctx context.Context, raw json.RawMessage) (*sdk.CallToolResult, error) {
	var args sectionArticlesArgs
	if err := h.decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	locale, err := normalizeLocale(args.Locale, h.defaultLocale)
	if err != nil {
		return nil, err
	}

	articles, err := h.knowledge.ListSectionArticles(ctx, int64(args.SectionID), locale, limitOrDefault(args.Limit, DefaultSectionLimit))
	if err != nil {
		return nil, err
	}
	return FormatToolResult(articles)
}

// ============ Macro Handlers ============

func (h *Handler) handleSearchMacros(ctx context.Context, raw json.RawMessage) (*sdk.CallToolResult, error) {
	var args searchMacrosArgs
	if err := h.decodeArgs(raw, &args); err != nil {
		return nil, err
	}

	macros, err := h.macros.Search(ctx, args.Query, limitOrDefault(args.Limit, DefaultSearchLimit))
	if err != nil {
		return nil, err
	}
	return FormatToolResult(macros)
}

func (h *Handler) handleGetMacro(ctx context.Context, raw json.RawMessage) (*sdk.CallToolResult, error) {
	var args macroArgs
	if err := h.decodeArgs(raw, &args); err != nil {
		return nil, err
	}

	macro, err := h.macros.Get(ctx, int64(args.MacroID))
	if err != nil {
		return nil, err
	}
	return FormatToolResult(macro)
}

func (h *Handler) handleApplyMacro(ctx context.Context, raw json.RawMessage) (*sdk.CallToolResult, error) {
	var args applyMacroArgs
	if err := h.decodeArgs(raw, &args); err != nil {
		return nil, err
	}

	result, err := h.macros.Apply(ctx, int64(args.TicketID), int64(args.MacroID))
	if err != nil {
		return nil, err
	}
	return FormatToolResult(map[string]any{
		"success":  true,
		"macro_id": args.MacroID,
		"ticket":   result.Ticket,
		"audit_id": result.AuditID,
	})
}

// ============ Helpers ============

// FormatToolResult renders a value as one indented JSON text item
func FormatToolResult(v any) (*sdk.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: string(data)}},
	}, nil
}

// FormatToolError renders an error as a single text item flagged as an error
func FormatToolError(err error) *sdk.CallToolResult {
	return &sdk.CallToolResult{
		Content: []sdk.Content{&sdk.TextContent{Text: errorText(err)}},
		IsError: true,
	}
}

func errorText(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return "Error: invalid arguments: " + ve.Error()
	}
	return "Error: " + err.Error()
}
