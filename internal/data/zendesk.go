package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/domain"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/repo"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/infra/zendesk"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/logger"
)

// zendeskRepo implements the ticketing repository over the Zendesk REST API
type zendeskRepo struct {
	client *zendesk.Client
	log    *slog.Logger
}

// NewZendeskRepo creates a new Zendesk repository
func NewZendeskRepo(client *zendesk.Client) repo.TicketingRepo {
	return &zendeskRepo{
		client: client,
		log:    logger.WithComponent("zendesk"),
	}
}

// GetTicket fetches a ticket snapshot
func (r *zendeskRepo) GetTicket(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	t, err := r.client.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, classify("get ticket", "ticket", ticketID, err)
	}
	ticket := toTicket(t)
	return &ticket, nil
}

// GetTicketComments fetches all comments of a ticket
func (r *zendeskRepo) GetTicketComments(ctx context.Context, ticketID int64) ([]domain.Comment, error) {
	comments, err := r.client.GetTicketComments(ctx, ticketID)
	if err != nil {
		return nil, classify("get ticket comments", "ticket", ticketID, err)
	}

	result := make([]domain.Comment, 0, len(comments))
	for i := range comments {
		result = append(result, toComment(&comments[i]))
	}
	return result, nil
}

// PostComment adds an HTML comment to a ticket
func (r *zendeskRepo) PostComment(ctx context.Context, ticketID int64, htmlBody string, public bool) error {
	res, err := r.client.AddComment(ctx, ticketID, htmlBody, public)
	if err != nil {
		return classify("post comment", "ticket", ticketID, err)
	}
	r.log.Info("comment posted", "ticket_id", ticketID, "audit_id", res.Audit.ID, "public", public)
	return nil
}

// GetAttachment resolves attachment metadata and downloads its bytes
func (r *zendeskRepo) GetAttachment(ctx context.Context, attachmentID int64) (*domain.AttachmentContent, error) {
	meta, err := r.client.GetAttachment(ctx, attachmentID)
	if err != nil {
		return nil, classify("get attachment", "attachment", attachmentID, err)
	}

	data, contentType, err := r.client.Download(ctx, meta.ContentURL)
	if err != nil {
		return nil, classify("download attachment", "attachment", attachmentID, err)
	}
	r.log.Debug("attachment downloaded", "attachment_id", attachmentID, "bytes", len(data))

	return &domain.AttachmentContent{
		Attachment:  toAttachment(meta),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// ListSections lists all knowledge-base sections
func (r *zendeskRepo) ListSections(ctx context.Context) ([]domain.Section, error) {
	sections, err := r.client.ListSections(ctx)
	if err != nil {
		return nil, classify("list sections", "", 0, err)
	}

	result := make([]domain.Section, 0, len(sections))
	for _, s := range sections {
		result = append(result, domain.Section{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			CategoryID:  s.CategoryID,
			Position:    s.Position,
			Locale:      s.Locale,
			URL:         s.HTMLURL,
			UpdatedAt:   s.UpdatedAt,
		})
	}
	return result, nil
}

// GetArticle fetches one article in a locale
func (r *zendeskRepo) GetArticle(ctx context.Context, articleID int64, locale string) (*domain.Article, error) {
	a, err := r.client.GetArticle(ctx, articleID, locale)
	if err != nil {
		return nil, classify("get article", "article", articleID, err)
	}
	article := toArticle(a)
	return &article, nil
}

// SearchArticles runs a full-text article search
func (r *zendeskRepo) SearchArticles(ctx context.Context, query, locale string, limit int) ([]domain.Article, error) {
	articles, err := r.client.SearchArticles(ctx, query, locale, limit)
	if err != nil {
		return nil, classify("search articles", "", 0, err)
	}
	r.log.Info("articles found", "count", len(articles), "query", query, "locale", locale)
	return toArticles(articles), nil
}

// ListSectionArticles lists the articles of a section
func (r *zendeskRepo) ListSectionArticles(ctx context.Context, sectionID int64, locale string, limit int) ([]domain.Article, error) {
	articles, err := r.client.ListSectionArticles(ctx, sectionID, locale, limit)
	if err != nil {
		return nil, classify("list section articles", "section", sectionID, err)
	}
	r.log.Info("section articles found", "count", len(articles), "section_id", sectionID)
	return toArticles(articles), nil
}

// SearchMacros searches macros by title
func (r *zendeskRepo) SearchMacros(ctx context.Context, query string, limit int) ([]domain.Macro, error) {
	macros, err := r.client.SearchMacros(ctx, query, limit)
	if err != nil {
		return nil, classify("search macros", "", 0, err)
	}

	result := make([]domain.Macro, 0, len(macros))
	for i := range macros {
		result = append(result, toMacro(&macros[i]))
	}
	return result, nil
}

// GetMacro fetches one macro
func (r *zendeskRepo) GetMacro(ctx context.Context, macroID int64) (*domain.Macro, error) {
	m, err := r.client.GetMacro(ctx, macroID)
	if err != nil {
		return nil, classify("get macro", "macro", macroID, err)
	}
	macro := toMacro(m)
	return &macro, nil
}

// PreviewMacro asks the platform what the macro would change on the ticket
func (r *zendeskRepo) PreviewMacro(ctx context.Context, ticketID, macroID int64) (*domain.MacroPreview, error) {
	res, err := r.client.ApplyMacro(ctx, ticketID, macroID)
	if err != nil {
		var apiErr *zendesk.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			// the endpoint does not say which id is unknown
			return nil, &domain.NotFoundError{Resource: "ticket or macro", ID: fmt.Sprintf("%d/%d", ticketID, macroID)}
		}
		return nil, classify("preview macro", "", 0, err)
	}

	update, err := res.TicketUpdate()
	if err != nil {
		return nil, &domain.TransportError{Op: "preview macro", Message: "unexpected preview payload", Err: err}
	}
	payload, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("encode macro preview: %w", err)
	}

	var would zendesk.Ticket
	if len(res.Ticket) > 0 {
		if err := json.Unmarshal(res.Ticket, &would); err != nil {
			return nil, &domain.TransportError{Op: "preview macro", Message: "unexpected preview ticket", Err: err}
		}
	}
	if would.ID == 0 {
		would.ID = ticketID
	}

	return &domain.MacroPreview{
		TicketID: ticketID,
		MacroID:  macroID,
		Ticket:   toTicket(&would),
		Payload:  payload,
	}, nil
}

// CommitMacro sends the previewed changes as a ticket update
func (r *zendeskRepo) CommitMacro(ctx context.Context, preview *domain.MacroPreview) (*domain.MacroResult, error) {
	res, err := r.client.UpdateTicket(ctx, preview.TicketID, json.RawMessage(preview.Payload))
	if err != nil {
		return nil, classify("commit macro", "ticket", preview.TicketID, err)
	}
	r.log.Info("macro applied", "ticket_id", preview.TicketID, "macro_id", preview.MacroID, "audit_id", res.Audit.ID)

	return &domain.MacroResult{
		Ticket:  toTicket(&res.Ticket),
		AuditID: res.Audit.ID,
	}, nil
}

// classify turns a client error into a NotFoundError or TransportError
func classify(op, resource string, id int64, err error) error {
	var apiErr *zendesk.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusNotFound && resource != "" {
			return &domain.NotFoundError{Resource: resource, ID: strconv.FormatInt(id, 10)}
		}
		return &domain.TransportError{
			Op:         op,
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message(),
			Err:        err,
		}
	}
	return &domain.TransportError{Op: op, Err: err}
}
