package repo

import (
	"context"

	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/domain"
)

// TicketingRepo is the ticketing platform interface the core depends on.
//
// Implementations return domain records only. Failures are reported as
// *domain.NotFoundError when the id does not exist and *domain.TransportError
// for everything else; callers never retry them.
type TicketingRepo interface {
	// GetTicket fetches a ticket snapshot
	GetTicket(ctx context.Context, ticketID int64) (*domain.Ticket, error)

	// GetTicketComments fetches all comments of a ticket, oldest first
	GetTicketComments(ctx context.Context, ticketID int64) ([]domain.Comment, error)

	// PostComment adds an HTML comment to a ticket
	PostComment(ctx context.Context, ticketID int64, htmlBody string, public bool) error

	// GetAttachment downloads an attachment
	GetAttachment(ctx context.Context, attachmentID int64) (*domain.AttachmentContent, error)

	// ListSections lists all knowledge-base sections
	ListSections(ctx context.Context) ([]domain.Section, error)

	// GetArticle fetches one article in a locale
	GetArticle(ctx context.Context, articleID int64, locale string) (*domain.Article, error)

	// SearchArticles runs a full-text article search
	SearchArticles(ctx context.Context, query, locale string, limit int) ([]domain.Article, error)

	// ListSectionArticles lists the articles of a section
	ListSectionArticles(ctx context.Context, sectionID int64, locale string, limit int) ([]domain.Article, error)

	// SearchMacros searches macros by title
	SearchMacros(ctx context.Context, query string, limit int) ([]domain.Macro, error)

	// GetMacro fetches one macro
	GetMacro(ctx context.Context, macroID int64) (*domain.Macro, error)

	// PreviewMacro computes the effect of a macro on a ticket without changing it
	PreviewMacro(ctx context.Context, ticketID, macroID int64) (*domain.MacroPreview, error)

	// CommitMacro applies a previously computed preview to its ticket
	CommitMacro(ctx context.Context, preview *domain.MacroPreview) (*domain.MacroResult, error)
}
