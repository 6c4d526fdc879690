package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/domain"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/repo"
)

// CommentRenderer turns user-written comment text into safe HTML
type CommentRenderer interface {
	Render(source string) (string, error)
}

// TicketUsecase handles ticket reads and comment posting. Nothing here is cached.
type TicketUsecase struct {
	repo     repo.TicketingRepo
	renderer CommentRenderer
}

// NewTicketUsecase creates a new ticket usecase
func NewTicketUsecase(ticketingRepo repo.TicketingRepo, renderer CommentRenderer) *TicketUsecase {
	return &TicketUsecase{
		repo:     ticketingRepo,
		renderer: renderer,
	}
}

// Get returns a fresh ticket snapshot
func (uc *TicketUsecase) Get(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	return uc.repo.GetTicket(ctx, ticketID)
}

// Comments returns all comments of a ticket, oldest first
func (uc *TicketUsecase) Comments(ctx context.Context, ticketID int64) ([]domain.Comment, error) {
	return uc.repo.GetTicketComments(ctx, ticketID)
}

// AddComment renders body and posts it to the ticket
func (uc *TicketUsecase) AddComment(ctx context.Context, ticketID int64, body string, public bool) error {
	if strings.TrimSpace(body) == "" {
		return domain.NewValidationError("comment", "must not be empty")
	}

	html := body
	if uc.renderer != nil {
		rendered, err := uc.renderer.Render(body)
		if err != nil {
			return fmt.Errorf("render comment: %w", err)
		}
		html = rendered
	}

	return uc.repo.PostComment(ctx, ticketID, html, public)
}
