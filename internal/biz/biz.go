package biz

import (
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/repo"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/usecase"
)

// Usecases contains all usecases
type Usecases struct {
	Ticket     *usecase.TicketUsecase
	Knowledge  *usecase.KnowledgeUsecase
	Attachment *usecase.AttachmentUsecase
	Macro      *usecase.MacroUsecase
}

// Options configures the usecases built by NewUsecases
type Options struct {
	Knowledge          usecase.KnowledgeConfig
	AttachmentMaxBytes int64
	Renderer           usecase.CommentRenderer
}

// NewUsecases wires every usecase to one ticketing repository
func NewUsecases(ticketingRepo repo.TicketingRepo, opts Options) *Usecases {
	return &Usecases{
		Ticket:     usecase.NewTicketUsecase(ticketingRepo, opts.Renderer),
		Knowledge:  usecase.NewKnowledgeUsecase(ticketingRepo, opts.Knowledge),
		Attachment: usecase.NewAttachmentUsecase(ticketingRepo, opts.AttachmentMaxBytes),
		Macro:      usecase.NewMacroUsecase(ticketingRepo),
	}
}
