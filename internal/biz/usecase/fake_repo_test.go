package usecase

import (
	"context"
	"strconv"
	"sync"

	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/domain"
)

// fakeRepo is an in-memory TicketingRepo that counts calls per method
type fakeRepo struct {
	mu    sync.Mutex
	calls map[string]int

	tickets     map[int64]domain.Ticket
	comments    map[int64][]domain.Comment
	posted      []string
	attachments map[int64]domain.AttachmentContent
	attachErr   map[int64]error

	sections []domain.Section
	articles map[int64]domain.Article
	search   func(query, locale string, limit int) []domain.Article
	section  []domain.Article

	macros     []domain.Macro
	previewErr error
	commitErr  error
	listErr    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		calls:       make(map[string]int),
		tickets:     make(map[int64]domain.Ticket),
		comments:    make(map[int64][]domain.Comment),
		attachments: make(map[int64]domain.AttachmentContent),
		attachErr:   make(map[int64]error),
		articles:    make(map[int64]domain.Article),
	}
}

func (f *fakeRepo) record(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeRepo) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeRepo) GetTicket(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	f.record("GetTicket")
	t, ok := f.tickets[ticketID]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "ticket", ID: strconv.FormatInt(ticketID, 10)}
	}
	return &t, nil
}

func (f *fakeRepo) GetTicketComments(ctx context.Context, ticketID int64) ([]domain.Comment, error) {
	f.record("GetTicketComments")
	return f.comments[ticketID], nil
}

func (f *fakeRepo) PostComment(ctx context.Context, ticketID int64, htmlBody string, public bool) error {
	f.record("PostComment")
	f.posted = append(f.posted, htmlBody)
	return nil
}

func (f *fakeRepo) GetAttachment(ctx context.Context, attachmentID int64) (*domain.AttachmentContent, error) {
	f.record("GetAttachment")
	if err := f.attachErr[attachmentID]; err != nil {
		return nil, err
	}
	c, ok := f.attachments[attachmentID]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "attachment", ID: strconv.FormatInt(attachmentID, 10)}
	}
	return &c, nil
}

func (f *fakeRepo) ListSections(ctx context.Context) ([]domain.Section, error) {
	f.record("ListSections")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sections, nil
}

func (f *fakeRepo) GetArticle(ctx context.Context, articleID int64, locale string) (*domain.Article, error) {
	f.record("GetArticle")
	a, ok := f.articles[articleID]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "article", ID: strconv.FormatInt(articleID, 10)}
	}
	return &a, nil
}

func (f *fakeRepo) SearchArticles(ctx context.Context, query, locale string, limit int) ([]domain.Article, error) {
	f.record("SearchArticles")
	if f.search == nil {
		return nil, nil
	}
	return f.search(query, locale, limit), nil
}

func (f *fakeRepo) ListSectionArticles(ctx context.Context, sectionID int64, locale string, limit int) ([]domain.Article, error) {
	f.record("ListSectionArticles")
	return f.section, nil
}

func (f *fakeRepo) SearchMacros(ctx context.Context, query string, limit int) ([]domain.Macro, error) {
	f.record("SearchMacros")
	return f.macros, nil
}

func (f *fakeRepo) GetMacro(ctx context.Context, macroID int64) (*domain.Macro, error) {
	f.record("GetMacro")
	for i := range f.macros {
		if f.macros[i].ID == macroID {
			m := f.macros[i]
			return &m, nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "macro", ID: strconv.FormatInt(macroID, 10)}
}

func (f *fakeRepo) PreviewMacro(ctx context.Context, ticketID, macroID int64) (*domain.MacroPreview, error) {
	f.record("PreviewMacro")
	if f.previewErr != nil {
		return nil, f.previewErr
	}
	return &domain.MacroPreview{
		TicketID: ticketID,
		MacroID:  macroID,
		Ticket:   domain.Ticket{ID: ticketID, Status: "pending"},
		Payload:  []byte(`{"ticket":{"status":"pending"}}`),
	}, nil
}

func (f *fakeRepo) CommitMacro(ctx context.Context, preview *domain.MacroPreview) (*domain.MacroResult, error) {
	f.record("CommitMacro")
	if f.commitErr != nil {
		return nil, f.commitErr
	}
	return &domain.MacroResult{Ticket: preview.Ticket, AuditID: 99}, nil
}
