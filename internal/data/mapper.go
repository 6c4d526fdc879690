package data

import (
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/domain"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/infra/zendesk"
)

func toTicket(t *zendesk.Ticket) domain.Ticket {
	ticket := domain.Ticket{
		ID:             t.ID,
		Subject:        t.Subject,
		Description:    t.Description,
		Status:         t.Status,
		Priority:       t.Priority,
		Type:           t.Type,
		RequesterID:    t.RequesterID,
		AssigneeID:     t.AssigneeID,
		OrganizationID: t.OrganizationID,
		Tags:           t.Tags,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	for _, f := range t.CustomFields {
		ticket.CustomFields = append(ticket.CustomFields, domain.CustomField{ID: f.ID, Value: f.Value})
	}
	return ticket
}

func toComment(c *zendesk.Comment) domain.Comment {
	comment := domain.Comment{
		ID:          c.ID,
		AuthorID:    c.AuthorID,
		Body:        c.Body,
		HTMLBody:    c.HTMLBody,
		Public:      c.Public,
		CreatedAt:   c.CreatedAt,
		Attachments: make([]domain.Attachment, 0, len(c.Attachments)),
	}
	for i := range c.Attachments {
		comment.Attachments = append(comment.Attachments, toAttachment(&c.Attachments[i]))
	}
	return comment
}

func toAttachment(a *zendesk.Attachment) domain.Attachment {
	return domain.NewAttachment(a.ID, a.FileName, a.ContentType, a.Size, a.ContentURL, a.Inline)
}

func toArticle(a *zendesk.Article) domain.Article {
	return domain.Article{
		ID:        a.ID,
		Title:     a.Title,
		Body:      a.Body,
		SectionID: a.SectionID,
		AuthorID:  a.AuthorID,
		Locale:    a.Locale,
		URL:       a.HTMLURL,
		VoteSum:   a.VoteSum,
		VoteCount: a.VoteCount,
		UpdatedAt: a.UpdatedAt,
	}
}

func toArticles(articles []zendesk.Article) []domain.Article {
	result := make([]domain.Article, 0, len(articles))
	for i := range articles {
		result = append(result, toArticle(&articles[i]))
	}
	return result
}

func toMacro(m *zendesk.Macro) domain.Macro {
	macro := domain.Macro{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for _, a := range m.Actions {
		macro.Actions = append(macro.Actions, domain.MacroAction{Field: a.Field, Value: a.Value})
	}
	return macro
}
