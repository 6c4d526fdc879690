package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/domain"
)

type upperRenderer struct{ err error }

func (r upperRenderer) Render(source string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return "<p>" + strings.ToUpper(source) + "</p>", nil
}

func TestTicket_AddCommentRenders(t *testing.T) {
	r := newFakeRepo()
	uc := NewTicketUsecase(r, upperRenderer{})

	err := uc.AddComment(context.Background(), 7, "hello", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"<p>HELLO</p>"}, r.posted)
}

func TestTicket_AddCommentRejectsBlank(t *testing.T) {
	r := newFakeRepo()
	uc := NewTicketUsecase(r, upperRenderer{})

	err := uc.AddComment(context.Background(), 7, "  \n", true)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "comment", ve.Field)
	assert.Equal(t, 0, r.count("PostComment"))
}

func TestTicket_AddCommentRenderError(t *testing.T) {
	r := newFakeRepo()
	uc := NewTicketUsecase(r, upperRenderer{err: errors.New("bad input")})

	err := uc.AddComment(context.Background(), 7, "hi", false)
	assert.ErrorContains(t, err, "render comment")
	assert.Equal(t, 0, r.count("PostComment"))
}

func TestTicket_GetNeverCached(t *testing.T) {
	r := newFakeRepo()
	r.tickets[7] = domain.Ticket{ID: 7, Subject: "Printer on fire"}
	uc := NewTicketUsecase(r, nil)

	for i := 0; i < 3; i++ {
		ticket, err := uc.Get(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "Printer on fire", ticket.Subject)
	}
	assert.Equal(t, 3, r.count("GetTicket"))

	_, err := uc.Get(context.Background(), 8)
	assert.True(t, domain.IsNotFound(err))
}
