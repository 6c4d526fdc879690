package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/domain"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestAttachment_FetchImage(t *testing.T) {
	r := newFakeRepo()
	r.attachments[1] = domain.AttachmentContent{
		Attachment:  domain.NewAttachment(1, "screenshot.png", "image/png", int64(len(pngHeader)), "https://x/1", true),
		ContentType: "image/png",
		Data:        pngHeader,
	}
	uc := NewAttachmentUsecase(r, 0)

	item, err := uc.Fetch(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, AttachmentImage, item.Kind)
	assert.Equal(t, "image/png", item.MIMEType)
	assert.Equal(t, pngHeader, item.Data)
}

func TestAttachment_FetchPDF(t *testing.T) {
	r := newFakeRepo()
	r.attachments[2] = domain.AttachmentContent{
		Attachment:  domain.NewAttachment(2, "invoice.pdf", "application/pdf", 9, "https://x/2", false),
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4\n"),
	}
	uc := NewAttachmentUsecase(r, 0)

	item, err := uc.Fetch(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, AttachmentDocument, item.Kind)
	assert.Equal(t, "application/pdf", item.MIMEType)
	assert.Equal(t, "invoice.pdf", item.Attachment.FileName)
}

func TestAttachment_ContentTypeFallback(t *testing.T) {
	tests := []struct {
		name     string
		metadata string
		header   string
		data     []byte
		want     string
		kind     AttachmentItemKind
	}{
		{"metadata wins", "image/jpeg", "application/octet-stream", pngHeader, "image/jpeg", AttachmentImage},
		{"header when metadata empty", "", "Image/GIF; charset=binary", pngHeader, "image/gif", AttachmentImage},
		{"sniffed when both generic", "application/octet-stream", "application/octet-stream", pngHeader, "image/png", AttachmentImage},
		{"sniffed pdf", "", "", []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n"), "application/pdf", AttachmentDocument},
		{"empty body", "", "", nil, "application/octet-stream", AttachmentDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newFakeRepo()
			r.attachments[5] = domain.AttachmentContent{
				Attachment:  domain.NewAttachment(5, "blob", tt.metadata, int64(len(tt.data)), "", false),
				ContentType: tt.header,
				Data:        tt.data,
			}

			item, err := NewAttachmentUsecase(r, 0).Fetch(context.Background(), 5)
			require.NoError(t, err)
			assert.Equal(t, tt.want, item.MIMEType)
			assert.Equal(t, tt.kind, item.Kind)
		})
	}
}

func TestAttachment_FetchErrors(t *testing.T) {
	r := newFakeRepo()
	r.attachErr[3] = &domain.TransportError{Op: "get attachment", StatusCode: 500, Message: "boom"}
	r.attachments[4] = domain.AttachmentContent{
		Attachment: domain.NewAttachment(4, "big.png", "image/png", 64, "", false),
		Data:       make([]byte, 64),
	}
	uc := NewAttachmentUsecase(r, 32)

	_, err := uc.Fetch(context.Background(), 3)
	var fetchErr *domain.AttachmentFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, int64(3), fetchErr.AttachmentID)
	assert.Contains(t, err.Error(), "boom")

	_, err = uc.Fetch(context.Background(), 4)
	assert.ErrorIs(t, err, domain.ErrAttachmentTooLarge)

	_, err = uc.Fetch(context.Background(), 404)
	assert.True(t, domain.IsNotFound(err))
}

func commentsWithImageAndPDF() []domain.Comment {
	return []domain.Comment{
		{
			ID:   1,
			Body: "see attached",
			Attachments: []domain.Attachment{
				domain.NewAttachment(10, "screen.png", "image/png", 16, "https://x/10", true),
				domain.NewAttachment(11, "contract.pdf", "application/pdf", 9, "https://x/11", false),
			},
		},
		{ID: 2, Body: "thanks"},
	}
}

func TestAttachment_ResolveInline(t *testing.T) {
	r := newFakeRepo()
	r.attachments[10] = domain.AttachmentContent{
		Attachment: domain.NewAttachment(10, "screen.png", "image/png", 16, "https://x/10", true),
		Data:       pngHeader,
	}
	r.attachments[11] = domain.AttachmentContent{
		Attachment: domain.NewAttachment(11, "contract.pdf", "application/pdf", 9, "https://x/11", false),
		Data:       []byte("%PDF-1.4\n"),
	}
	uc := NewAttachmentUsecase(r, 0)

	items := uc.ResolveInline(context.Background(), commentsWithImageAndPDF(), true)

	require.Len(t, items, 1)
	assert.Equal(t, AttachmentImage, items[0].Kind)
	assert.Equal(t, int64(10), items[0].Attachment.ID)
	assert.Equal(t, 1, r.count("GetAttachment"), "pdf must not be fetched")
}

func TestAttachment_ResolveInlineDisabled(t *testing.T) {
	r := newFakeRepo()
	uc := NewAttachmentUsecase(r, 0)

	items := uc.ResolveInline(context.Background(), commentsWithImageAndPDF(), false)

	assert.Empty(t, items)
	assert.Equal(t, 0, r.count("GetAttachment"))
}

func TestAttachment_ResolveInlineContinuesAfterFailure(t *testing.T) {
	r := newFakeRepo()
	r.attachErr[20] = &domain.TransportError{Op: "get attachment", StatusCode: 502, Message: "bad gateway"}
	r.attachments[21] = domain.AttachmentContent{
		Attachment: domain.NewAttachment(21, "b.png", "image/png", 16, "", true),
		Data:       pngHeader,
	}
	comments := []domain.Comment{
		{ID: 1, Attachments: []domain.Attachment{domain.NewAttachment(20, "a.png", "image/png", 16, "", true)}},
		{ID: 2, Attachments: []domain.Attachment{domain.NewAttachment(21, "b.png", "image/png", 16, "", true)}},
	}

	items := NewAttachmentUsecase(r, 0).ResolveInline(context.Background(), comments, true)

	require.Len(t, items, 2)
	assert.Equal(t, AttachmentFailed, items[0].Kind)
	assert.Equal(t, int64(20), items[0].Attachment.ID)
	assert.Contains(t, items[0].Err.Error(), "attachment 20")
	assert.Equal(t, AttachmentImage, items[1].Kind)
}

func TestAttachment_ResolveInlineReportsNonImage(t *testing.T) {
	r := newFakeRepo()
	r.attachments[30] = domain.AttachmentContent{
		Attachment: domain.NewAttachment(30, "scan.png", "application/pdf", 9, "", false),
		Data:       []byte("%PDF-1.4\n"),
	}
	r.attachments[31] = domain.AttachmentContent{
		Attachment: domain.NewAttachment(31, "ok.png", "image/png", 16, "", true),
		Data:       pngHeader,
	}
	comments := []domain.Comment{
		{ID: 1, Attachments: []domain.Attachment{
			domain.NewAttachment(30, "scan.png", "image/png", 9, "", true),
			domain.NewAttachment(31, "ok.png", "image/png", 16, "", true),
		}},
	}

	items := NewAttachmentUsecase(r, 0).ResolveInline(context.Background(), comments, true)

	require.Len(t, items, 2)
	assert.Equal(t, AttachmentFailed, items[0].Kind)
	assert.Equal(t, int64(30), items[0].Attachment.ID)
	assert.ErrorIs(t, items[0].Err, domain.ErrAttachmentNotImage)
	assert.Contains(t, items[0].Err.Error(), "application/pdf")
	assert.Equal(t, AttachmentImage, items[1].Kind)
}
