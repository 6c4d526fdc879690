package usecase

import (
	"context"
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/domain"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/repo"
)

// DefaultAttachmentMaxBytes caps a single attachment download
const DefaultAttachmentMaxBytes int64 = 10 << 20

const octetStream = "application/octet-stream"

// AttachmentItemKind tells how a fetched attachment is presented
type AttachmentItemKind int

const (
	// AttachmentImage carries raw image bytes for inline display
	AttachmentImage AttachmentItemKind = iota
	// AttachmentDocument carries bytes to be sent base64-encoded with metadata
	AttachmentDocument
	// AttachmentFailed carries the fetch error of one attachment
	AttachmentFailed
)

// AttachmentItem is one dispatched attachment
type AttachmentItem struct {
	Kind       AttachmentItemKind
	Attachment domain.Attachment
	MIMEType   string
	Data       []byte
	Err        error
}

// AttachmentUsecase is the single place attachment bytes are fetched and classified
type AttachmentUsecase struct {
	repo     repo.TicketingRepo
	maxBytes int64
}

// NewAttachmentUsecase creates a new attachment usecase; maxBytes <= 0 uses the default cap
func NewAttachmentUsecase(ticketingRepo repo.TicketingRepo, maxBytes int64) *AttachmentUsecase {
	if maxBytes <= 0 {
		maxBytes = DefaultAttachmentMaxBytes
	}
	return &AttachmentUsecase{
		repo:     ticketingRepo,
		maxBytes: maxBytes,
	}
}

// Fetch downloads one attachment and classifies it as image or document
func (uc *AttachmentUsecase) Fetch(ctx context.Context, attachmentID int64) (*AttachmentItem, error) {
	content, err := uc.repo.GetAttachment(ctx, attachmentID)
	if err != nil {
		return nil, &domain.AttachmentFetchError{AttachmentID: attachmentID, Err: err}
	}
	if int64(len(content.Data)) > uc.maxBytes {
		return nil, &domain.AttachmentFetchError{
			AttachmentID: attachmentID,
			Err:          fmt.Errorf("%w: %d bytes, limit %d", domain.ErrAttachmentTooLarge, len(content.Data), uc.maxBytes),
		}
	}

	mimeType := resolveContentType(content)
	kind := AttachmentDocument
	if domain.IsImageContentType(mimeType) {
		kind = AttachmentImage
	}

	return &AttachmentItem{
		Kind:       kind,
		Attachment: content.Attachment,
		MIMEType:   mimeType,
		Data:       content.Data,
	}, nil
}

// ResolveInline fetches the image attachments of comments, in comment order.
//
// Nothing is fetched unless includeImages is set. Non-image attachments are
// never fetched. A failed fetch, or one that turns out not to be an image,
// becomes an AttachmentFailed item and the remaining attachments are still
// processed.
func (uc *AttachmentUsecase) ResolveInline(ctx context.Context, comments []domain.Comment, includeImages bool) []AttachmentItem {
	if !includeImages {
		return nil
	}

	var items []AttachmentItem
	for i := range comments {
		for _, att := range comments[i].ImageAttachments() {
			item, err := uc.Fetch(ctx, att.ID)
			if err != nil {
				items = append(items, AttachmentItem{Kind: AttachmentFailed, Attachment: att, Err: err})
				continue
			}
			if item.Kind != AttachmentImage {
				items = append(items, AttachmentItem{
					Kind:       AttachmentFailed,
					Attachment: att,
					Err: &domain.AttachmentFetchError{
						AttachmentID: att.ID,
						Err:          fmt.Errorf("%w: got %s", domain.ErrAttachmentNotImage, item.MIMEType),
					},
				})
				continue
			}
			items = append(items, *item)
		}
	}
	return items
}

// resolveContentType prefers metadata, then the download header, then sniffing
func resolveContentType(content *domain.AttachmentContent) string {
	for _, candidate := range []string{content.Attachment.ContentType, content.ContentType} {
		ct := domain.NormalizeContentType(candidate)
		if ct != "" && ct != octetStream {
			return ct
		}
	}
	if len(content.Data) == 0 {
		return octetStream
	}
	return domain.NormalizeContentType(mimetype.Detect(content.Data).String())
}
