package domain

import (
	"encoding/json"
	"mime"
	"strings"
)

// Attachment is file metadata attached to a comment.
//
// Whether the attachment is an image is decided once, when the record is
// built from the content type, and cannot change afterwards.
type Attachment struct {
	ID          int64
	FileName    string
	ContentType string
	Size        int64
	ContentURL  string
	Inline      bool

	isImage bool
}

// NewAttachment builds attachment metadata and derives the image flag
func NewAttachment(id int64, fileName, contentType string, size int64, contentURL string, inline bool) Attachment {
	return Attachment{
		ID:          id,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		ContentURL:  contentURL,
		Inline:      inline,
		isImage:     IsImageContentType(contentType),
	}
}

// IsImage reports whether the attachment can be rendered as an inline image
func (a Attachment) IsImage() bool {
	return a.isImage
}

type attachmentJSON struct {
	ID          int64  `json:"id"`
	FileName    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
	Inline      bool   `json:"inline,omitempty"`
	IsImage     bool   `json:"is_image"`
}

// MarshalJSON renders the metadata view handed to the assistant
func (a Attachment) MarshalJSON() ([]byte, error) {
	return json.Marshal(attachmentJSON{
		ID:          a.ID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Size:        a.Size,
		URL:         a.ContentURL,
		Inline:      a.Inline,
		IsImage:     a.isImage,
	})
}

// UnmarshalJSON restores metadata; the image flag is re-derived from the content type
func (a *Attachment) UnmarshalJSON(data []byte) error {
	var raw attachmentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = NewAttachment(raw.ID, raw.FileName, raw.ContentType, raw.Size, raw.URL, raw.Inline)
	return nil
}

// AttachmentContent is an attachment together with its downloaded bytes
type AttachmentContent struct {
	Attachment Attachment
	// ContentType as reported by the download, may differ from the metadata
	ContentType string
	Data        []byte
}

// IsImageContentType reports whether a MIME type denotes an image
func IsImageContentType(contentType string) bool {
	mediaType := NormalizeContentType(contentType)
	return strings.HasPrefix(mediaType, "image/")
}

// NormalizeContentType strips parameters and lower-cases a MIME type
func NormalizeContentType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		return strings.ToLower(mediaType)
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
