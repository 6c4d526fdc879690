package domain

import "time"

// Ticket is a read-only snapshot of a support case
type Ticket struct {
	ID             int64         `json:"id"`
	Subject        string        `json:"subject"`
	Description    string        `json:"description"`
	Status         string        `json:"status"`
	Priority       string        `json:"priority,omitempty"`
	Type           string        `json:"type,omitempty"`
	RequesterID    int64         `json:"requester_id"`
	AssigneeID     int64         `json:"assignee_id,omitempty"`
	OrganizationID int64         `json:"organization_id,omitempty"`
	Tags           []string      `json:"tags,omitempty"`
	CustomFields   []CustomField `json:"custom_fields,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// CustomField is a ticket field value; Value keeps whatever JSON type the platform returned
type CustomField struct {
	ID    int64 `json:"id"`
	Value any   `json:"value"`
}

// Comment is a message on a ticket
type Comment struct {
	ID          int64        `json:"id"`
	AuthorID    int64        `json:"author_id"`
	Body        string       `json:"body"`
	HTMLBody    string       `json:"html_body,omitempty"`
	Public      bool         `json:"public"`
	CreatedAt   time.Time    `json:"created_at"`
	Attachments []Attachment `json:"attachments"`
}

// ImageAttachments returns the attachments of the comment that can be shown inline
func (c *Comment) ImageAttachments() []Attachment {
	var images []Attachment
	for _, a := range c.Attachments {
		if a.IsImage() {
			images = append(images, a)
		}
	}
	return images
}
