package zendesk

import (
	"encoding/json"
	"time"
)

// Ticket is the API representation of a ticket
type Ticket struct {
	ID             int64         `json:"id"`
	Subject        string        `json:"subject"`
	Description    string        `json:"description"`
	Status         string        `json:"status"`
	Priority       string        `json:"priority"`
	Type           string        `json:"type"`
	RequesterID    int64         `json:"requester_id"`
	AssigneeID     int64         `json:"assignee_id"`
	OrganizationID int64         `json:"organization_id"`
	Tags           []string      `json:"tags"`
	CustomFields   []CustomField `json:"custom_fields"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// CustomField is a ticket custom field value
type CustomField struct {
	ID    int64 `json:"id"`
	Value any   `json:"value"`
}

// Comment is a ticket comment
type Comment struct {
	ID          int64        `json:"id"`
	AuthorID    int64        `json:"author_id"`
	Body        string       `json:"body"`
	HTMLBody    string       `json:"html_body"`
	Public      bool         `json:"public"`
	CreatedAt   time.Time    `json:"created_at"`
	Attachments []Attachment `json:"attachments"`
}

// Attachment is file metadata
type Attachment struct {
	ID          int64  `json:"id"`
	FileName    string `json:"file_name"`
	ContentURL  string `json:"content_url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Inline      bool   `json:"inline"`
}

// Audit is the change record produced by a ticket update
type Audit struct {
	ID       int64 `json:"id"`
	TicketID int64 `json:"ticket_id"`
}

// TicketUpdateResult is the response of a ticket update
type TicketUpdateResult struct {
	Ticket Ticket `json:"ticket"`
	Audit  Audit  `json:"audit"`
}

// Section is a help center section
type Section struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CategoryID  int64     `json:"category_id"`
	Position    int       `json:"position"`
	Locale      string    `json:"locale"`
	HTMLURL     string    `json:"html_url"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Article is a help center article
type Article struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	SectionID int64     `json:"section_id"`
	AuthorID  int64     `json:"author_id"`
	Locale    string    `json:"locale"`
	HTMLURL   string    `json:"html_url"`
	VoteSum   int       `json:"vote_sum"`
	VoteCount int       `json:"vote_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Macro is a stored macro
type Macro struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Active      bool          `json:"active"`
	Actions     []MacroAction `json:"actions"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// MacroAction is one action of a macro
type MacroAction struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// MacroApplyResult is the would-be ticket state computed by the apply endpoint.
// Ticket and Comment are kept raw so they can be sent back unchanged.
type MacroApplyResult struct {
	Ticket  json.RawMessage `json:"ticket"`
	Comment json.RawMessage `json:"comment,omitempty"`
}

// TicketUpdate builds the update request that commits an apply result
func (r *MacroApplyResult) TicketUpdate() (map[string]any, error) {
	ticket := map[string]any{}
	if len(r.Ticket) > 0 {
		if err := json.Unmarshal(r.Ticket, &ticket); err != nil {
			return nil, err
		}
	}
	// read-only fields the update endpoint rejects or ignores
	for _, key := range []string{"id", "url", "created_at", "updated_at"} {
		delete(ticket, key)
	}
	if len(r.Comment) > 0 && string(r.Comment) != "null" {
		ticket["comment"] = r.Comment
	}
	return map[string]any{"ticket": ticket}, nil
}
