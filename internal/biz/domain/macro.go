package domain

import (
	"encoding/json"
	"time"
)

// Macro is a stored template of ticket-mutating actions
type Macro struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Active      bool          `json:"active"`
	Actions     []MacroAction `json:"actions,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// MacroAction is one field change a macro performs
type MacroAction struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// MacroSummary is the list view of a macro
type MacroSummary struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
	ActionCount int    `json:"action_count"`
}

// Summary returns the list view of the macro
func (m *Macro) Summary() MacroSummary {
	return MacroSummary{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Active:      m.Active,
		ActionCount: len(m.Actions),
	}
}

// MacroPreview is the server-computed effect of a macro on a ticket, before commit
type MacroPreview struct {
	TicketID int64
	MacroID  int64
	// Ticket is the would-be ticket state, decoded for display
	Ticket Ticket
	// Payload is the server result exactly as returned; commit sends it back
	Payload json.RawMessage
}

// MacroResult is the outcome of a committed macro application
type MacroResult struct {
	Ticket  Ticket `json:"ticket"`
	AuditID int64  `json:"audit_id,omitempty"`
}
