package usecase

import (
	"context"
	"fmt"

	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/domain"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/repo"
)

// MacroState is the position of a macro application in the preview/commit protocol
type MacroState int

const (
	MacroIdle MacroState = iota
	MacroPreviewed
	MacroCommitted
	MacroFailed
)

func (s MacroState) String() string {
	switch s {
	case MacroIdle:
		return "idle"
	case MacroPreviewed:
		return "previewed"
	case MacroCommitted:
		return "committed"
	case MacroFailed:
		return "failed"
	default:
		return fmt.Sprintf("MacroState(%d)", int(s))
	}
}

// MacroApplication applies one macro to one ticket.
// An instance is used for a single request and is not safe for concurrent use.
type MacroApplication struct {
	repo     repo.TicketingRepo
	ticketID int64
	macroID  int64

	state   MacroState
	preview *domain.MacroPreview
	result  *domain.MacroResult
}

// NewMacroApplication creates an idle application
func NewMacroApplication(ticketingRepo repo.TicketingRepo, ticketID, macroID int64) *MacroApplication {
	return &MacroApplication{
		repo:     ticketingRepo,
		ticketID: ticketID,
		macroID:  macroID,
		state:    MacroIdle,
	}
}

// State returns the current state
func (a *MacroApplication) State() MacroState {
	return a.state
}

// Preview asks the platform for the effect of the macro. Only valid while idle.
func (a *MacroApplication) Preview(ctx context.Context) (*domain.MacroPreview, error) {
	if a.state != MacroIdle {
		return nil, a.phaseError(domain.MacroPhasePreview, fmt.Errorf("cannot preview in state %s", a.state))
	}

	preview, err := a.repo.PreviewMacro(ctx, a.ticketID, a.macroID)
	if err != nil {
		a.state = MacroFailed
		return nil, a.phaseError(domain.MacroPhasePreview, err)
	}

	a.preview = preview
	a.state = MacroPreviewed
	return preview, nil
}

// Commit applies the held preview. It never reaches the platform unless Preview succeeded.
func (a *MacroApplication) Commit(ctx context.Context) (*domain.MacroResult, error) {
	if a.state != MacroPreviewed || a.preview == nil {
		return nil, a.phaseError(domain.MacroPhaseCommit, domain.ErrMacroNotPreviewed)
	}

	result, err := a.repo.CommitMacro(ctx, a.preview)
	if err != nil {
		a.state = MacroFailed
		return nil, a.phaseError(domain.MacroPhaseCommit, err)
	}

	a.result = result
	a.state = MacroCommitted
	return result, nil
}

func (a *MacroApplication) phaseError(phase domain.MacroPhase, err error) error {
	return &domain.MacroPhaseError{
		Phase:    phase,
		TicketID: a.ticketID,
		MacroID:  a.macroID,
		Err:      err,
	}
}

// MacroUsecase handles macro lookups and applications
type MacroUsecase struct {
	repo repo.TicketingRepo
}

// NewMacroUsecase creates a new macro usecase
func NewMacroUsecase(ticketingRepo repo.TicketingRepo) *MacroUsecase {
	return &MacroUsecase{repo: ticketingRepo}
}

// Search returns summaries of macros matching query
func (uc *MacroUsecase) Search(ctx context.Context, query string, limit int) ([]domain.MacroSummary, error) {
	macros, err := uc.repo.SearchMacros(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(macros) > limit {
		macros = macros[:limit]
	}

	summaries := make([]domain.MacroSummary, 0, len(macros))
	for i := range macros {
		summaries = append(summaries, macros[i].Summary())
	}
	return summaries, nil
}

// Get returns one macro
func (uc *MacroUsecase) Get(ctx context.Context, macroID int64) (*domain.Macro, error) {
	return uc.repo.GetMacro(ctx, macroID)
}

// Apply previews then commits a macro on a ticket with a fresh application
func (uc *MacroUsecase) Apply(ctx context.Context, ticketID, macroID int64) (*domain.MacroResult, error) {
	app := NewMacroApplication(uc.repo, ticketID, macroID)
	if _, err := app.Preview(ctx); err != nil {
		return nil, err
	}
	return app.Commit(ctx)
}
