package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/domain"
)

func TestMacroApplication_CommitWithoutPreview(t *testing.T) {
	r := newFakeRepo()
	app := NewMacroApplication(r, 7, 3)

	_, err := app.Commit(context.Background())

	var phaseErr *domain.MacroPhaseError
	require.True(t, errors.As(err, &phaseErr))
	assert.Equal(t, domain.MacroPhaseCommit, phaseErr.Phase)
	assert.ErrorIs(t, err, domain.ErrMacroNotPreviewed)
	assert.Equal(t, 0, r.count("CommitMacro"))
	assert.Equal(t, MacroIdle, app.State())
}

func TestMacroApplication_PreviewThenCommit(t *testing.T) {
	r := newFakeRepo()
	app := NewMacroApplication(r, 7, 3)
	ctx := context.Background()

	preview, err := app.Preview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), preview.TicketID)
	assert.Equal(t, MacroPreviewed, app.State())

	result, err := app.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.Ticket.ID)
	assert.Equal(t, int64(99), result.AuditID)
	assert.Equal(t, MacroCommitted, app.State())

	// no transition out of committed
	_, err = app.Commit(ctx)
	assert.ErrorIs(t, err, domain.ErrMacroNotPreviewed)
	_, err = app.Preview(ctx)
	assert.Error(t, err)
	assert.Equal(t, 1, r.count("CommitMacro"))
	assert.Equal(t, 1, r.count("PreviewMacro"))
}

func TestMacroApplication_PreviewFails(t *testing.T) {
	r := newFakeRepo()
	r.previewErr = &domain.NotFoundError{Resource: "macro", ID: "3"}
	app := NewMacroApplication(r, 7, 3)

	_, err := app.Preview(context.Background())

	var phaseErr *domain.MacroPhaseError
	require.True(t, errors.As(err, &phaseErr))
	assert.Equal(t, domain.MacroPhasePreview, phaseErr.Phase)
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, MacroFailed, app.State())

	_, err = app.Commit(context.Background())
	assert.ErrorIs(t, err, domain.ErrMacroNotPreviewed)
	assert.Equal(t, 0, r.count("CommitMacro"))
}

func TestMacroApplication_CommitFails(t *testing.T) {
	r := newFakeRepo()
	r.commitErr = &domain.TransportError{Op: "commit macro", StatusCode: 422, Message: "ticket is closed"}
	app := NewMacroApplication(r, 7, 3)
	ctx := context.Background()

	_, err := app.Preview(ctx)
	require.NoError(t, err)
	_, err = app.Commit(ctx)

	var phaseErr *domain.MacroPhaseError
	require.True(t, errors.As(err, &phaseErr))
	assert.Equal(t, domain.MacroPhaseCommit, phaseErr.Phase)
	assert.Contains(t, err.Error(), "ticket is closed")
	assert.Equal(t, MacroFailed, app.State())
}

func TestMacroUsecase_Apply(t *testing.T) {
	r := newFakeRepo()
	uc := NewMacroUsecase(r)

	result, err := uc.Apply(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.Equal(t, "pending", result.Ticket.Status)

	// each apply runs a fresh application
	_, err = uc.Apply(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, r.count("PreviewMacro"))
	assert.Equal(t, 2, r.count("CommitMacro"))
}

func TestMacroUsecase_ApplyStopsAfterPreviewFailure(t *testing.T) {
	r := newFakeRepo()
	r.previewErr = errors.New("macro not applicable")

	_, err := NewMacroUsecase(r).Apply(context.Background(), 7, 3)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "preview")
	assert.Equal(t, 0, r.count("CommitMacro"))
}

func TestMacroUsecase_Search(t *testing.T) {
	r := newFakeRepo()
	r.macros = []domain.Macro{
		{ID: 1, Title: "Close and thank", Active: true, Actions: []domain.MacroAction{{Field: "status", Value: "solved"}}},
		{ID: 2, Title: "Escalate", Active: true},
		{ID: 3, Title: "Close as spam"},
	}

	summaries, err := NewMacroUsecase(r).Search(context.Background(), "close", 2)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 1, summaries[0].ActionCount)
}

func TestMacroState_String(t *testing.T) {
	assert.Equal(t, "previewed", MacroPreviewed.String())
	assert.Equal(t, "MacroState(9)", MacroState(9).String())
}
