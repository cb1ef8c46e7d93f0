package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Marga-Ghale/ora-boards-backend/internal/automation"
	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
	"github.com/Marga-Ghale/ora-boards-backend/internal/config"
	"github.com/Marga-Ghale/ora-boards-backend/internal/forms"
	"github.com/Marga-Ghale/ora-boards-backend/internal/repository"
	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	owner    = "user-owner"
	stranger = "user-stranger"
)

func newTestServices(t *testing.T) *Services {
	t.Helper()
	return NewServices(&ServiceDeps{
		Config: &config.Config{JWTSecret: "test-secret", JWTExpiry: 1},
		Repos:  repository.NewRepositories(),
	})
}

func newBoard(t *testing.T, s *Services) *repository.Board {
	t.Helper()
	board, err := s.Board.Create(context.Background(), owner, "Requests", nil)
	require.NoError(t, err)
	return board
}

func addColumn(t *testing.T, s *Services, boardID string, v forms.ColumnFormValues) string {
	t.Helper()
	col, err := s.Column.Create(context.Background(), boardID, owner, v)
	require.NoError(t, err)
	return col.ID
}

func TestBoard_OtherUsersSeeNotFound(t *testing.T) {
	s := newTestServices(t)
	board := newBoard(t, s)

	_, err := s.Board.Get(context.Background(), board.ID, stranger)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Board.Get(context.Background(), "not-a-uuid", owner)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.True(t, s.Board.CanJoinRoom(context.Background(), owner, "board:"+board.ID))
	assert.False(t, s.Board.CanJoinRoom(context.Background(), stranger, "board:"+board.ID))
	assert.True(t, s.Board.CanJoinRoom(context.Background(), stranger, "user:"+stranger))
	assert.False(t, s.Board.CanJoinRoom(context.Background(), stranger, "user:"+owner))
}

func TestBoard_CreateRequiresName(t *testing.T) {
	s := newTestServices(t)
	_, err := s.Board.Create(context.Background(), owner, "   ", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.EqualError(t, err, "Board name is required")
}

func TestItem_RequiredFieldBlocksSubmission(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	board := newBoard(t, s)
	titleID := addColumn(t, s, board.ID, forms.ColumnFormValues{Name: "Title", Type: types.ColumnText, Required: true})

	_, err := s.Item.Create(ctx, board.ID, owner, ItemInput{Name: "First"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ErrorIs(t, err, ErrValidation)
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, titleID, verr.Errors[0].FieldID)
	assert.Equal(t, "Title is required", verr.Errors[0].Message)

	item, err := s.Item.Create(ctx, board.ID, owner, ItemInput{Name: "First", Cells: map[string]any{titleID: "  hello "}})
	require.NoError(t, err)
	assert.Equal(t, "hello", item.Cells[titleID])
	assert.Equal(t, types.ItemActive, item.State)
	require.NotNil(t, item.CreatedBy)
	assert.Equal(t, owner, *item.CreatedBy)
}

func TestItem_AutoNumberIsAssignedAndReadOnly(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	board := newBoard(t, s)
	numID := addColumn(t, s, board.ID, forms.ColumnFormValues{
		Name:     "Ticket",
		Type:     types.ColumnAutoNumber,
		Settings: map[string]any{"prefix": "INV-", "startNumber": 100, "padding": 4},
	})

	first, err := s.Item.Create(ctx, board.ID, owner, ItemInput{Name: "a"})
	require.NoError(t, err)
	second, err := s.Item.Create(ctx, board.ID, owner, ItemInput{Name: "b"})
	require.NoError(t, err)

	assert.Equal(t, "INV-0100", first.Cells[numID])
	assert.Equal(t, "INV-0101", second.Cells[numID])
	assert.Less(t, first.Position, second.Position)

	_, err = s.Item.Create(ctx, board.ID, owner, ItemInput{Name: "c", Cells: map[string]any{numID: "INV-9999"}})
	assert.ErrorIs(t, err, ErrReadOnlyColumn)

	_, err = s.Item.Update(ctx, first.ID, owner, ItemUpdate{Cells: map[string]any{numID: "INV-1"}})
	assert.ErrorIs(t, err, ErrReadOnlyColumn)
}

func TestItem_UpdateValidatesOnlyChangedCells(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	board := newBoard(t, s)
	notesID := addColumn(t, s, board.ID, forms.ColumnFormValues{Name: "Notes", Type: types.ColumnText})

	item, err := s.Item.Create(ctx, board.ID, owner, ItemInput{Name: "a"})
	require.NoError(t, err)

	// Added after the item exists; the item never had a value for it.
	emailID := addColumn(t, s, board.ID, forms.ColumnFormValues{Name: "Email", Type: types.ColumnEmail, Required: true})

	updated, err := s.Item.Update(ctx, item.ID, owner, ItemUpdate{Cells: map[string]any{notesID: "call back"}})
	require.NoError(t, err)
	assert.Equal(t, "call back", updated.Cells[notesID])

	_, err = s.Item.Update(ctx, item.ID, owner, ItemUpdate{Cells: map[string]any{emailID: "nope"}})
	assert.ErrorIs(t, err, ErrValidation)

	archived := types.ItemArchived
	updated, err = s.Item.Update(ctx, item.ID, owner, ItemUpdate{State: &archived, Cells: map[string]any{notesID: nil}})
	require.NoError(t, err)
	assert.Equal(t, types.ItemArchived, updated.State)
	assert.NotContains(t, updated.Cells, notesID)

	active, err := s.Item.List(ctx, board.ID, owner, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	bogus := "deleted"
	_, err = s.Item.Update(ctx, item.ID, owner, ItemUpdate{State: &bogus})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestItem_RequiredListThatFormatsEmptyIsRejected(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	board := newBoard(t, s)
	tagsID := addColumn(t, s, board.ID, forms.ColumnFormValues{Name: "Tags", Type: types.ColumnMultiSelect, Required: true})
	siteID := addColumn(t, s, board.ID, forms.ColumnFormValues{Name: "Site", Type: types.ColumnLocation, Required: true})

	_, err := s.Item.Create(ctx, board.ID, owner, ItemInput{Name: "a", Cells: map[string]any{
		tagsID: " , ",
		siteID: map[string]any{"foo": 1},
	}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Errors, 2)
	assert.Equal(t, "Tags is required", verr.Errors[0].Message)
	assert.Equal(t, "Site is required", verr.Errors[1].Message)
}

func TestItem_HiddenColumnValuesAreTypeChecked(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	board := newBoard(t, s)
	stageID := addColumn(t, s, board.ID, forms.ColumnFormValues{Name: "Stage", Type: types.ColumnText})
	scoreID := addColumn(t, s, board.ID, forms.ColumnFormValues{Name: "Score", Type: types.ColumnPercentage, IsHidden: true})
	pickID := addColumn(t, s, board.ID, forms.ColumnFormValues{
		Name:        "Pick",
		Type:        types.ColumnDropdown,
		Settings:    map[string]any{"options": []any{"A", "B"}},
		Conditional: &columns.Conditional{HideWhen: []columns.Rule{{FieldID: stageID, Operator: types.OpEquals, Value: "draft"}}},
	})

	_, err := s.Item.Create(ctx, board.ID, owner, ItemInput{Name: "a", Cells: map[string]any{
		stageID: "draft",
		scoreID: 500,
		pickID:  "ZZZ",
	}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Errors, 2)
	assert.Equal(t, scoreID, verr.Errors[0].FieldID)
	assert.Equal(t, pickID, verr.Errors[1].FieldID)

	item, err := s.Item.Create(ctx, board.ID, owner, ItemInput{Name: "b", Cells: map[string]any{stageID: "draft", scoreID: 40}})
	require.NoError(t, err)
	assert.Equal(t, 40.0, item.Cells[scoreID])

	_, err = s.Item.Update(ctx, item.ID, owner, ItemUpdate{Cells: map[string]any{scoreID: 500}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestColumn_LossyTypeChangeNeedsConfirmation(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	board := newBoard(t, s)
	colID := addColumn(t, s, board.ID, forms.ColumnFormValues{Name: "Code", Type: types.ColumnText})

	values, err := s.Column.FormValues(ctx, colID, owner)
	require.NoError(t, err)
	values.Type = types.ColumnNumber

	_, err = s.Column.Update(ctx, colID, owner, values, false)
	var tcErr *TypeChangeError
	require.True(t, errors.As(err, &tcErr))
	assert.True(t, tcErr.Change.Lossy)
	assert.NotEmpty(t, tcErr.Error())

	col, err := s.Column.Update(ctx, colID, owner, values, true)
	require.NoError(t, err)
	assert.Equal(t, types.ColumnNumber, col.Type)

	schema, err := s.Column.Schema(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, schema, 1)
	assert.Equal(t, types.ColumnNumber, schema[0].Type)

	change, err := s.Column.PreviewTypeChange(ctx, colID, owner, types.ColumnCurrency)
	require.NoError(t, err)
	assert.False(t, change.Lossy)

	_, err = s.Column.PreviewTypeChange(ctx, colID, owner, "SPREADSHEET")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestColumn_ReorderNeedsEveryColumnOnce(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	board := newBoard(t, s)
	a := addColumn(t, s, board.ID, forms.ColumnFormValues{Name: "A", Type: types.ColumnText})
	b := addColumn(t, s, board.ID, forms.ColumnFormValues{Name: "B", Type: types.ColumnText})

	_, err := s.Column.Reorder(ctx, board.ID, owner, []string{b})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.Column.Reorder(ctx, board.ID, owner, []string{b, b})
	assert.ErrorIs(t, err, ErrInvalidInput)

	cols, err := s.Column.Reorder(ctx, board.ID, owner, []string{b, a})
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, b, cols[0].ID)
	assert.Equal(t, a, cols[1].ID)
}

func TestForm_PublicSubmission(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	board := newBoard(t, s)
	nameID := addColumn(t, s, board.ID, forms.ColumnFormValues{Name: "Your name", Type: types.ColumnText, Required: true})
	addColumn(t, s, board.ID, forms.ColumnFormValues{Name: "Ref", Type: types.ColumnAutoNumber})

	_, err := s.Form.PublicForm(ctx, board.ID)
	assert.ErrorIs(t, err, ErrFormNotPublic)

	public := true
	title := "Contact us"
	_, err = s.Board.Update(ctx, board.ID, owner, BoardUpdate{FormPublic: &public, FormTitle: &title})
	require.NoError(t, err)

	form, err := s.Form.PublicForm(ctx, board.ID)
	require.NoError(t, err)
	assert.Equal(t, "Contact us", form.Title)
	require.Len(t, form.Columns, 1, "computed columns are not part of the form")
	assert.Equal(t, nameID, form.Columns[0].ID)

	_, err = s.Form.SubmitPublic(ctx, board.ID, map[string]any{})
	assert.ErrorIs(t, err, ErrValidation)

	item, err := s.Form.SubmitPublic(ctx, board.ID, map[string]any{nameID: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", item.Name)
	assert.Nil(t, item.CreatedBy)
}

func TestForm_PublicSubmissionDropsHiddenColumns(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	board := newBoard(t, s)
	nameID := addColumn(t, s, board.ID, forms.ColumnFormValues{Name: "Your name", Type: types.ColumnText, Required: true})
	internalID := addColumn(t, s, board.ID, forms.ColumnFormValues{Name: "Priority", Type: types.ColumnPercentage, IsHidden: true})

	public := true
	_, err := s.Board.Update(ctx, board.ID, owner, BoardUpdate{FormPublic: &public})
	require.NoError(t, err)

	form, err := s.Form.PublicForm(ctx, board.ID)
	require.NoError(t, err)
	require.Len(t, form.Columns, 1)

	for _, v := range []any{40, 500} {
		item, err := s.Form.SubmitPublic(ctx, board.ID, map[string]any{nameID: "Ada", internalID: v, "unknown": "x"})
		require.NoError(t, err, "%v", v)
		assert.NotContains(t, item.Cells, internalID)
		assert.NotContains(t, item.Cells, "unknown")
		assert.Equal(t, "Ada", item.Cells[nameID])
	}
}

func TestAutomation_SaveRequiresCompleteRule(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	board := newBoard(t, s)

	_, err := s.Automation.Create(ctx, board.ID, owner, &automation.Automation{
		Name:    "Archive new",
		Trigger: automation.Trigger{Type: types.TriggerItemCreated},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "At least one action is required")

	a, err := s.Automation.Create(ctx, board.ID, owner, &automation.Automation{
		Name:     "Archive new",
		Trigger:  automation.Trigger{Type: types.TriggerItemCreated},
		Actions:  []automation.Action{{Type: types.ActionArchiveItem}},
		IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, owner, a.CreatedBy)

	toggled, err := s.Automation.Toggle(ctx, a.ID, owner)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	list, err := s.Automation.List(ctx, board.ID, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsActive)

	_, err = s.Automation.Get(ctx, a.ID, stranger)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAutomation_TestIsADryRun(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	board := newBoard(t, s)

	res, err := s.Automation.Test(ctx, board.ID, owner, &automation.Automation{
		Name:    "Notify",
		Trigger: automation.Trigger{Type: types.TriggerItemCreated},
		Actions: []automation.Action{{Type: types.ActionSendNotification, Config: automation.Config{"message": "hi"}}},
	}, nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Len(t, res.Previews, 1)

	list, err := s.Automation.List(ctx, board.ID, owner)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestView_DefaultAndPrefs(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	board := newBoard(t, s)

	first, err := s.View.Create(ctx, board.ID, owner, ViewInput{Name: "All", IsDefault: true})
	require.NoError(t, err)
	assert.Equal(t, types.ViewTable, first.Type)

	second, err := s.View.Create(ctx, board.ID, owner, ViewInput{Name: "Board", Type: types.ViewKanban, IsDefault: true})
	require.NoError(t, err)

	_, err = s.View.Create(ctx, board.ID, owner, ViewInput{Name: "Odd", Type: "PIVOT"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	reloaded, err := s.View.Get(ctx, first.ID, owner)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)

	_, err = s.View.Open(ctx, first.ID, owner)
	require.NoError(t, err)
	_, err = s.View.Open(ctx, second.ID, owner)
	require.NoError(t, err)
	fav, err := s.View.ToggleFavorite(ctx, first.ID, owner)
	require.NoError(t, err)
	assert.True(t, fav)

	recent, err := s.View.Recent(ctx, board.ID, owner)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, second.ID, recent[0].ID)

	entries, err := s.View.List(ctx, board.ID, owner)
	require.NoError(t, err)
	for _, e := range entries {
		assert.Equal(t, e.ID == first.ID, e.IsFavorite, e.Name)
	}

	require.NoError(t, s.View.Delete(ctx, first.ID, owner))
	favs, err := s.View.Favorites(ctx, board.ID, owner)
	require.NoError(t, err)
	assert.Empty(t, favs)
	recent, err = s.View.Recent(ctx, board.ID, owner)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, second.ID, recent[0].ID)
}

func TestAuth_IssuedTokenRoundTrips(t *testing.T) {
	s := newTestServices(t)

	token, err := s.Auth.IssueToken(owner, time.Minute)
	require.NoError(t, err)
	userID, err := s.Auth.UserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, owner, userID)

	_, err = s.Auth.UserIDFromToken(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := s.Auth.IssueToken(owner, -time.Minute)
	require.NoError(t, err)
	_, err = s.Auth.UserIDFromToken(expired)
	assert.NoError(t, err, "a non-positive ttl falls back to the configured expiry")
}
