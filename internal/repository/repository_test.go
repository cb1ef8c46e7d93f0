package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Marga-Ghale/ora-boards-backend/internal/automation"
	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryColumns_OrderedByPosition(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()

	for i, name := range []string{"Status", "Owner", "Due"} {
		c := &columns.Column{BoardID: "b1", Name: name, Type: types.ColumnText, Position: 2 - i}
		require.NoError(t, repos.ColumnRepo.Create(ctx, c))
		require.NotEmpty(t, c.ID)
	}
	require.NoError(t, repos.ColumnRepo.Create(ctx, &columns.Column{BoardID: "b2", Name: "Other", Type: types.ColumnText}))

	cols, err := repos.ColumnRepo.FindByBoardID(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.Equal(t, "Due", cols[0].Name)
	assert.Equal(t, "Status", cols[2].Name)

	next, err := repos.ColumnRepo.NextPosition(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 3, next)

	require.NoError(t, repos.ColumnRepo.Reorder(ctx, "b1", []string{cols[2].ID, cols[1].ID, cols[0].ID}))
	cols, err = repos.ColumnRepo.FindByBoardID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Status", "Owner", "Due"}, []string{cols[0].Name, cols[1].Name, cols[2].Name})
}

func TestInMemoryFindByID_NotFoundIsNil(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories()

	b, err := repos.BoardRepo.FindByID(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, b)

	it, err := repos.ItemRepo.FindByID(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, it)

	a, err := repos.AutomationRepo.FindByID(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, a)
}

func TestInMemoryItems_CellsAreCopied(t *testing.T) {
	ctx := context.Background()
	repo := newInMemoryItemRepository()

	item := &Item{BoardID: "b1", Name: "Task", Cells: map[string]any{"c1": "a"}}
	require.NoError(t, repo.Create(ctx, item))
	assert.Equal(t, "active", item.State)

	item.Cells["c1"] = "mutated"
	stored, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", stored.Cells["c1"])
}

func TestInMemoryItems_ArchivedHiddenByDefault(t *testing.T) {
	ctx := context.Background()
	repo := newInMemoryItemRepository()

	require.NoError(t, repo.Create(ctx, &Item{BoardID: "b1", Name: "Live"}))
	require.NoError(t, repo.Create(ctx, &Item{BoardID: "b1", Name: "Old", State: "archived", Position: 1}))

	active, err := repo.FindByBoardID(ctx, "b1", false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Live", active[0].Name)

	all, err := repo.FindByBoardID(ctx, "b1", true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestInMemoryAutomations_SetActive(t *testing.T) {
	ctx := context.Background()
	repo := newInMemoryAutomationRepository()

	a := &automation.Automation{
		BoardID:  "b1",
		Name:     "Notify",
		Trigger:  automation.Trigger{Type: "item_created", Config: automation.Config{}},
		Actions:  []automation.Action{{Type: "notify", Config: automation.Config{"message": "hi"}}},
		IsActive: true,
	}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.SetActive(ctx, a.ID, false))

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	list, err := repo.FindByBoardID(ctx, "b1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestInMemoryViews_DefaultFirstAndClearDefault(t *testing.T) {
	ctx := context.Background()
	repo := newInMemoryViewRepository()

	first := &SavedView{BoardID: "b1", OwnerID: "u1", Name: "All", Type: types.ViewTable}
	second := &SavedView{BoardID: "b1", OwnerID: "u1", Name: "Mine", Type: types.ViewKanban, IsDefault: true}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	views, err := repo.FindByBoardID(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Mine", views[0].Name)
	assert.NotNil(t, views[0].Settings.Filters)
	assert.NotNil(t, views[0].Settings.Columns)

	require.NoError(t, repo.ClearDefault(ctx, "b1", first.ID))
	got, err := repo.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDefault)
}

func TestInMemoryCounter_IncrementsAndResetsOnNewPeriod(t *testing.T) {
	ctx := context.Background()
	repo := newInMemoryCounterRepository()

	n, err := repo.Next(ctx, "col", 100, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(100), n)
	n, _ = repo.Next(ctx, "col", 100, time.Time{})
	assert.Equal(t, int64(101), n)

	march := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	april := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	n, _ = repo.Next(ctx, "monthly", 1, march)
	assert.Equal(t, int64(1), n)
	n, _ = repo.Next(ctx, "monthly", 1, march)
	assert.Equal(t, int64(2), n)
	n, _ = repo.Next(ctx, "monthly", 1, april)
	assert.Equal(t, int64(1), n)
}

func TestInMemoryCounter_ResetBefore(t *testing.T) {
	ctx := context.Background()
	repo := newInMemoryCounterRepository()

	march := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	april := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	_, _ = repo.Next(ctx, "old", 1, march)
	_, _ = repo.Next(ctx, "current", 1, april)

	n, err := repo.ResetBefore(ctx, []string{"old", "current", "unknown"}, april)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	v, _ := repo.Next(ctx, "current", 1, april)
	assert.Equal(t, int64(2), v)
}
