//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Marga-Ghale/ora-boards-backend/internal/automation"
	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
	"github.com/Marga-Ghale/ora-boards-backend/internal/db"
	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func startPostgres(t *testing.T) *Repositories {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("ora_boards"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })

	url, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(url, ""))

	pg, err := db.NewPostgresDB(ctx, url, db.PoolOptions{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pg.Close)

	return NewPgRepositories(pg.Pool)
}

func TestPgRepositories_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repos := startPostgres(t)

	board := &Board{Name: "Launch", OwnerID: "u1"}
	require.NoError(t, repos.BoardRepo.Create(ctx, board))
	require.NotEmpty(t, board.ID)

	maxLen := 20
	col := &columns.Column{
		BoardID:  board.ID,
		Name:     "Title",
		Type:     types.ColumnText,
		Required: true,
		Width:    150,
		Settings: &columns.TextSettings{MaxLength: &maxLen},
		Conditional: &columns.Conditional{
			ShowWhen: []columns.Rule{{FieldID: "x", Operator: types.OpIsNotEmpty}},
		},
		DefaultValue: "untitled",
	}
	require.NoError(t, repos.ColumnRepo.Create(ctx, col))

	got, err := repos.ColumnRepo.FindByID(ctx, col.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	text, ok := got.Settings.(*columns.TextSettings)
	require.True(t, ok)
	require.NotNil(t, text.MaxLength)
	assert.Equal(t, 20, *text.MaxLength)
	require.NotNil(t, got.Conditional)
	assert.Len(t, got.Conditional.ShowWhen, 1)
	assert.Equal(t, "untitled", got.DefaultValue)

	item := &Item{BoardID: board.ID, Name: "First", Cells: map[string]any{col.ID: "hello"}}
	require.NoError(t, repos.ItemRepo.Create(ctx, item))
	stored, err := repos.ItemRepo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", stored.Cells[col.ID])

	a := &automation.Automation{
		BoardID:  board.ID,
		Name:     "Remind",
		Trigger:  automation.Trigger{Type: types.TriggerDateApproaching, Config: automation.Config{"columnId": col.ID, "daysBefore": 3}},
		Actions:  []automation.Action{{Type: types.ActionSendNotification, Config: automation.Config{"message": "soon"}}},
		IsActive: true,
	}
	require.NoError(t, repos.AutomationRepo.Create(ctx, a))
	gotA, err := repos.AutomationRepo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TriggerDateApproaching, gotA.Trigger.Type)
	assert.Nil(t, gotA.Conditions)
	require.Len(t, gotA.Actions, 1)

	missing, err := repos.BoardRepo.FindByID(ctx, "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPgCounter_PeriodReset(t *testing.T) {
	ctx := context.Background()
	repos := startPostgres(t)

	board := &Board{Name: "Invoices", OwnerID: "u1"}
	require.NoError(t, repos.BoardRepo.Create(ctx, board))
	col := &columns.Column{BoardID: board.ID, Name: "No.", Type: types.ColumnAutoNumber, Settings: columns.NewSettings(types.ColumnAutoNumber)}
	require.NoError(t, repos.ColumnRepo.Create(ctx, col))

	march := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	april := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	n, err := repos.CounterRepo.Next(ctx, col.ID, 1, march)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, _ = repos.CounterRepo.Next(ctx, col.ID, 1, march)
	assert.Equal(t, int64(2), n)
	n, _ = repos.CounterRepo.Next(ctx, col.ID, 1, april)
	assert.Equal(t, int64(1), n)

	dropped, err := repos.CounterRepo.ResetBefore(ctx, []string{col.ID}, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), dropped)
}
