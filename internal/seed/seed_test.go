package seed

import (
	"context"
	"testing"

	"github.com/Marga-Ghale/ora-boards-backend/internal/config"
	"github.com/Marga-Ghale/ora-boards-backend/internal/repository"
	"github.com/Marga-Ghale/ora-boards-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDemoBoard(t *testing.T) {
	ctx := context.Background()
	services := service.NewServices(&service.ServiceDeps{
		Config: &config.Config{JWTSecret: "seed"},
		Repos:  repository.NewRepositories(),
	})

	fixture, err := Load("")
	require.NoError(t, err)
	require.NotEmpty(t, fixture.Columns)

	board, err := SeedData(ctx, services, fixture)
	require.NoError(t, err)
	assert.True(t, board.FormPublic)

	cols, err := services.Column.List(ctx, board.ID, DemoOwnerID)
	require.NoError(t, err)
	assert.Len(t, cols, len(fixture.Columns))

	var ticketID string
	for _, c := range cols {
		if c.Name == "Ticket" {
			ticketID = c.ID
		}
	}
	require.NotEmpty(t, ticketID)

	items, err := services.Item.List(ctx, board.ID, DemoOwnerID, false)
	require.NoError(t, err)
	require.Len(t, items, len(fixture.Items))
	assert.Equal(t, "REQ-0001", items[0].Cells[ticketID])
	assert.Equal(t, "REQ-0002", items[1].Cells[ticketID])

	views, err := services.View.List(ctx, board.ID, DemoOwnerID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.True(t, views[0].IsDefault)

	rules, err := services.Automation.List(ctx, board.ID, DemoOwnerID)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	again, err := SeedData(ctx, services, fixture)
	require.NoError(t, err)
	assert.Equal(t, board.ID, again.ID)
	boards, err := services.Board.List(ctx, DemoOwnerID)
	require.NoError(t, err)
	assert.Len(t, boards, 1)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}
