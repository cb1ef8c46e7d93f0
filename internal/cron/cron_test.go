package cron

import (
	"context"
	"testing"
	"time"

	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
	"github.com/Marga-Ghale/ora-boards-backend/internal/repository"
	"github.com/Marga-Ghale/ora-boards-backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetCounters(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewRepositories()

	daily := &columns.Column{BoardID: "b1", Name: "Ticket", Type: types.ColumnAutoNumber,
		Settings: &columns.AutoNumberSettings{StartNumber: 1, ResetOn: columns.ResetDaily}}
	never := &columns.Column{BoardID: "b1", Name: "Ref", Type: types.ColumnAutoNumber,
		Settings: &columns.AutoNumberSettings{StartNumber: 1, ResetOn: columns.ResetNever}}
	require.NoError(t, repos.ColumnRepo.Create(ctx, daily))
	require.NoError(t, repos.ColumnRepo.Create(ctx, never))

	today := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	_, err := repos.CounterRepo.Next(ctx, daily.ID, 1, columns.PeriodStart(columns.ResetDaily, yesterday))
	require.NoError(t, err)
	_, err = repos.CounterRepo.Next(ctx, never.ID, 1, time.Time{})
	require.NoError(t, err)

	s := NewScheduler(repos.ColumnRepo, repos.CounterRepo)
	s.now = func() time.Time { return today }

	n, err := s.ResetCounters(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// The never-reset sequence keeps counting.
	next, err := repos.CounterRepo.Next(ctx, never.ID, 1, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), next)

	n, err = s.ResetCounters(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestScheduleParses(t *testing.T) {
	s := NewScheduler(nil, nil)
	require.NoError(t, s.Start())
	s.Stop()
}
