package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/completeinfo/internal/database/repository"
)

func TestClearHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	history, db := newHistoryDB(t)
	for _, outcome := range []string{repository.OutcomeFound, repository.OutcomeNotFound} {
		require.NoError(t, history.Record(ctx, repository.FetchLogEntry{UserID: 1, Outcome: outcome}))
	}

	m := &MaintenanceService{DB: db}
	n, err := m.ClearHistory(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	entries, err := history.Recent(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, entries)

	require.NoError(t, history.Record(ctx, repository.FetchLogEntry{UserID: 2, Outcome: repository.OutcomeFound}))

	_, err = (&MaintenanceService{}).ClearHistory(ctx)
	require.Error(t, err)
}
