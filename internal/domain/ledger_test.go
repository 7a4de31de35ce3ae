package domain_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"example.com/workouttracker/internal/domain"
	"example.com/workouttracker/internal/gateway/memory"
)

func TestRecordRejectsUnknownUser(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ledger := domain.NewLedger(store, store)

	_, err := ledger.Record(ctx, uuid.NewString(), true)
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)

	workouts, err := ledger.ListWorkouts(ctx)
	require.NoError(t, err)
	require.Empty(t, workouts, "a failed record leaves no visible side effect")
}

func TestRecordRejectsMalformedUserID(t *testing.T) {
	store := memory.NewStore()
	ledger := domain.NewLedger(store, store)

	_, err := ledger.Record(context.Background(), "42", true)
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestCompletedCountTracksOnlyCompletedRecords(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	registry := domain.NewRegistry(store)
	ledger := domain.NewLedger(store, store)

	user, err := registry.CreateUser(ctx, "Alice", 30)
	require.NoError(t, err)

	require.Equal(t, 0, completedCount(t, ctx, registry, ledger, user.ID))

	for i := 1; i <= 3; i++ {
		_, err = ledger.Record(ctx, user.ID, true)
		require.NoError(t, err)
		require.Equal(t, i, completedCount(t, ctx, registry, ledger, user.ID))
	}

	_, err = ledger.Record(ctx, user.ID, false)
	require.NoError(t, err)
	require.Equal(t, 3, completedCount(t, ctx, registry, ledger, user.ID),
		"a missed check-in never changes the completed count")
}

func TestRecordAllowsMultiplePerDay(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	registry := domain.NewRegistry(store)
	ledger := domain.NewLedger(store, store)

	user, err := registry.CreateUser(ctx, "Alice", 30)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = ledger.Record(ctx, user.ID, true)
		require.NoError(t, err)
	}

	workouts, err := ledger.ListWorkouts(ctx)
	require.NoError(t, err)
	require.Len(t, workouts, 3)
}

func completedCount(t *testing.T, ctx context.Context, registry *domain.Registry, ledger *domain.Ledger, userID string) int {
	t.Helper()
	users, err := registry.ListUsers(ctx)
	require.NoError(t, err)
	workouts, err := ledger.ListWorkouts(ctx)
	require.NoError(t, err)
	return domain.CompletedCounts(users, workouts)[userID]
}
