package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCompletedCountsZeroValuedForEveryUser(t *testing.T) {
	users := []User{{ID: "a"}, {ID: "b"}}
	workouts := []Workout{
		{ID: "w1", UserID: "a", Completed: true},
		{ID: "w2", UserID: "a", Completed: false},
		{ID: "w3", UserID: "a", Completed: true},
	}

	counts := CompletedCounts(users, workouts)

	require.Len(t, counts, 2)
	require.Equal(t, 2, counts["a"])
	require.Equal(t, 0, counts["b"], "user with no completed workouts must map to 0, not be absent")
}

func TestCompletedCountsIgnoresUnknownOwners(t *testing.T) {
	users := []User{{ID: "a"}}
	workouts := []Workout{{ID: "w1", UserID: "ghost", Completed: true}}

	counts := CompletedCounts(users, workouts)

	require.Equal(t, map[string]int{"a": 0}, counts)
}

func TestLeaderboardStableTieBreak(t *testing.T) {
	// Input order is created_at descending; equal counts must keep it.
	users := []User{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}}
	counts := map[string]int{"a": 3, "b": 5, "c": 3}

	ranked := Leaderboard(users, counts)

	require.Equal(t, []string{"b", "a", "c"}, idsOf(ranked))
}

func TestLeaderboardDefaultsMissingCountsToZero(t *testing.T) {
	users := []User{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	counts := map[string]int{"b": 1}

	ranked := Leaderboard(users, counts)

	require.Equal(t, []string{"b", "a", "c"}, idsOf(ranked))
}

func TestLeaderboardIsPermutationOfInput(t *testing.T) {
	users := []User{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	counts := map[string]int{"a": 1, "b": 4, "c": 2, "d": 4}

	ranked := Leaderboard(users, counts)

	require.Len(t, ranked, len(users))
	require.ElementsMatch(t, idsOf(users), idsOf(ranked))
	require.Equal(t, []string{"b", "d", "c", "a"}, idsOf(ranked))
}

func TestRecentFeedBoundedAndNewestFirst(t *testing.T) {
	base := time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)
	users := []User{{ID: "a", Name: "Alice"}}

	workouts := make([]Workout, 0, 11)
	for i := 0; i < 11; i++ {
		workouts = append(workouts, Workout{
			ID:        string(rune('a' + i)),
			UserID:    "a",
			Completed: true,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	feed := RecentFeed(users, workouts, DefaultFeedLimit)

	require.Len(t, feed, DefaultFeedLimit)
	for i := 1; i < len(feed); i++ {
		require.False(t, feed[i].Workout.CreatedAt.After(feed[i-1].Workout.CreatedAt),
			"feed must be non-increasing in created_at")
	}
	// The 11th (oldest) workout is dropped.
	for _, e := range feed {
		require.NotEqual(t, base, e.Workout.CreatedAt)
	}
}

func TestRecentFeedSkipsIncompleteWorkouts(t *testing.T) {
	users := []User{{ID: "a", Name: "Alice"}}
	workouts := []Workout{
		{ID: "w1", UserID: "a", Completed: false, CreatedAt: time.Now()},
	}

	require.Empty(t, RecentFeed(users, workouts, DefaultFeedLimit))
}

func TestRecentFeedFallsBackToPlaceholderOwner(t *testing.T) {
	workouts := []Workout{
		{ID: "w1", UserID: "ghost", Completed: true, CreatedAt: time.Now()},
	}

	feed := RecentFeed(nil, workouts, DefaultFeedLimit)

	require.Len(t, feed, 1)
	require.Equal(t, UnknownOwnerName, feed[0].OwnerName)
}

func idsOf(users []User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}
