package domain

import "sort"

// DefaultFeedLimit bounds the recent-activity feed.
const DefaultFeedLimit = 10

// UnknownOwnerName is shown when a workout's owner can no longer be resolved.
// Cascade delete makes orphans impossible through this code path, but a store
// returning one degrades to a placeholder instead of failing the feed.
const UnknownOwnerName = "Unknown User"

// CompletedCounts groups completed workouts by owner. Every user appears in
// the result, users with no completed workouts map to zero.
func CompletedCounts(users []User, workouts []Workout) map[string]int {
	counts := make(map[string]int, len(users))
	for _, u := range users {
		counts[u.ID] = 0
	}
	for _, w := range workouts {
		if !w.Completed {
			continue
		}
		if _, known := counts[w.UserID]; known {
			counts[w.UserID]++
		}
	}
	return counts
}

// Leaderboard orders users by completed count, highest first. Users with
// equal counts keep their relative order from the input sequence, so the
// result is reproducible from the same snapshots.
func Leaderboard(users []User, counts map[string]int) []User {
	ranked := make([]User, len(users))
	copy(ranked, users)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i].ID] > counts[ranked[j].ID]
	})
	return ranked
}

// RecentFeed returns the most recent completed workouts, newest first, each
// paired with its owner's name. limit <= 0 falls back to DefaultFeedLimit.
func RecentFeed(users []User, workouts []Workout, limit int) []FeedEntry {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	completed := make([]Workout, 0, len(workouts))
	for _, w := range workouts {
		if w.Completed {
			completed = append(completed, w)
		}
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].CreatedAt.After(completed[j].CreatedAt)
	})
	if len(completed) > limit {
		completed = completed[:limit]
	}

	feed := make([]FeedEntry, 0, len(completed))
	for _, w := range completed {
		name, ok := names[w.UserID]
		if !ok {
			name = UnknownOwnerName
		}
		feed = append(feed, FeedEntry{Workout: w, OwnerName: name})
	}
	return feed
}
