// Package domain defines the business logic for the workout tracker.
package domain

import "time"

// User is a registered participant. Profiles are immutable after creation;
// there is no update path, only create and delete.
type User struct {
	ID        string
	Name      string
	Age       int
	CreatedAt time.Time
}

// Workout is a single daily check-in outcome tied to one user. Rows are
// append-only and are removed only when the owning user is deleted.
type Workout struct {
	ID        string
	UserID    string
	Completed bool
	CreatedAt time.Time
}

// FeedEntry pairs a completed workout with its owner's display name.
type FeedEntry struct {
	Workout   Workout
	OwnerName string
}
