package domain

import "context"

// UserStore captures persistence operations for user profiles. The store
// assigns generated fields (ID, CreatedAt) on insert.
type UserStore interface {
	InsertUser(ctx context.Context, user User) (User, error)
	// ListUsers returns all users ordered by CreatedAt descending.
	ListUsers(ctx context.Context) ([]User, error)
	// GetUser returns nil without error when the id is unknown.
	GetUser(ctx context.Context, id string) (*User, error)
	// DeleteUser removes the user and every workout referencing it in one
	// atomic operation. Deleting an unknown id is a no-op.
	DeleteUser(ctx context.Context, id string) error
}

// WorkoutStore captures persistence operations for workout check-ins.
type WorkoutStore interface {
	InsertWorkout(ctx context.Context, workout Workout) (Workout, error)
	// ListWorkouts returns all workouts ordered by CreatedAt descending.
	ListWorkouts(ctx context.Context) ([]Workout, error)
}

// Store is the full gateway surface consumed by the session.
type Store interface {
	UserStore
	WorkoutStore
}

// Notifier publishes lifecycle notifications after successful mutations.
// Publishing is fire-and-forget: derived views never depend on it.
type Notifier interface {
	WorkoutRecorded(ctx context.Context, workout Workout)
	UserDeleted(ctx context.Context, userID string)
}
