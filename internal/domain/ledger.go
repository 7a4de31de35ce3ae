package domain

import (
	"context"

	"github.com/google/uuid"

	"example.com/workouttracker/internal/observability"
)

// Ledger is the append-only record of workout check-ins. Entries are never
// updated or deleted directly; removal happens only through user deletion.
type Ledger struct {
	workouts WorkoutStore
	users    UserStore
}

// NewLedger constructs a Ledger.
func NewLedger(workouts WorkoutStore, users UserStore) *Ledger {
	return &Ledger{workouts: workouts, users: users}
}

// Record appends one check-in for the user. The owner is resolved before the
// insert so an unknown user fails the same way on every store backend.
// Multiple records per user per day are permitted.
func (l *Ledger) Record(ctx context.Context, userID string, completed bool) (*Workout, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, validationErrorf("invalid user id %q", userID)
	}

	owner, err := l.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, validationErrorf("unknown user %s", userID)
	}

	recorded, err := l.workouts.InsertWorkout(ctx, Workout{UserID: userID, Completed: completed})
	if err != nil {
		return nil, err
	}

	observability.RecordWorkoutPersisted(completed, recorded.CreatedAt)
	return &recorded, nil
}

// ListWorkouts returns every check-in, newest first.
func (l *Ledger) ListWorkouts(ctx context.Context) ([]Workout, error) {
	return l.workouts.ListWorkouts(ctx)
}
