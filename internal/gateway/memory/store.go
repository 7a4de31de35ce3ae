// Package memory implements the store gateway in process memory for local
// development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"example.com/workouttracker/internal/domain"
)

// Store keeps users and workouts in insertion order behind a mutex.
type Store struct {
	mu       sync.RWMutex
	users    []domain.User
	workouts []domain.Workout
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{}
}

// InsertUser assigns generated fields and stores the user.
func (s *Store) InsertUser(ctx context.Context, user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	s.users = append(s.users, user)
	return user, nil
}

// ListUsers returns users newest first. Equal timestamps keep reverse
// insertion order, matching the created_at DESC, id DESC store ordering.
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.User, 0, len(s.users))
	for i := len(s.users) - 1; i >= 0; i-- {
		out = append(out, s.users[i])
	}
	return out, nil
}

// GetUser returns nil when the id is unknown.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			copied := u
			return &copied, nil
		}
	}
	return nil, nil
}

// DeleteUser removes the user and every workout referencing it. Unknown ids
// are a no-op.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := s.users[:0]
	for _, u := range s.users {
		if u.ID != id {
			users = append(users, u)
		}
	}
	s.users = users

	workouts := s.workouts[:0]
	for _, w := range s.workouts {
		if w.UserID != id {
			workouts = append(workouts, w)
		}
	}
	s.workouts = workouts
	return nil
}

// InsertWorkout assigns generated fields and appends the check-in.
func (s *Store) InsertWorkout(ctx context.Context, workout domain.Workout) (domain.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := false
	for _, u := range s.users {
		if u.ID == workout.UserID {
			known = true
			break
		}
	}
	if !known {
		return domain.Workout{}, &domain.ValidationError{Reason: "unknown user " + workout.UserID}
	}

	workout.ID = uuid.NewString()
	workout.CreatedAt = time.Now().UTC()
	s.workouts = append(s.workouts, workout)
	return workout, nil
}

// ListWorkouts returns check-ins newest first.
func (s *Store) ListWorkouts(ctx context.Context) ([]domain.Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Workout, 0, len(s.workouts))
	for i := len(s.workouts) - 1; i >= 0; i-- {
		out = append(out, s.workouts[i])
	}
	return out, nil
}
