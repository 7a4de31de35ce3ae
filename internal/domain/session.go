package domain

import (
	"context"
	"sync"

	"example.com/workouttracker/internal/observability"
)

// State names the session's position in its user-selection state machine.
type State string

const (
	StateNoUser State = "no_user"
	StateActive State = "active"
)

// Snapshot is the derived view of the registry and ledger as of the last
// refresh. It is recomputed in full after every mutation, never patched
// incrementally, so out-of-band store changes cannot make it drift.
type Snapshot struct {
	Users       []User
	Counts      map[string]int
	Leaderboard []User
	Feed        []FeedEntry
}

// Session holds the currently selected user and sequences every mutating
// operation against the registry and ledger. At most one mutation is in
// flight at a time; a second call while busy is rejected with ErrBusy.
type Session struct {
	registry  *Registry
	ledger    *Ledger
	notifier  Notifier
	feedLimit int

	inflight sync.Mutex

	mu       sync.RWMutex
	current  *User
	lastErr  string
	snapshot Snapshot
}

// SessionOption configures optional session behaviour.
type SessionOption func(*Session)

// WithNotifier attaches a lifecycle event publisher.
func WithNotifier(n Notifier) SessionOption {
	return func(s *Session) { s.notifier = n }
}

// WithFeedLimit overrides the recent-feed bound.
func WithFeedLimit(limit int) SessionOption {
	return func(s *Session) {
		if limit > 0 {
			s.feedLimit = limit
		}
	}
}

// NewSession constructs a Session in the NoUser state.
func NewSession(registry *Registry, ledger *Ledger, opts ...SessionOption) *Session {
	s := &Session{
		registry:  registry,
		ledger:    ledger,
		feedLimit: DefaultFeedLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports whether a user is currently selected.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return StateNoUser
	}
	return StateActive
}

// CurrentUser returns a copy of the selected user, nil in NoUser.
func (s *Session) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

// LastError returns the message from the most recent failed operation, empty
// after a success.
func (s *Session) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Snapshot returns the derived views from the last refresh.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Refresh re-queries the registry and ledger and recomputes every derived
// view from the fresh snapshots.
func (s *Session) Refresh(ctx context.Context) error {
	users, err := s.registry.ListUsers(ctx)
	if err != nil {
		return s.fail(err)
	}
	workouts, err := s.ledger.ListWorkouts(ctx)
	if err != nil {
		return s.fail(err)
	}

	counts := CompletedCounts(users, workouts)
	snapshot := Snapshot{
		Users:       users,
		Counts:      counts,
		Leaderboard: Leaderboard(users, counts),
		Feed:        RecentFeed(users, workouts, s.feedLimit),
	}
	observability.SetRegisteredUsers(len(users))

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()
	return nil
}

// Select makes the given user current. The id must resolve.
func (s *Session) Select(ctx context.Context, userID string) error {
	user, err := s.registry.GetUser(ctx, userID)
	if err != nil {
		return s.fail(err)
	}
	if user == nil {
		return s.fail(&NotFoundError{Kind: "user", ID: userID})
	}

	s.mu.Lock()
	s.current = user
	s.lastErr = ""
	s.mu.Unlock()
	return nil
}

// SwitchUser clears the current selection.
func (s *Session) SwitchUser() {
	s.mu.Lock()
	s.current = nil
	s.lastErr = ""
	s.mu.Unlock()
}

// Register creates a new user and makes it current.
func (s *Session) Register(ctx context.Context, name string, age int) (*User, error) {
	if !s.inflight.TryLock() {
		return nil, ErrBusy
	}
	defer s.inflight.Unlock()

	user, err := s.registry.CreateUser(ctx, name, age)
	if err != nil {
		return nil, s.fail(err)
	}

	s.mu.Lock()
	s.current = user
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		return user, err
	}
	return user, nil
}

// RecordWorkout appends a check-in for the current user.
func (s *Session) RecordWorkout(ctx context.Context, completed bool) (*Workout, error) {
	if !s.inflight.TryLock() {
		return nil, ErrBusy
	}
	defer s.inflight.Unlock()

	current := s.CurrentUser()
	if current == nil {
		return nil, s.fail(validationErrorf("no user selected"))
	}

	workout, err := s.ledger.Record(ctx, current.ID, completed)
	if err != nil {
		return nil, s.fail(err)
	}

	if s.notifier != nil {
		s.notifier.WorkoutRecorded(ctx, *workout)
	}

	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		return workout, err
	}
	return workout, nil
}

// DeleteUser removes a user and all of its workouts. Deleting the currently
// selected user also clears the selection.
func (s *Session) DeleteUser(ctx context.Context, userID string) error {
	if !s.inflight.TryLock() {
		return ErrBusy
	}
	defer s.inflight.Unlock()

	if err := s.registry.DeleteUser(ctx, userID); err != nil {
		return s.fail(err)
	}

	if s.notifier != nil {
		s.notifier.UserDeleted(ctx, userID)
	}

	s.mu.Lock()
	if s.current != nil && s.current.ID == userID {
		s.current = nil
	}
	s.lastErr = ""
	s.mu.Unlock()

	return s.Refresh(ctx)
}

func (s *Session) fail(err error) error {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
	return err
}
