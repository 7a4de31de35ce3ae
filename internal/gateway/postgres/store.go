// Package postgres implements the store gateway on PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/workouttracker/internal/domain"
)

const foreignKeyViolation = "23503"

// Store provides Postgres-backed persistence for users and workouts.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// InsertUser persists a new user. ID and creation timestamp come from column
// defaults so they are assigned by the store, not the caller.
func (s *Store) InsertUser(ctx context.Context, user domain.User) (domain.User, error) {
	const stmt = `INSERT INTO users (name, age) VALUES ($1, $2)
        RETURNING id::text, created_at`

	row := s.pool.QueryRow(ctx, stmt, user.Name, user.Age)
	if err := row.Scan(&user.ID, &user.CreatedAt); err != nil {
		return domain.User{}, &domain.GatewayError{Op: "insert user", Err: err}
	}
	return user, nil
}

// ListUsers returns all users, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT id::text, name, age, created_at FROM users
        ORDER BY created_at DESC, id DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, &domain.GatewayError{Op: "list users", Err: err}
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Age, &u.CreatedAt); err != nil {
			return nil, &domain.GatewayError{Op: "list users", Err: err}
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.GatewayError{Op: "list users", Err: err}
	}
	return users, nil
}

// GetUser returns the user with the given id, nil when absent.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT id::text, name, age, created_at FROM users WHERE id = $1::uuid`

	var u domain.User
	row := s.pool.QueryRow(ctx, query, id)
	if err := row.Scan(&u.ID, &u.Name, &u.Age, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, &domain.GatewayError{Op: "get user", Err: err}
	}
	return &u, nil
}

// DeleteUser removes the user and its workouts in a single transaction. The
// schema carries an ON DELETE CASCADE foreign key as well, but the dependent
// rows are deleted explicitly so the cascade never depends on unstated store
// configuration. Unknown ids delete zero rows and succeed.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return &domain.GatewayError{Op: "delete user", Err: err}
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM workouts WHERE user_id = $1::uuid`, id); err != nil {
		return &domain.GatewayError{Op: "delete user workouts", Err: err}
	}
	if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1::uuid`, id); err != nil {
		return &domain.GatewayError{Op: "delete user", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return &domain.GatewayError{Op: "delete user", Err: err}
	}
	return nil
}

// InsertWorkout appends one check-in. A foreign-key rejection maps to a
// validation failure so callers see the same error as the pre-check.
func (s *Store) InsertWorkout(ctx context.Context, workout domain.Workout) (domain.Workout, error) {
	const stmt = `INSERT INTO workouts (user_id, completed) VALUES ($1::uuid, $2)
        RETURNING id::text, created_at`

	row := s.pool.QueryRow(ctx, stmt, workout.UserID, workout.Completed)
	if err := row.Scan(&workout.ID, &workout.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return domain.Workout{}, &domain.ValidationError{Reason: "unknown user " + workout.UserID}
		}
		return domain.Workout{}, &domain.GatewayError{Op: "insert workout", Err: err}
	}
	return workout, nil
}

// ListWorkouts returns all check-ins, newest first.
func (s *Store) ListWorkouts(ctx context.Context) ([]domain.Workout, error) {
	const query = `SELECT id::text, user_id::text, completed, created_at FROM workouts
        ORDER BY created_at DESC, id DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, &domain.GatewayError{Op: "list workouts", Err: err}
	}
	defer rows.Close()

	workouts := make([]domain.Workout, 0)
	for rows.Next() {
		var w domain.Workout
		if err := rows.Scan(&w.ID, &w.UserID, &w.Completed, &w.CreatedAt); err != nil {
			return nil, &domain.GatewayError{Op: "list workouts", Err: err}
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.GatewayError{Op: "list workouts", Err: err}
	}
	return workouts, nil
}
