// Package events publishes lifecycle notifications to Kafka.
package events

import "time"

// Topics carrying tracker lifecycle events.
const (
	TopicWorkoutEvents = "workout_events"
	TopicUserEvents    = "user_events"
)

// WorkoutRecorded is emitted after a check-in is persisted.
type WorkoutRecorded struct {
	WorkoutID  string    `json:"workout_id"`
	UserID     string    `json:"user_id"`
	Completed  bool      `json:"completed"`
	RecordedAt time.Time `json:"recorded_at"`
}

// UserDeleted is emitted after a user and its workouts are removed.
type UserDeleted struct {
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
