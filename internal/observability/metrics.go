package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutsRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workout_tracker",
		Subsystem: "ledger",
		Name:      "workouts_recorded_total",
		Help:      "Workout check-ins appended to the ledger, by outcome.",
	}, []string{"outcome"})
	lastWorkoutGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workout_tracker",
		Subsystem: "ledger",
		Name:      "last_workout_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent workout written to the store.",
	})
	registeredUsersGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workout_tracker",
		Subsystem: "registry",
		Name:      "registered_users",
		Help:      "Number of users in the registry as of the last refresh.",
	})
)

func init() {
	prometheus.MustRegister(workoutsRecorded, lastWorkoutGauge, registeredUsersGauge)
}

// RecordWorkoutPersisted updates the check-in counter and watermark gauge.
func RecordWorkoutPersisted(completed bool, ts time.Time) {
	outcome := "skipped"
	if completed {
		outcome = "completed"
	}
	workoutsRecorded.WithLabelValues(outcome).Inc()
	if !ts.IsZero() {
		lastWorkoutGauge.Set(float64(ts.Unix()))
	}
}

// SetRegisteredUsers updates the registry size gauge.
func SetRegisteredUsers(n int) {
	registeredUsersGauge.Set(float64(n))
}
