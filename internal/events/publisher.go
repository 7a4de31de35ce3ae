package events

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"example.com/workouttracker/internal/domain"
)

// Publisher writes lifecycle events to Kafka, lazily managing one writer per
// topic. Publishing is best effort: failures are logged, never surfaced to
// the mutation that triggered them.
type Publisher struct {
	brokers []string
	logger  *log.Logger

	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

// NewPublisher creates a Publisher for the given brokers.
func NewPublisher(brokers []string, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.Default()
	}
	return &Publisher{
		brokers: brokers,
		logger:  logger,
		writers: make(map[string]*kafka.Writer),
	}
}

// WorkoutRecorded implements domain.Notifier.
func (p *Publisher) WorkoutRecorded(ctx context.Context, workout domain.Workout) {
	p.publish(ctx, TopicWorkoutEvents, workout.UserID, WorkoutRecorded{
		WorkoutID:  workout.ID,
		UserID:     workout.UserID,
		Completed:  workout.Completed,
		RecordedAt: workout.CreatedAt,
	})
}

// UserDeleted implements domain.Notifier.
func (p *Publisher) UserDeleted(ctx context.Context, userID string) {
	p.publish(ctx, TopicUserEvents, userID, UserDeleted{
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	})
}

func (p *Publisher) publish(ctx context.Context, topic, key string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Printf("events: marshal %s: %v", topic, err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: body,
		Time:  time.Now().UTC(),
	}
	if err := p.writerForTopic(topic).WriteMessages(ctx, msg); err != nil {
		p.logger.Printf("events: publish %s: %v", topic, err)
	}
}

func (p *Publisher) writerForTopic(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if writer, ok := p.writers[topic]; ok {
		return writer
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(p.brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Snappy,
		Async:        false,
	}
	p.writers[topic] = writer
	return writer
}

// Close releases all writers.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.writers, topic)
	}
	return firstErr
}
