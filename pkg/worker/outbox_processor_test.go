package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasreserve/autoshop-api/internal/model"
	"github.com/rasreserve/autoshop-api/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.NewLogger(nil)
}

// Metrics are built directly so repeated test runs do not collide in the
// default registry.
func newTestMetrics() *processorMetrics {
	return &processorMetrics{
		eventsProcessed: prometheus.NewCounter(prometheus.CounterOpts{Name: "test_outbox_processed_total"}),
		eventsFailed:    prometheus.NewCounter(prometheus.CounterOpts{Name: "test_outbox_failed_total"}),
		pollLatency:     prometheus.NewHistogram(prometheus.HistogramOpts{Name: "test_outbox_poll_seconds"}),
	}
}

type fakeOutboxRepo struct {
	events map[uuid.UUID]*model.OutboxEvent
}

func (r *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	r.events[event.ID] = event
	return nil
}

func (r *fakeOutboxRepo) GetPendingEvents(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	var pending []*model.OutboxEvent
	for _, e := range r.events {
		if e.Status == model.OutboxStatusPending {
			pending = append(pending, e)
		}
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (r *fakeOutboxRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	event, ok := r.events[id]
	if !ok {
		return errors.New("event not found")
	}
	event.Status = status
	event.ErrorMessage = errMsg
	return nil
}

type fakeBroker struct {
	published map[string]int
	failures  int
}

func (b *fakeBroker) Publish(_ context.Context, channel string, _ interface{}) error {
	if b.failures > 0 {
		b.failures--
		return errors.New("broker unavailable")
	}
	b.published[channel]++
	return nil
}

func (b *fakeBroker) Subscribe(_ context.Context, _ string) (<-chan []byte, error) {
	return nil, errors.New("not implemented")
}

func (b *fakeBroker) Close() error { return nil }

func pendingEvent(eventType string) *model.OutboxEvent {
	payload, _ := json.Marshal(map[string]string{"id": uuid.NewString()})
	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
		CreatedAt: time.Now(),
	}
}

func newTestProcessor(repo *fakeOutboxRepo, broker *fakeBroker) *OutboxProcessor {
	return &OutboxProcessor{
		repo:   repo,
		broker: broker,
		config: OutboxProcessorConfig{
			BatchSize:     10,
			PollInterval:  time.Millisecond,
			RetryAttempts: 2,
			RetryDelay:    time.Millisecond,
		},
		logger:  testLogger(),
		metrics: newTestMetrics(),
	}
}

func TestProcessEventsPublishesAndMarksProcessed(t *testing.T) {
	repo := &fakeOutboxRepo{events: make(map[uuid.UUID]*model.OutboxEvent)}
	broker := &fakeBroker{published: make(map[string]int)}

	event := pendingEvent("appointment.requested")
	repo.events[event.ID] = event

	p := newTestProcessor(repo, broker)
	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, 1, broker.published["appointment.requested"])
	assert.Equal(t, model.OutboxStatusProcessed, repo.events[event.ID].Status)
}

func TestProcessEventsRetriesTransientFailure(t *testing.T) {
	repo := &fakeOutboxRepo{events: make(map[uuid.UUID]*model.OutboxEvent)}
	broker := &fakeBroker{published: make(map[string]int), failures: 1}

	event := pendingEvent("appointment.accepted")
	repo.events[event.ID] = event

	p := newTestProcessor(repo, broker)
	require.NoError(t, p.processEvents(context.Background()))

	// First attempt fails, the retry succeeds.
	assert.Equal(t, 1, broker.published["appointment.accepted"])
	assert.Equal(t, model.OutboxStatusProcessed, repo.events[event.ID].Status)
}

func TestProcessEventsMarksFailedAfterExhaustedRetries(t *testing.T) {
	repo := &fakeOutboxRepo{events: make(map[uuid.UUID]*model.OutboxEvent)}
	broker := &fakeBroker{published: make(map[string]int), failures: 10}

	event := pendingEvent("appointment.requested")
	repo.events[event.ID] = event

	p := newTestProcessor(repo, broker)
	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, model.OutboxStatusFailed, repo.events[event.ID].Status)
	require.NotNil(t, repo.events[event.ID].ErrorMessage)
	assert.Contains(t, *repo.events[event.ID].ErrorMessage, "broker unavailable")
}

func TestProcessedEventsAreNotRepublished(t *testing.T) {
	repo := &fakeOutboxRepo{events: make(map[uuid.UUID]*model.OutboxEvent)}
	broker := &fakeBroker{published: make(map[string]int)}

	event := pendingEvent("appointment.requested")
	repo.events[event.ID] = event

	p := newTestProcessor(repo, broker)
	require.NoError(t, p.processEvents(context.Background()))
	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, 1, broker.published["appointment.requested"])
}
