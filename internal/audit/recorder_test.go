package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"movieflix-backend/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	name string
	err  error

	mu      sync.Mutex
	entries []models.AuditLog
}

func (s *memorySink) Name() string { return s.name }

func (s *memorySink) Write(_ context.Context, entry *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, *entry)
	return nil
}

type countingCounter struct {
	mu       sync.Mutex
	events   map[string]int
	failures map[string]int
}

func newCountingCounter() *countingCounter {
	return &countingCounter{events: map[string]int{}, failures: map[string]int{}}
}

func (c *countingCounter) RecordAuditEvent(action string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events[action]++
}

func (c *countingCounter) RecordAuditSinkFailure(sink string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[sink]++
}

func TestRecorder_WritesToEverySink(t *testing.T) {
	logger, _ := test.NewNullLogger()
	a := &memorySink{name: "a"}
	b := &memorySink{name: "b"}
	rec := NewRecorder(logger, nil, time.Second, a, b)

	target := "u2"
	rec.Record(models.AuditLog{
		ActorID:  "u1",
		Action:   models.AuditChangeUserRole,
		TargetID: &target,
		Details:  map[string]interface{}{"newRole": "member"},
	})
	rec.Close()

	require.Len(t, a.entries, 1)
	require.Len(t, b.entries, 1)
	assert.Equal(t, "u1", a.entries[0].ActorID)
	assert.Equal(t, "u2", *b.entries[0].TargetID)
	assert.False(t, a.entries[0].CreatedAt.IsZero())
}

func TestRecorder_SinkFailureIsSwallowed(t *testing.T) {
	logger, hook := test.NewNullLogger()
	broken := &memorySink{name: "redis", err: errors.New("connection refused")}
	healthy := &memorySink{name: "db"}
	counter := newCountingCounter()
	rec := NewRecorder(logger, counter, time.Second, broken, healthy)

	rec.Record(models.AuditLog{ActorID: "u1", Action: models.AuditDeleteUser})
	rec.Close()

	assert.Len(t, healthy.entries, 1)
	assert.Equal(t, 1, counter.events[models.AuditDeleteUser])
	assert.Equal(t, 1, counter.failures["redis"])

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "redis", hook.LastEntry().Data["sink"])
}

func TestLogSink_WritesStructuredEntry(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sink := NewLogSink(logger)
	target := "m1"

	err := sink.Write(context.Background(), &models.AuditLog{
		ActorID:   "u1",
		Action:    models.AuditDeleteMovie,
		TargetID:  &target,
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	})

	require.NoError(t, err)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "DELETE_MOVIE", entry.Data["action"])
	assert.Equal(t, "m1", entry.Data["targetId"])
	assert.Equal(t, "2024-01-02T03:04:05Z", entry.Data["timestamp"])
}

func TestStreamValues(t *testing.T) {
	values, err := streamValues(&models.AuditLog{
		ActorID:   "u1",
		Action:    models.AuditViewStats,
		Details:   map[string]interface{}{"page": 1},
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, "", values["targetId"])
	assert.Equal(t, `{"page":1}`, values["details"])
	assert.Equal(t, "VIEW_STATS", values["action"])
}
