package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"movieflix-backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Store is the subset of the audit repository used by DBSink.
type Store interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

// DBSink appends records to the audit_logs table.
type DBSink struct {
	store Store
}

func NewDBSink(store Store) *DBSink {
	return &DBSink{store: store}
}

func (s *DBSink) Name() string { return "db" }

func (s *DBSink) Write(ctx context.Context, entry *models.AuditLog) error {
	if err := s.store.Create(ctx, entry); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// RedisStreamSink appends records to a capped redis stream.
type RedisStreamSink struct {
	client redis.Cmdable
	stream string
	maxLen int64
}

func NewRedisStreamSink(client redis.Cmdable, stream string, maxLen int64) *RedisStreamSink {
	return &RedisStreamSink{client: client, stream: stream, maxLen: maxLen}
}

func (s *RedisStreamSink) Name() string { return "redis" }

func (s *RedisStreamSink) Write(ctx context.Context, entry *models.AuditLog) error {
	values, err := streamValues(entry)
	if err != nil {
		return err
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: values,
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}

func streamValues(entry *models.AuditLog) (map[string]interface{}, error) {
	details := "{}"
	if len(entry.Details) > 0 {
		raw, err := json.Marshal(entry.Details)
		if err != nil {
			return nil, fmt.Errorf("encode audit details: %w", err)
		}
		details = string(raw)
	}

	target := ""
	if entry.TargetID != nil {
		target = *entry.TargetID
	}

	return map[string]interface{}{
		"actorId":   entry.ActorID,
		"action":    entry.Action,
		"targetId":  target,
		"details":   details,
		"ip":        entry.IP,
		"timestamp": entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	}, nil
}

// LogSink writes records as structured log lines.
type LogSink struct {
	logger *logrus.Logger
}

func NewLogSink(logger *logrus.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Write(_ context.Context, entry *models.AuditLog) error {
	fields := logrus.Fields{
		"audit":     true,
		"actorId":   entry.ActorID,
		"action":    entry.Action,
		"ip":        entry.IP,
		"timestamp": entry.CreatedAt.UTC().Format(time.RFC3339),
	}
	if entry.TargetID != nil {
		fields["targetId"] = *entry.TargetID
	}
	if len(entry.Details) > 0 {
		fields["details"] = entry.Details
	}
	s.logger.WithFields(fields).Info("Admin action")
	return nil
}
