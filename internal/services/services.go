package services

import "movieflix-backend/internal/models"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Actor identifies who performs a mutation and from where.
type Actor struct {
	UserID string
	IP     string
}

// Auditor receives audit records; *audit.Recorder satisfies it.
type Auditor interface {
	Record(entry models.AuditLog)
}

// MutationCounter is the slice of the metrics collector services report to.
type MutationCounter interface {
	RecordCatalogMutation(op string)
	RecordWatchlistChange(op string)
}

type noopCounter struct{}

func (noopCounter) RecordCatalogMutation(string) {}
func (noopCounter) RecordWatchlistChange(string) {}

func counterOrNoop(c MutationCounter) MutationCounter {
	if c == nil {
		return noopCounter{}
	}
	return c
}

// clampPage normalizes 1-indexed paging input.
func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

func auditEntry(actor Actor, action string, targetID string, details map[string]interface{}) models.AuditLog {
	entry := models.AuditLog{
		ActorID: actor.UserID,
		Action:  action,
		Details: details,
		IP:      actor.IP,
	}
	if targetID != "" {
		entry.TargetID = &targetID
	}
	return entry
}
