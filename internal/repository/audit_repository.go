package repository

import (
	"context"
	"time"

	"movieflix-backend/internal/database"
	"movieflix-backend/internal/models"
)

// AuditRepository is append-only: there is no update or delete.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	FindRecent(ctx context.Context, limit int) ([]models.AuditLog, error)
}

type auditRepository struct {
	db      *database.Database
	timeout time.Duration
}

func NewAuditRepository(db *database.Database) AuditRepository {
	return &auditRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *auditRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepository) FindRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var logs []models.AuditLog
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
