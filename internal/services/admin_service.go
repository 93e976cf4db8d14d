package services

import (
	"context"
	"fmt"
	"time"

	"movieflix-backend/internal/apperror"
	"movieflix-backend/internal/models"
	"movieflix-backend/internal/repository"

	"github.com/sirupsen/logrus"
)

const (
	msgInvalidRole      = "Invalid role"
	msgOwnRole          = "Cannot change your own role"
	msgOwnAccount       = "Cannot delete your own account"
	msgAdminUndeletable = "Cannot delete admin users. Please demote to member first."
)

// AdminService backs the admin console. Callers must already have passed the
// admin gate; the self-protection rules are enforced here.
type AdminService interface {
	ListUsers(ctx context.Context, actor Actor) ([]models.User, error)
	ChangeRole(ctx context.Context, actor Actor, targetID, role string) (*models.User, error)
	DeleteUser(ctx context.Context, actor Actor, targetID string) error
	Stats(ctx context.Context, actor Actor) (*models.AdminStats, error)
	AuditTrail(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// AuditReader reads back the database audit sink.
type AuditReader interface {
	FindRecent(ctx context.Context, limit int) ([]models.AuditLog, error)
}

type adminService struct {
	users   repository.UserRepository
	movies  repository.MovieRepository
	audits  AuditReader
	auditor Auditor
	logger  *logrus.Logger
	now     func() time.Time
}

func NewAdminService(users repository.UserRepository, movies repository.MovieRepository, audits AuditReader, auditor Auditor, logger *logrus.Logger) AdminService {
	return &adminService{
		users:   users,
		movies:  movies,
		audits:  audits,
		auditor: auditor,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *adminService) ListUsers(ctx context.Context, actor Actor) ([]models.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	s.auditor.Record(auditEntry(actor, models.AuditViewUsers, "", nil))
	return users, nil
}

func (s *adminService) ChangeRole(ctx context.Context, actor Actor, targetID, role string) (*models.User, error) {
	if !models.IsValidRole(role) {
		return nil, apperror.Validation(msgInvalidRole)
	}
	if targetID == actor.UserID {
		return nil, apperror.InvalidSelfAction(msgOwnRole)
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if target == nil {
		return nil, apperror.NotFound(msgUserNotFound)
	}

	oldRole := target.Role
	if err := s.users.UpdateRole(ctx, targetID, role); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	target.Role = role

	s.auditor.Record(auditEntry(actor, models.AuditChangeUserRole, targetID, map[string]interface{}{
		"oldRole":         oldRole,
		"newRole":         role,
		"targetUserEmail": target.Email,
	}))
	s.logger.WithFields(logrus.Fields{
		"actorId":  actor.UserID,
		"targetId": targetID,
		"oldRole":  oldRole,
		"newRole":  role,
	}).Info("User role changed")

	return target, nil
}

// DeleteUser removes a member and their watchlist. Admins must be demoted first.
func (s *adminService) DeleteUser(ctx context.Context, actor Actor, targetID string) error {
	if targetID == actor.UserID {
		return apperror.InvalidSelfAction(msgOwnAccount)
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if target == nil {
		return apperror.NotFound(msgUserNotFound)
	}
	if target.IsAdmin() {
		return apperror.ProtectedRole(msgAdminUndeletable)
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.auditor.Record(auditEntry(actor, models.AuditDeleteUser, targetID, map[string]interface{}{
		"deletedUserEmail": target.Email,
		"deletedUserName":  target.Name,
		"deletedUserRole":  target.Role,
	}))

	return nil
}

func (s *adminService) Stats(ctx context.Context, actor Actor) (*models.AdminStats, error) {
	stats, err := s.users.GetUserStats(ctx, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}

	catalog, err := s.movies.GetCatalogStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog stats: %w", err)
	}
	stats.Catalog = *catalog

	s.auditor.Record(auditEntry(actor, models.AuditViewStats, "", nil))
	return stats, nil
}

// AuditTrail returns the newest audit records first. Reading the trail is not
// itself audited.
func (s *adminService) AuditTrail(ctx context.Context, limit int) ([]models.AuditLog, error) {
	_, limit = clampPage(1, limit)
	logs, err := s.audits.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("audit trail: %w", err)
	}
	return logs, nil
}
