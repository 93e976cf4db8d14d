package handlers

import (
	"movieflix-backend/internal/services"
	"movieflix-backend/internal/utils"
	"movieflix-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AdminHandler serves the admin console. Routes mounting it sit behind the
// admin gate and the admin rate limiter.
type AdminHandler struct {
	service services.AdminService
	logger  *logrus.Logger
}

func NewAdminHandler(service services.AdminService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{service: service, logger: logger}
}

// ListUsers godoc
// @Summary List all users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.StandardResponse{data=[]models.User}
// @Failure 401 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Failure 429 {object} utils.StandardResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext(), actorFrom(c))
	if err != nil {
		return fail(c, h.logger, err, "Failed to retrieve users")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Users retrieved successfully", users)
}

// ChangeRole godoc
// @Summary Change a user's role
// @Description Admins cannot change their own role
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body validation.RoleInput true "New role"
// @Success 200 {object} utils.StandardResponse{data=models.User}
// @Failure 400 {object} utils.StandardResponse
// @Failure 404 {object} utils.StandardResponse
// @Router /admin/users/{id}/role [patch]
func (h *AdminHandler) ChangeRole(c *fiber.Ctx) error {
	id, err := pathID(c, "id", msgUserNotFound)
	if err != nil {
		return utils.HandleError(c, err, msgUserNotFound)
	}

	var req validation.RoleInput
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msgInvalidBody)
	}

	user, err := h.service.ChangeRole(c.UserContext(), actorFrom(c), id, req.Role)
	if err != nil {
		return fail(c, h.logger, err, "Failed to change role")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "User role updated successfully", user)
}

// DeleteUser godoc
// @Summary Delete a user and their watchlist
// @Description Admins cannot delete themselves or other admins
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} utils.StandardResponse
// @Failure 400 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Failure 404 {object} utils.StandardResponse
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := pathID(c, "id", msgUserNotFound)
	if err != nil {
		return utils.HandleError(c, err, msgUserNotFound)
	}

	if err := h.service.DeleteUser(c.UserContext(), actorFrom(c), id); err != nil {
		return fail(c, h.logger, err, "Failed to delete user")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "User deleted successfully", nil)
}

// GetStats godoc
// @Summary Admin dashboard statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.StandardResponse{data=AdminStatsResponse}
// @Router /admin/stats [get]
func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext(), actorFrom(c))
	if err != nil {
		return fail(c, h.logger, err, "Failed to retrieve statistics")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Statistics retrieved successfully", NewAdminStatsResponse(stats))
}

// GetAuditTrail godoc
// @Summary Recent admin audit records
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum records" default(20)
// @Success 200 {object} utils.StandardResponse{data=[]models.AuditLog}
// @Router /admin/audit [get]
func (h *AdminHandler) GetAuditTrail(c *fiber.Ctx) error {
	logs, err := h.service.AuditTrail(c.UserContext(), queryInt(c, "limit", 0))
	if err != nil {
		return fail(c, h.logger, err, "Failed to retrieve audit trail")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Audit trail retrieved successfully", logs)
}
