package handlers

import (
	"movieflix-backend/internal/middleware"
	"movieflix-backend/internal/services"
	"movieflix-backend/internal/utils"
	"movieflix-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	service services.AuthService
	logger  *logrus.Logger
}

func NewAuthHandler(service services.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger}
}

// Signup godoc
// @Summary Register a new member
// @Tags auth
// @Accept json
// @Produce json
// @Param body body validation.SignupInput true "Signup data"
// @Success 201 {object} utils.StandardResponse{data=services.Session}
// @Failure 400 {object} utils.StandardResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req validation.SignupInput
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msgInvalidBody)
	}

	session, err := h.service.Signup(c.UserContext(), req)
	if err != nil {
		return fail(c, h.logger, err, "Failed to create account")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Account created successfully", session)
}

// Login godoc
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body validation.LoginInput true "Credentials"
// @Success 200 {object} utils.StandardResponse{data=services.Session}
// @Failure 400 {object} utils.StandardResponse
// @Failure 429 {object} utils.StandardResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req validation.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msgInvalidBody)
	}

	session, err := h.service.Login(c.UserContext(), req)
	if err != nil {
		return fail(c, h.logger, err, "Failed to log in")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Logged in successfully", session)
}

// GetUser godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.StandardResponse{data=models.User}
// @Failure 401 {object} utils.StandardResponse
// @Router /auth/user [get]
func (h *AuthHandler) GetUser(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, fiber.StatusOK, "User retrieved successfully", middleware.CurrentUser(c))
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body validation.ProfileInput true "Fields to change"
// @Success 200 {object} utils.StandardResponse{data=models.User}
// @Failure 400 {object} utils.StandardResponse
// @Router /auth/update [put]
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req validation.ProfileInput
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msgInvalidBody)
	}

	user, err := h.service.UpdateProfile(c.UserContext(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		return fail(c, h.logger, err, "Failed to update profile")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Profile updated successfully", user)
}
