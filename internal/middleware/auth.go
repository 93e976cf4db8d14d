// Package middleware holds the fiber handlers that run in front of the API routes.
package middleware

import (
	"movieflix-backend/internal/apperror"
	"movieflix-backend/internal/auth"
	"movieflix-backend/internal/models"
	"movieflix-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const userKey = "user"

// Protect runs the access gate and stores the resolved user in Locals.
// With requireAdmin set, members are rejected with 403.
func Protect(gate *auth.Gate, requireAdmin bool, logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := gate.Authorize(c.UserContext(), c.Get(fiber.HeaderAuthorization), requireAdmin)
		if err != nil {
			if apperror.StatusOf(err) >= fiber.StatusInternalServerError {
				logger.WithError(err).WithFields(logrus.Fields{
					"method": c.Method(),
					"path":   c.Path(),
				}).Error("Authorization lookup failed")
			}
			return utils.HandleError(c, err, "Server error")
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user stored by Protect, or nil on public routes.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}
