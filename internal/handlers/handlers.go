package handlers

import (
	"strconv"

	"movieflix-backend/internal/apperror"
	"movieflix-backend/internal/middleware"
	"movieflix-backend/internal/services"
	"movieflix-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	msgInvalidBody    = "Invalid request body"
	msgMovieNotFound  = "Movie not found"
	msgEntryNotListed = "Movie not found in your watchlist"
	msgUserNotFound   = "User not found"
)

// fail logs unexpected errors and writes the response envelope for err.
func fail(c *fiber.Ctx, logger *logrus.Logger, err error, fallback string) error {
	if apperror.StatusOf(err) >= fiber.StatusInternalServerError {
		logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error(fallback)
	}
	return utils.HandleError(c, err, fallback)
}

// parseBody decodes a JSON body into dst. An empty body leaves dst untouched.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(dst); err != nil {
		return apperror.BadRequest(msgInvalidBody)
	}
	return nil
}

func actorFrom(c *fiber.Ctx) services.Actor {
	actor := services.Actor{IP: c.IP()}
	if user := middleware.CurrentUser(c); user != nil {
		actor.UserID = user.ID
	}
	return actor
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

// pathID reads a uuid path parameter. A malformed id cannot name any row, so
// it is reported as NotFound with msg.
func pathID(c *fiber.Ctx, key, msg string) (string, error) {
	id := c.Params(key)
	if uuid.Validate(id) != nil {
		return "", apperror.NotFound(msg)
	}
	return id, nil
}
