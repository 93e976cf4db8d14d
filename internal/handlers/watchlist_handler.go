package handlers

import (
	"movieflix-backend/internal/middleware"
	"movieflix-backend/internal/models"
	"movieflix-backend/internal/services"
	"movieflix-backend/internal/utils"
	"movieflix-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type WatchlistHandler struct {
	service services.WatchlistService
	logger  *logrus.Logger
}

func NewWatchlistHandler(service services.WatchlistService, logger *logrus.Logger) *WatchlistHandler {
	return &WatchlistHandler{service: service, logger: logger}
}

// GetWatchlist godoc
// @Summary The current user's watchlist
// @Description Unwatched entries by default, most recently added first
// @Tags watchlist
// @Produce json
// @Security BearerAuth
// @Param watched query bool false "Return watched entries instead" default(false)
// @Param limit query int false "Maximum entries" default(50)
// @Param skip query int false "Entries to skip" default(0)
// @Param sort query string false "addedAt, priority, rating, createdAt or updatedAt" default(addedAt)
// @Success 200 {object} utils.StandardResponse{data=[]WatchlistEntryResponse}
// @Failure 401 {object} utils.StandardResponse
// @Router /watchlist [get]
func (h *WatchlistHandler) GetWatchlist(c *fiber.Ctx) error {
	q := models.WatchlistQuery{
		Watched: c.QueryBool("watched", false),
		Limit:   queryInt(c, "limit", 0),
		Skip:    queryInt(c, "skip", 0),
		SortBy:  c.Query("sort", "addedAt"),
	}

	entries, err := h.service.List(c.UserContext(), middleware.CurrentUser(c).ID, q)
	if err != nil {
		return fail(c, h.logger, err, "Failed to retrieve watchlist")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Watchlist retrieved successfully", NewWatchlistEntryResponses(entries))
}

// CheckWatchlist godoc
// @Summary Whether an item is on the current user's watchlist
// @Tags watchlist
// @Produce json
// @Security BearerAuth
// @Param itemId path string true "Movie ID"
// @Success 200 {object} utils.StandardResponse
// @Router /watchlist/check/{itemId} [get]
func (h *WatchlistHandler) CheckWatchlist(c *fiber.Ctx) error {
	id, err := pathID(c, "itemId", msgMovieNotFound)
	if err != nil {
		return utils.SuccessResponse(c, fiber.StatusOK, "Watchlist checked successfully", fiber.Map{"inWatchlist": false})
	}

	ok, err := h.service.Contains(c.UserContext(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		return fail(c, h.logger, err, "Failed to check watchlist")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Watchlist checked successfully", fiber.Map{"inWatchlist": ok})
}

// AddToWatchlist godoc
// @Summary Add an item to the watchlist
// @Tags watchlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param itemId path string true "Movie ID"
// @Param body body validation.WatchlistAddInput false "Notes and priority"
// @Success 201 {object} utils.StandardResponse{data=WatchlistEntryResponse}
// @Failure 400 {object} utils.StandardResponse "Already on the watchlist"
// @Failure 404 {object} utils.StandardResponse "Movie not found"
// @Router /watchlist/{itemId} [post]
func (h *WatchlistHandler) AddToWatchlist(c *fiber.Ctx) error {
	id, err := pathID(c, "itemId", msgMovieNotFound)
	if err != nil {
		return utils.HandleError(c, err, msgMovieNotFound)
	}

	var req validation.WatchlistAddInput
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, err, msgInvalidBody)
	}

	entry, err := h.service.Add(c.UserContext(), middleware.CurrentUser(c).ID, id, req)
	if err != nil {
		return fail(c, h.logger, err, "Failed to add to watchlist")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Added to watchlist", NewWatchlistEntryResponse(entry))
}

// RemoveFromWatchlist godoc
// @Summary Remove an item from the watchlist
// @Tags watchlist
// @Produce json
// @Security BearerAuth
// @Param itemId path string true "Movie ID"
// @Success 200 {object} utils.StandardResponse
// @Failure 404 {object} utils.StandardResponse
// @Router /watchlist/{itemId} [delete]
func (h *WatchlistHandler) RemoveFromWatchlist(c *fiber.Ctx) error {
	id, err := pathID(c, "itemId", msgEntryNotListed)
	if err != nil {
		return utils.HandleError(c, err, msgEntryNotListed)
	}

	if err := h.service.Remove(c.UserContext(), middleware.CurrentUser(c).ID, id); err != nil {
		return fail(c, h.logger, err, "Failed to remove from watchlist")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Removed from watchlist", fiber.Map{"removed": true})
}

// UpdateWatchlistEntry godoc
// @Summary Update notes, priority or rating
// @Description Setting a rating also marks the entry as watched
// @Tags watchlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param itemId path string true "Movie ID"
// @Param body body validation.WatchlistUpdateInput true "Fields to change"
// @Success 200 {object} utils.StandardResponse{data=WatchlistEntryResponse}
// @Failure 400 {object} utils.StandardResponse
// @Failure 404 {object} utils.StandardResponse
// @Router /watchlist/{itemId} [put]
func (h *WatchlistHandler) UpdateWatchlistEntry(c *fiber.Ctx) error {
	id, err := pathID(c, "itemId", msgEntryNotListed)
	if err != nil {
		return utils.HandleError(c, err, msgEntryNotListed)
	}

	var req validation.WatchlistUpdateInput
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, err, msgInvalidBody)
	}

	entry, err := h.service.Update(c.UserContext(), middleware.CurrentUser(c).ID, id, req)
	if err != nil {
		return fail(c, h.logger, err, "Failed to update watchlist entry")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Watchlist entry updated", NewWatchlistEntryResponse(entry))
}

// MarkWatched godoc
// @Summary Mark an entry as watched
// @Tags watchlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param itemId path string true "Movie ID"
// @Param body body validation.WatchedInput false "Optional rating"
// @Success 200 {object} utils.StandardResponse{data=WatchlistEntryResponse}
// @Failure 404 {object} utils.StandardResponse
// @Router /watchlist/{itemId}/watched [put]
func (h *WatchlistHandler) MarkWatched(c *fiber.Ctx) error {
	id, err := pathID(c, "itemId", msgEntryNotListed)
	if err != nil {
		return utils.HandleError(c, err, msgEntryNotListed)
	}

	var req validation.WatchedInput
	if err := parseBody(c, &req); err != nil {
		return utils.HandleError(c, err, msgInvalidBody)
	}

	entry, err := h.service.MarkWatched(c.UserContext(), middleware.CurrentUser(c).ID, id, req.Rating)
	if err != nil {
		return fail(c, h.logger, err, "Failed to mark as watched")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Marked as watched", NewWatchlistEntryResponse(entry))
}
