package handlers

import (
	"movieflix-backend/internal/models"
	"movieflix-backend/internal/services"
	"movieflix-backend/internal/utils"
	"movieflix-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type MovieHandler struct {
	service services.MovieService
	logger  *logrus.Logger
}

func NewMovieHandler(service services.MovieService, logger *logrus.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		logger:  logger,
	}
}

// GetAllMovies godoc
// @Summary List catalog items
// @Description List catalog items filtered by category, genre, year and full-text search, newest first
// @Tags catalog
// @Accept json
// @Produce json
// @Param category query string false "film, trending or series"
// @Param genre query string false "Genre tag"
// @Param year query int false "Release year"
// @Param search query string false "Full-text search over title and description"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} utils.StandardResponse{data=[]MovieResponse,meta=utils.PaginationMeta}
// @Failure 400 {object} utils.StandardResponse
// @Failure 500 {object} utils.StandardResponse
// @Router /catalog [get]
func (h *MovieHandler) GetAllMovies(c *fiber.Ctx) error {
	ctx := c.UserContext()

	limit := queryInt(c, "limit", 0)
	if limit == 0 {
		limit = queryInt(c, "pageSize", 0)
	}

	filter := models.MovieFilter{
		Category: c.Query("category"),
		Genre:    c.Query("genre"),
		Year:     queryInt(c, "year", 0),
		Search:   c.Query("search"),
		Page:     queryInt(c, "page", 1),
		Limit:    limit,
	}

	movies, total, filter, err := h.service.GetAllMovies(ctx, filter)
	if err != nil {
		return fail(c, h.logger, err, "Failed to retrieve movies")
	}

	meta := utils.CreatePaginationMeta(filter.Page, filter.Limit, total)
	return utils.SuccessWithMetaResponse(c, fiber.StatusOK, "Movies retrieved successfully", NewMovieResponses(movies), meta)
}

// SearchMovies godoc
// @Summary Search the catalog
// @Description Full-text search ranked by relevance, then newest first
// @Tags catalog
// @Produce json
// @Param q query string true "Search terms"
// @Param limit query int false "Maximum results" default(20)
// @Success 200 {object} utils.StandardResponse{data=[]MovieResponse}
// @Failure 400 {object} utils.StandardResponse
// @Router /catalog/search [get]
func (h *MovieHandler) SearchMovies(c *fiber.Ctx) error {
	ctx := c.UserContext()

	query := c.Query("q")
	if query == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Search query is required")
	}

	movies, err := h.service.SearchMovies(ctx, query, queryInt(c, "limit", 0))
	if err != nil {
		return fail(c, h.logger, err, "Failed to search movies")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Search completed successfully", NewMovieResponses(movies))
}

// ListGenres godoc
// @Summary List genre tags
// @Description The closed genre vocabulary catalog items may carry
// @Tags catalog
// @Produce json
// @Success 200 {object} utils.StandardResponse{data=[]string}
// @Failure 500 {object} utils.StandardResponse
// @Router /catalog/genres [get]
func (h *MovieHandler) ListGenres(c *fiber.Ctx) error {
	genres, err := h.service.ListGenres(c.UserContext())
	if err != nil {
		return fail(c, h.logger, err, "Failed to retrieve genres")
	}

	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Genres retrieved successfully", names)
}

// ListByCategory godoc
// @Summary List one category
// @Description Page through a single category, newest first. Pages past the end are empty.
// @Tags catalog
// @Produce json
// @Param category path string true "film, trending or series"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} utils.StandardResponse{data=[]MovieResponse,meta=utils.PaginationMeta}
// @Failure 400 {object} utils.StandardResponse
// @Router /catalog/category/{category} [get]
func (h *MovieHandler) ListByCategory(c *fiber.Ctx) error {
	ctx := c.UserContext()

	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(c, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	movies, total, err := h.service.ListByCategory(ctx, c.Params("category"), page, limit)
	if err != nil {
		return fail(c, h.logger, err, "Failed to retrieve movies")
	}

	meta := utils.CreatePaginationMeta(page, limit, total)
	return utils.SuccessWithMetaResponse(c, fiber.StatusOK, "Movies retrieved successfully", NewMovieResponses(movies), meta)
}

// GetMovieByID godoc
// @Summary Get catalog item by ID
// @Tags catalog
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} utils.StandardResponse{data=MovieResponse}
// @Failure 404 {object} utils.StandardResponse
// @Router /catalog/{id} [get]
func (h *MovieHandler) GetMovieByID(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := pathID(c, "id", msgMovieNotFound)
	if err != nil {
		return utils.HandleError(c, err, msgMovieNotFound)
	}

	movie, err := h.service.GetMovieByID(ctx, id)
	if err != nil {
		return fail(c, h.logger, err, "Failed to retrieve movie")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movie retrieved successfully", NewMovieResponse(movie))
}

// CreateMovie godoc
// @Summary Create a catalog item
// @Description Admin only. Series require seasons, everything else requires a duration.
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param movie body validation.MovieInput true "Catalog item"
// @Success 201 {object} utils.StandardResponse{data=MovieResponse}
// @Failure 400 {object} utils.StandardResponse
// @Failure 401 {object} utils.StandardResponse
// @Failure 403 {object} utils.StandardResponse
// @Failure 429 {object} utils.StandardResponse
// @Router /catalog [post]
func (h *MovieHandler) CreateMovie(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req validation.MovieInput
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msgInvalidBody)
	}

	movie, err := h.service.CreateMovie(ctx, actorFrom(c), req)
	if err != nil {
		return fail(c, h.logger, err, "Failed to create movie")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Movie created successfully", NewMovieResponse(movie))
}

// UpdateMovie godoc
// @Summary Update a catalog item
// @Tags catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Param movie body validation.MovieInput true "Catalog item"
// @Success 200 {object} utils.StandardResponse{data=MovieResponse}
// @Failure 400 {object} utils.StandardResponse
// @Failure 404 {object} utils.StandardResponse
// @Router /catalog/{id} [put]
func (h *MovieHandler) UpdateMovie(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := pathID(c, "id", msgMovieNotFound)
	if err != nil {
		return utils.HandleError(c, err, msgMovieNotFound)
	}

	var req validation.MovieInput
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, msgInvalidBody)
	}

	movie, err := h.service.UpdateMovie(ctx, actorFrom(c), id, req)
	if err != nil {
		return fail(c, h.logger, err, "Failed to update movie")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movie updated successfully", NewMovieResponse(movie))
}

// DeleteMovie godoc
// @Summary Delete a catalog item
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Success 200 {object} utils.StandardResponse
// @Failure 404 {object} utils.StandardResponse
// @Router /catalog/{id} [delete]
func (h *MovieHandler) DeleteMovie(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := pathID(c, "id", msgMovieNotFound)
	if err != nil {
		return utils.HandleError(c, err, msgMovieNotFound)
	}

	if err := h.service.DeleteMovie(ctx, actorFrom(c), id); err != nil {
		return fail(c, h.logger, err, "Failed to delete movie")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movie deleted successfully", nil)
}
