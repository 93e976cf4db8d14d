package handlers

import (
	"strings"

	"movieflix-backend/internal/services"
	"movieflix-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var uploadFolders = map[string]bool{
	"posters": true,
	"avatars": true,
}

type UploadHandler struct {
	storage services.ObjectStorage
	logger  *logrus.Logger
}

func NewUploadHandler(storage services.ObjectStorage, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{
		storage: storage,
		logger:  logger,
	}
}

// GetPresignedURL godoc
// @Summary Get presigned URL for file upload
// @Description Admin only. Generate a presigned PUT URL for uploading a poster or avatar image to MinIO/S3
// @Tags Upload
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param filename query string true "Filename"
// @Param contentType query string false "Content Type" default(image/jpeg)
// @Param folder query string false "posters or avatars" default(posters)
// @Success 200 {object} utils.StandardResponse
// @Failure 400 {object} utils.StandardResponse
// @Failure 500 {object} utils.StandardResponse
// @Router /upload/presign [get]
func (h *UploadHandler) GetPresignedURL(c *fiber.Ctx) error {
	folder := c.Query("folder", "posters")
	if !uploadFolders[folder] {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "folder must be one of: posters, avatars")
	}
	return h.presign(c, folder)
}

// GetAvatarURL godoc
// @Summary Get presigned URL for a profile photo
// @Description Any signed-in user may upload an avatar. Save the returned publicUrl with PUT /auth/update.
// @Tags Upload
// @Produce json
// @Security BearerAuth
// @Param filename query string true "Filename"
// @Param contentType query string false "Content Type" default(image/jpeg)
// @Success 200 {object} utils.StandardResponse
// @Failure 400 {object} utils.StandardResponse
// @Failure 401 {object} utils.StandardResponse
// @Router /upload/avatar [get]
func (h *UploadHandler) GetAvatarURL(c *fiber.Ctx) error {
	return h.presign(c, "avatars")
}

func (h *UploadHandler) presign(c *fiber.Ctx, folder string) error {
	filename := c.Query("filename")
	if filename == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "filename is required")
	}

	contentType := c.Query("contentType", "image/jpeg")
	if !strings.HasPrefix(contentType, "image/") {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only image uploads are allowed")
	}

	presignedURL, publicURL, err := h.storage.GeneratePresignedURL(c.UserContext(), folder, filename, contentType)
	if err != nil {
		h.logger.WithError(err).WithField("folder", folder).Error("Failed to generate presigned URL")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate presigned URL")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Presigned URL generated successfully", fiber.Map{
		"presignedUrl": presignedURL,
		"publicUrl":    publicURL,
	})
}
