package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/vidgate-io/vidgate_api/dto"
	"github.com/vidgate-io/vidgate_api/shared"
)

type MediaHandler struct {
	mediaSvc MediaServiceInterface
}

func NewMediaHandler(mediaSvc MediaServiceInterface) *MediaHandler {
	return &MediaHandler{mediaSvc: mediaSvc}
}

// @Summary Upload media
// @Description Upload a video, thumbnail or subtitle file to object storage
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param file formData file true "File to upload"
// @Success 201 {object} shared.Response{data=dto.MediaUploadResponse}
// @Router /api/v1/admin/media/upload [post]
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return shared.NewBadRequestError(err, "Missing file field")
	}

	resp, err := h.mediaSvc.Upload(fileHeader)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusCreated, "File uploaded", resp)
}

// @Summary Attach media to video
// @Description Link an uploaded asset to a video as its video, thumbnail or subtitle
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param videoId path string true "Video ID"
// @Param attachMediaRequest body dto.AttachMediaRequest true "Asset and role"
// @Success 200 {object} shared.Response{data=dto.VideoResponse}
// @Router /api/v1/admin/videos/{videoId}/media [post]
func (h *MediaHandler) Attach(c *fiber.Ctx) error {
	var req dto.AttachMediaRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	resp, err := h.mediaSvc.Attach(c.Params("videoId"), req)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Media attached", resp)
}
