package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/vidgate-io/vidgate_api/dto"
	"github.com/vidgate-io/vidgate_api/shared"
)

type InteractionHandler struct {
	interactionSvc InteractionServiceInterface
}

func NewInteractionHandler(interactionSvc InteractionServiceInterface) *InteractionHandler {
	return &InteractionHandler{interactionSvc: interactionSvc}
}

// @Summary List videos
// @Description List active videos with interaction counts
// @Tags videos
// @Produce json
// @Security Bearer
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} shared.Response{data=dto.VideoListResponse}
// @Router /api/v1/videos [get]
func (h *InteractionHandler) ListVideos(c *fiber.Ctx) error {
	resp, err := h.interactionSvc.ListVideos(c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Get video
// @Description Get a single video's metadata
// @Tags videos
// @Produce json
// @Security Bearer
// @Param videoId path string true "Video ID"
// @Success 200 {object} shared.Response{data=dto.VideoResponse}
// @Router /api/v1/videos/{videoId} [get]
func (h *InteractionHandler) GetVideo(c *fiber.Ctx) error {
	resp, err := h.interactionSvc.GetVideo(c.Params("videoId"))
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary List playback interactions
// @Description List a video's active interactions for playback, ordered by activation time. Correct-answer flags are omitted.
// @Tags interactions
// @Produce json
// @Security Bearer
// @Param videoId path string true "Video ID"
// @Success 200 {object} shared.Response{data=dto.InteractionListResponse}
// @Router /api/v1/videos/{videoId}/interactions [get]
func (h *InteractionHandler) ListForPlayback(c *fiber.Ctx) error {
	resp, err := h.interactionSvc.ListForPlayback(c.Context(), c.Params("videoId"))
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary List interaction types
// @Description List the supported interaction type codes
// @Tags interactions
// @Produce json
// @Success 200 {object} shared.Response{data=[]dto.InteractionTypeResponse}
// @Router /api/v1/interaction-types [get]
func (h *InteractionHandler) ListTypes(c *fiber.Ctx) error {
	resp, err := h.interactionSvc.ListInteractionTypes()
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// ==================== ADMIN ====================

// @Summary Create video
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param createVideoRequest body dto.CreateVideoRequest true "Video details"
// @Success 201 {object} shared.Response{data=dto.VideoResponse}
// @Router /api/v1/admin/videos [post]
func (h *InteractionHandler) CreateVideo(c *fiber.Ctx) error {
	var req dto.CreateVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	resp, err := h.interactionSvc.CreateVideo(req)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusCreated, "Video created", resp)
}

// @Summary Update video
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param videoId path string true "Video ID"
// @Param updateVideoRequest body dto.UpdateVideoRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=dto.VideoResponse}
// @Router /api/v1/admin/videos/{videoId} [put]
func (h *InteractionHandler) UpdateVideo(c *fiber.Ctx) error {
	var req dto.UpdateVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	resp, err := h.interactionSvc.UpdateVideo(c.Params("videoId"), req)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Video updated", resp)
}

// @Summary Delete video
// @Tags admin
// @Produce json
// @Security Bearer
// @Param videoId path string true "Video ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/videos/{videoId} [delete]
func (h *InteractionHandler) DeleteVideo(c *fiber.Ctx) error {
	if err := h.interactionSvc.DeleteVideo(c.Params("videoId")); err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Video deleted", nil)
}

// @Summary Get interaction
// @Description Get one interaction with correct-answer flags included
// @Tags admin
// @Produce json
// @Security Bearer
// @Param id path string true "Interaction ID"
// @Success 200 {object} shared.Response{data=dto.InteractionResponse}
// @Router /api/v1/admin/interactions/{id} [get]
func (h *InteractionHandler) GetInteraction(c *fiber.Ctx) error {
	resp, err := h.interactionSvc.GetInteraction(c.Params("id"))
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Create interaction
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param videoId path string true "Video ID"
// @Param createInteractionRequest body dto.CreateInteractionRequest true "Interaction details"
// @Success 201 {object} shared.Response{data=dto.InteractionResponse}
// @Router /api/v1/admin/videos/{videoId}/interactions [post]
func (h *InteractionHandler) CreateInteraction(c *fiber.Ctx) error {
	var req dto.CreateInteractionRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	resp, err := h.interactionSvc.CreateInteraction(c.Params("videoId"), req)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusCreated, "Interaction created", resp)
}

// @Summary Update interaction
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Interaction ID"
// @Param updateInteractionRequest body dto.UpdateInteractionRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=dto.InteractionResponse}
// @Router /api/v1/admin/interactions/{id} [put]
func (h *InteractionHandler) UpdateInteraction(c *fiber.Ctx) error {
	var req dto.UpdateInteractionRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	resp, err := h.interactionSvc.UpdateInteraction(c.Params("id"), req)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Interaction updated", resp)
}

// @Summary Delete interaction
// @Tags admin
// @Produce json
// @Security Bearer
// @Param id path string true "Interaction ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/admin/interactions/{id} [delete]
func (h *InteractionHandler) DeleteInteraction(c *fiber.Ctx) error {
	if err := h.interactionSvc.DeleteInteraction(c.Params("id")); err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Interaction deleted", nil)
}
