package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/vidgate-io/vidgate_api/dto"
	"github.com/vidgate-io/vidgate_api/shared"
)

// PlaybackHandler covers answer grading, skips and playback heartbeats.
type PlaybackHandler struct {
	gradingSvc  GradingServiceInterface
	progressSvc ProgressServiceInterface
}

func NewPlaybackHandler(gradingSvc GradingServiceInterface, progressSvc ProgressServiceInterface) *PlaybackHandler {
	return &PlaybackHandler{gradingSvc: gradingSvc, progressSvc: progressSvc}
}

// @Summary Submit answer
// @Description Grade a submitted answer. The response carries the evaluacion verdict and, for incorrect mandatory interactions, a rewind directive.
// @Tags playback
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Interaction ID"
// @Param answerRequest body dto.AnswerRequest true "Answer payload"
// @Success 200 {object} shared.Response{data=dto.AnswerResponse}
// @Router /api/v1/interactions/{id}/answer [post]
func (h *PlaybackHandler) SubmitAnswer(c *fiber.Ctx) error {
	var req dto.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	userID := c.Locals(shared.UserID).(string)
	resp, err := h.gradingSvc.SubmitAnswer(userID, c.Params("id"), req)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Answer graded", resp)
}

// @Summary Skip interaction
// @Description Mark a non-mandatory interaction as skipped
// @Tags playback
// @Produce json
// @Security Bearer
// @Param id path string true "Interaction ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/interactions/{id}/skip [post]
func (h *PlaybackHandler) Skip(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	if err := h.gradingSvc.Skip(userID, c.Params("id")); err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Interaction skipped", nil)
}

// @Summary Playback heartbeat
// @Description Record the user's current playback position
// @Tags playback
// @Accept json
// @Produce json
// @Security Bearer
// @Param videoId path string true "Video ID"
// @Param heartbeat body dto.PlaybackHeartbeatRequest true "Current position"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/videos/{videoId}/playback [post]
func (h *PlaybackHandler) Heartbeat(c *fiber.Ctx) error {
	var req dto.PlaybackHeartbeatRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	userID := c.Locals(shared.UserID).(string)
	if err := h.progressSvc.RecordHeartbeat(c.Context(), userID, c.Params("videoId"), req); err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Position recorded", nil)
}

// @Summary Last playback position
// @Description Return the most recent recorded playback position, if any
// @Tags playback
// @Produce json
// @Security Bearer
// @Param videoId path string true "Video ID"
// @Success 200 {object} shared.Response{data=dto.PlaybackPositionResponse}
// @Router /api/v1/videos/{videoId}/playback [get]
func (h *PlaybackHandler) LastPosition(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	pos, err := h.progressSvc.LastPosition(c.Context(), userID, c.Params("videoId"))
	if err != nil {
		return err
	}
	if pos == nil {
		return shared.NewNotFoundError(nil, "No playback position recorded")
	}
	return shared.ResponseJSON(c, http.StatusOK, "Success", pos)
}
