package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/vidgate-io/vidgate_api/shared"
)

type ProgressHandler struct {
	progressSvc ProgressServiceInterface
}

func NewProgressHandler(progressSvc ProgressServiceInterface) *ProgressHandler {
	return &ProgressHandler{progressSvc: progressSvc}
}

// @Summary Get progress
// @Description Per-interaction completion state and aggregate stats for a video
// @Tags progress
// @Produce json
// @Security Bearer
// @Param videoId path string true "Video ID"
// @Success 200 {object} shared.Response{data=dto.ProgressSnapshotResponse}
// @Router /api/v1/videos/{videoId}/progress [get]
func (h *ProgressHandler) Snapshot(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	resp, err := h.progressSvc.Snapshot(userID, c.Params("videoId"))
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Reset progress
// @Description Delete the user's completions and attempts for a video
// @Tags progress
// @Produce json
// @Security Bearer
// @Param videoId path string true "Video ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/videos/{videoId}/progress/reset [post]
func (h *ProgressHandler) Reset(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	if err := h.progressSvc.Reset(userID, c.Params("videoId")); err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Progress reset", nil)
}

// @Summary Gating check
// @Description Check whether playback may continue past the current position. When blocked, rewind_time points just before the earliest unmet mandatory interaction.
// @Tags progress
// @Produce json
// @Security Bearer
// @Param videoId path string true "Video ID"
// @Param current_time query number true "Current playback position in seconds"
// @Success 200 {object} shared.Response{data=dto.CanProceedResponse}
// @Router /api/v1/videos/{videoId}/can-proceed [get]
func (h *ProgressHandler) CanProceed(c *fiber.Ctx) error {
	currentTime := c.QueryFloat("current_time", -1)
	if currentTime < 0 {
		return shared.NewBadRequestError(nil, "current_time query parameter is required")
	}

	userID := c.Locals(shared.UserID).(string)
	resp, err := h.progressSvc.CanProceed(userID, c.Params("videoId"), currentTime)
	if err != nil {
		return err
	}
	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}
