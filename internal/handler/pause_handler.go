package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"focustrack/internal/service"
)

type PauseHandler struct {
	pauseService *service.PauseService
}

type createPauseRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

func NewPauseHandler(pauseService *service.PauseService) *PauseHandler {
	return &PauseHandler{pauseService: pauseService}
}

func (h *PauseHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req createPauseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	period, apiErr := h.pauseService.Create(c.Request.Context(), userID, req.StartDate, req.EndDate, req.Reason)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"pausePeriod": period})
}

func (h *PauseHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	periods, apiErr := h.pauseService.List(c.Request.Context(), userID)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pausePeriods": periods})
}

func (h *PauseHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if apiErr := h.pauseService.Delete(c.Request.Context(), userID, c.Param("id")); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.Status(http.StatusNoContent)
}
