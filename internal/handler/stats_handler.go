package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"focustrack/internal/service"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) Streak(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	stats, apiErr := h.statsService.Stats(c.Request.Context(), userID, c.Query("today"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, stats.Streak)
}

func (h *StatsHandler) Today(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	stats, apiErr := h.statsService.Stats(c.Request.Context(), userID, c.Query("date"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":              stats.Today,
		"totalFocusSeconds": stats.TodayFocusSeconds,
	})
}

func (h *StatsHandler) Pace(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	target, apiErr := queryInt(c, "targetSeconds", 0)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}

	pace, apiErr := h.statsService.Pace(c.Request.Context(), userID, service.PaceInput{
		GoalID:        c.Query("goalId"),
		TargetSeconds: target,
		StartDate:     c.Query("startDate"),
		Deadline:      c.Query("deadline"),
		Today:         c.Query("today"),
	})
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, pace)
}
