package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"focustrack/internal/service"
)

type SessionHandler struct {
	sessionService *service.SessionService
}

type createSessionRequest struct {
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationSeconds int       `json:"durationSeconds"`
	TaskID          string    `json:"taskId"`
	GoalID          string    `json:"goalId"`
	Mode            string    `json:"mode"`
	PomodoroCycle   string    `json:"pomodoroCycle"`
	SequenceID      string    `json:"sequenceId"`
	Vibe            string    `json:"vibe"`
	Note            string    `json:"note"`
}

func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func (h *SessionHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	session, apiErr := h.sessionService.Create(c.Request.Context(), userID, service.CreateSessionInput{
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationSeconds: req.DurationSeconds,
		TaskID:          req.TaskID,
		GoalID:          req.GoalID,
		Mode:            req.Mode,
		PomodoroCycle:   req.PomodoroCycle,
		SequenceID:      req.SequenceID,
		Vibe:            req.Vibe,
		Note:            req.Note,
	})
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	limit, apiErr := queryInt(c, "limit", 0)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	since, apiErr := queryTime(c, "since")
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}

	sessions, apiErr := h.sessionService.List(c.Request.Context(), userID, since, limit)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *SessionHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	session, apiErr := h.sessionService.Get(c.Request.Context(), userID, c.Param("id"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (h *SessionHandler) DeleteSequence(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	deleted, apiErr := h.sessionService.DeleteSequence(c.Request.Context(), userID, c.Param("sequenceId"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
