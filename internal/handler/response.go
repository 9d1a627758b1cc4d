package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "focustrack/internal/errors"
	"focustrack/internal/middleware"
)

func writeError(c *gin.Context, apiErr *apperrors.APIError) {
	if apiErr == nil {
		apiErr = apperrors.Internal("")
	}

	errorBody := gin.H{
		"code":    apiErr.Code,
		"message": apiErr.Message,
	}
	if apiErr.Details != nil {
		errorBody["details"] = apiErr.Details
	}

	c.JSON(apiErr.Status, gin.H{
		"error": errorBody,
	})
}

func writeInvalidJSON(c *gin.Context) {
	writeError(c, apperrors.BadRequest("invalid_json", "invalid request body"))
}

// requireUser returns the authenticated user id, writing a 401 when the
// auth middleware did not set one.
func requireUser(c *gin.Context) (string, bool) {
	userID := middleware.UserID(c)
	if userID == "" {
		writeError(c, apperrors.Unauthorized(""))
		return "", false
	}
	return userID, true
}

func queryInt(c *gin.Context, key string, fallback int) (int, *apperrors.APIError) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.BadRequest("invalid_query", key+" must be an integer")
	}
	return parsed, nil
}

func queryTime(c *gin.Context, key string) (time.Time, *apperrors.APIError) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperrors.BadRequest("invalid_query", key+" must be an RFC 3339 timestamp")
	}
	return parsed, nil
}
