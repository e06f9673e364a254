package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trivia-service/internal/domain"
)

type createGameSessionRequest struct {
	QuestionnaireID string `json:"questionnaireId"`
	UserID          string `json:"userId"`
}

type updateStatusRequest struct {
	Status domain.SessionStatus `json:"status"`
	UserID string               `json:"userId"`
}

type toggleOpenRequest struct {
	IsOpen *bool  `json:"isOpen"`
	UserID string `json:"userId"`
}

type userRequest struct {
	UserID string `json:"userId"`
}

func (h *handler) createGameSession(c *gin.Context) {
	var req createGameSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.QuestionnaireID == "" || req.UserID == "" {
		badRequest(c, "Missing data")
		return
	}
	userID, err := h.callerID(c, req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	id, err := h.services.Sessions.Create(c.Request.Context(), req.QuestionnaireID, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gameSessionId": id})
}

func (h *handler) listGameSessions(c *gin.Context) {
	userID, err := h.callerID(c, c.Query("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	if userID == "" {
		badRequest(c, "Missing userId")
		return
	}
	sessions, err := h.services.Sessions.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *handler) getGameSession(c *gin.Context) {
	session, err := h.services.Sessions.Get(c.Request.Context(), c.Param("id"), identityOf(c).UID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *handler) updateGameSessionStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" || req.UserID == "" {
		badRequest(c, "Missing data")
		return
	}
	userID, err := h.callerID(c, req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.services.Sessions.UpdateStatus(c.Request.Context(), c.Param("id"), userID, req.Status); err != nil {
		writeError(c, err)
		return
	}
	success(c)
}

func (h *handler) toggleGameSessionOpen(c *gin.Context) {
	var req toggleOpenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsOpen == nil || req.UserID == "" {
		badRequest(c, "Missing data")
		return
	}
	userID, err := h.callerID(c, req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.services.Sessions.SetOpen(c.Request.Context(), c.Param("id"), userID, *req.IsOpen); err != nil {
		writeError(c, err)
		return
	}
	success(c)
}

func (h *handler) refreshGameSessionQuestions(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		badRequest(c, "Missing data")
		return
	}
	userID, err := h.callerID(c, req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	count, err := h.services.Sessions.RefreshQuestions(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "questionCount": count})
}

func (h *handler) deleteGameSession(c *gin.Context) {
	userID, err := h.callerID(c, c.Query("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	if userID == "" {
		badRequest(c, "Missing userId")
		return
	}
	if err := h.services.Sessions.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		writeError(c, err)
		return
	}
	success(c)
}
