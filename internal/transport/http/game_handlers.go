package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type joinRequest struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type answerRequest struct {
	QuestionIndex *int `json:"questionIndex"`
	Answer        any  `json:"answer"`
}

func (h *handler) getPublicGame(c *gin.Context) {
	session, err := h.services.Game.Session(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	view, err := newPublicSession(session)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handler) joinGame(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		badRequest(c, "Missing userId")
		return
	}
	if err := h.services.Game.Join(c.Request.Context(), c.Param("id"), req.UserID, req.DisplayName); err != nil {
		writeError(c, err)
		return
	}
	success(c)
}

func (h *handler) getPlayerProgress(c *gin.Context) {
	progress, err := h.services.Game.Progress(c.Request.Context(), c.Param("id"), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	// A player who has not joined yet is answered with null.
	c.JSON(http.StatusOK, progress)
}

func (h *handler) submitAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.QuestionIndex == nil || req.Answer == nil {
		badRequest(c, "Missing data")
		return
	}
	result, err := h.services.Game.SubmitAnswer(c.Request.Context(), c.Param("id"), c.Param("userId"), *req.QuestionIndex, req.Answer)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handler) getRanking(c *gin.Context) {
	entries, err := h.services.Game.Ranking(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
