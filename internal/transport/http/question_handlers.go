package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
)

type createQuestionRequest struct {
	Question *domain.Question `json:"question"`
	UserID   string           `json:"userId"`
}

type updateQuestionRequest struct {
	Updates *app.QuestionPatch `json:"updates"`
	UserID  string             `json:"userId"`
}

func (h *handler) createQuestion(c *gin.Context) {
	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == nil || req.UserID == "" {
		badRequest(c, "Missing data")
		return
	}
	userID, err := h.callerID(c, req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	id, err := h.services.Questions.Create(c.Request.Context(), userID, *req.Question)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questionId": id})
}

func (h *handler) listQuestions(c *gin.Context) {
	userID, err := h.callerID(c, c.Query("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	if userID == "" {
		badRequest(c, "Missing userId")
		return
	}
	questions, err := h.services.Questions.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *handler) getQuestion(c *gin.Context) {
	q, err := h.services.Questions.Get(c.Request.Context(), c.Param("id"), identityOf(c).UID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *handler) updateQuestion(c *gin.Context) {
	var req updateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Updates == nil || req.UserID == "" {
		badRequest(c, "Missing data")
		return
	}
	userID, err := h.callerID(c, req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.services.Questions.Update(c.Request.Context(), c.Param("id"), userID, *req.Updates); err != nil {
		writeError(c, err)
		return
	}
	success(c)
}

func (h *handler) deleteQuestion(c *gin.Context) {
	userID, err := h.callerID(c, c.Query("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	if userID == "" {
		badRequest(c, "Missing userId")
		return
	}
	if err := h.services.Questions.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		writeError(c, err)
		return
	}
	success(c)
}

func (h *handler) uploadQuestionMedia(c *gin.Context) {
	userID, err := h.callerID(c, c.Query("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	if userID == "" {
		badRequest(c, "Missing userId")
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "Missing file")
		return
	}
	file, err := header.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer file.Close()

	url, err := h.services.Questions.AttachMedia(c.Request.Context(), c.Param("id"), userID, app.MediaUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mediaUrl": url})
}
