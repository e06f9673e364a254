package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trivia-service/internal/app"
)

type createQuestionnaireRequest struct {
	Questionnaire *struct {
		Title       string   `json:"title"`
		QuestionIDs []string `json:"questionIds"`
	} `json:"questionnaire"`
	UserID string `json:"userId"`
}

type updateQuestionnaireRequest struct {
	Updates *app.QuestionnairePatch `json:"updates"`
	UserID  string                  `json:"userId"`
}

func (h *handler) createQuestionnaire(c *gin.Context) {
	var req createQuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Questionnaire == nil || req.Questionnaire.Title == "" || req.UserID == "" {
		badRequest(c, "Missing data")
		return
	}
	userID, err := h.callerID(c, req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	id, err := h.services.Questionnaires.Create(c.Request.Context(), userID, req.Questionnaire.Title, req.Questionnaire.QuestionIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questionnaireId": id})
}

func (h *handler) listQuestionnaires(c *gin.Context) {
	userID, err := h.callerID(c, c.Query("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	if userID == "" {
		badRequest(c, "Missing userId")
		return
	}
	questionnaires, err := h.services.Questionnaires.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, questionnaires)
}

func (h *handler) getQuestionnaire(c *gin.Context) {
	q, err := h.services.Questionnaires.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *handler) updateQuestionnaire(c *gin.Context) {
	var req updateQuestionnaireRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Updates == nil || req.UserID == "" {
		badRequest(c, "Missing data")
		return
	}
	userID, err := h.callerID(c, req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.services.Questionnaires.Update(c.Request.Context(), c.Param("id"), userID, *req.Updates); err != nil {
		writeError(c, err)
		return
	}
	success(c)
}

func (h *handler) deleteQuestionnaire(c *gin.Context) {
	userID, err := h.callerID(c, c.Query("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	if userID == "" {
		badRequest(c, "Missing userId")
		return
	}
	if err := h.services.Questionnaires.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		writeError(c, err)
		return
	}
	success(c)
}
