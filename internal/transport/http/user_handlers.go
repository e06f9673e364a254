package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type saveUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *handler) saveUser(c *gin.Context) {
	var req saveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Missing data")
		return
	}
	profile, err := h.services.Users.Save(c.Request.Context(), identityOf(c).UID, c.Param("uid"), req.Name, req.Email)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *handler) getUser(c *gin.Context) {
	profile, err := h.services.Users.Get(c.Request.Context(), identityOf(c).UID, c.Param("uid"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
