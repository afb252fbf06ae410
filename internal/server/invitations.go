package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type InviteMemberRequest struct {
	Email string `json:"email"`
}

func (s *Server) InviteMember(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	projectID, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req InviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	// Membership is checked by the service so the same rule covers
	// callers that never touch HTTP.
	resp, err := s.invitationSvc.Send(c.Request.Context(), userID, projectID, req.Email)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) AcceptInvite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		AbortWithError(c, ErrNotFound)
		return
	}

	resp, err := s.invitationSvc.Accept(c.Request.Context(), userID, token)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
