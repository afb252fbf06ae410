package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type CreateCommentRequest struct {
	Content string `json:"content"`
}

func (s *Server) ListComments(c *gin.Context) {
	_, projectID, ok := s.projectScope(c)
	if !ok {
		return
	}

	ticketID, err := pathID(c, "ticketId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.commentSvc.List(c.Request.Context(), projectID, ticketID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateComment(c *gin.Context) {
	userID, projectID, ok := s.projectScope(c)
	if !ok {
		return
	}

	ticketID, err := pathID(c, "ticketId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.commentSvc.Create(c.Request.Context(), userID, projectID, ticketID, req.Content)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) DeleteComment(c *gin.Context) {
	userID, projectID, ok := s.projectScope(c)
	if !ok {
		return
	}

	ticketID, err := pathID(c, "ticketId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	commentID, err := pathID(c, "commentId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.commentSvc.Delete(c.Request.Context(), userID, projectID, ticketID, commentID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
