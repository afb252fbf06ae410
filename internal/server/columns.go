package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	boarddomain "github.com/smallbiznis/trackiy/internal/board/domain"
)

type CreateColumnRequest struct {
	Name string `json:"name"`
}

type UpdateColumnRequest struct {
	Name  *string `json:"name"`
	Order *int    `json:"order"`
}

// projectScope parses the project path param and checks the caller can
// see the project. Shared by every project-nested handler.
func (s *Server) projectScope(c *gin.Context) (userID, projectID snowflake.ID, ok bool) {
	userID, found := currentUserID(c)
	if !found {
		AbortWithError(c, ErrUnauthorized)
		return 0, 0, false
	}

	projectID, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return 0, 0, false
	}

	if err := s.projectSvc.RequireVisible(c.Request.Context(), projectID, userID); err != nil {
		AbortWithError(c, err)
		return 0, 0, false
	}

	return userID, projectID, true
}

func (s *Server) ListColumns(c *gin.Context) {
	userID, projectID, ok := s.projectScope(c)
	if !ok {
		return
	}

	// Columns are served with their tickets attached, same shape the
	// hydrated project uses.
	resp, err := s.projectSvc.Get(c.Request.Context(), userID, projectID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp.Columns)
}

func (s *Server) CreateColumn(c *gin.Context) {
	_, projectID, ok := s.projectScope(c)
	if !ok {
		return
	}

	var req CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.boardSvc.CreateColumn(c.Request.Context(), projectID, boarddomain.CreateColumnRequest{
		Name: req.Name,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) UpdateColumn(c *gin.Context) {
	_, projectID, ok := s.projectScope(c)
	if !ok {
		return
	}

	columnID, err := pathID(c, "columnId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.boardSvc.UpdateColumn(c.Request.Context(), projectID, columnID, boarddomain.UpdateColumnRequest{
		Name:  req.Name,
		Order: req.Order,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteColumn(c *gin.Context) {
	_, projectID, ok := s.projectScope(c)
	if !ok {
		return
	}

	columnID, err := pathID(c, "columnId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.boardSvc.DeleteColumn(c.Request.Context(), projectID, columnID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) ListStatuses(c *gin.Context) {
	_, projectID, ok := s.projectScope(c)
	if !ok {
		return
	}

	resp, err := s.boardSvc.ListStatuses(c.Request.Context(), projectID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
