package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	ticketdomain "github.com/smallbiznis/trackiy/internal/ticket/domain"
)

type CreateTicketRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	Assignee    string   `json:"assignee"`
	Labels      []string `json:"labels"`
}

type UpdateTicketRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Priority    *string   `json:"priority"`
	Assignee    *string   `json:"assignee"`
	Labels      *[]string `json:"labels"`
	StatusID    *string   `json:"statusId"`
}

func (s *Server) CreateTicket(c *gin.Context) {
	userID, projectID, ok := s.projectScope(c)
	if !ok {
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ticketSvc.Create(c.Request.Context(), userID, projectID, ticketdomain.CreateTicketRequest{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Assignee:    req.Assignee,
		Labels:      req.Labels,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (s *Server) ListTickets(c *gin.Context) {
	_, projectID, ok := s.projectScope(c)
	if !ok {
		return
	}

	resp, err := s.ticketSvc.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetTicket(c *gin.Context) {
	_, projectID, ok := s.projectScope(c)
	if !ok {
		return
	}

	ticketID, err := pathID(c, "ticketId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.ticketSvc.Get(c.Request.Context(), projectID, ticketID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) UpdateTicket(c *gin.Context) {
	_, projectID, ok := s.projectScope(c)
	if !ok {
		return
	}

	ticketID, err := pathID(c, "ticketId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ticketSvc.Update(c.Request.Context(), projectID, ticketID, ticketdomain.UpdateTicketRequest{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Assignee:    req.Assignee,
		Labels:      req.Labels,
		StatusID:    req.StatusID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) DeleteTicket(c *gin.Context) {
	_, projectID, ok := s.projectScope(c)
	if !ok {
		return
	}

	ticketID, err := pathID(c, "ticketId")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.ticketSvc.Delete(c.Request.Context(), projectID, ticketID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) SearchTickets(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, []ticketdomain.Response{})
		return
	}

	resp, err := s.ticketSvc.Search(c.Request.Context(), userID, query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
