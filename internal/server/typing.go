package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/trackiy/internal/presence"
)

type TypingRequest struct {
	TicketID string `json:"ticketId"`
	FieldID  string `json:"fieldId"`
}

func (s *Server) StartTyping(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req TypingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ticketID, err := snowflake.ParseString(req.TicketID)
	if err != nil {
		AbortWithError(c, newValidationError("ticketId", "invalid_ticket_id", "invalid ticket id"))
		return
	}

	if err := s.presenceSvc.Start(c.Request.Context(), userID, ticketID, req.FieldID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) StopTyping(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	ticketID, err := snowflake.ParseString(c.Query("ticketId"))
	if err != nil {
		AbortWithError(c, newValidationError("ticketId", "invalid_ticket_id", "invalid ticket id"))
		return
	}

	if err := s.presenceSvc.Stop(c.Request.Context(), userID, ticketID, c.Query("fieldId")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) ListTyping(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	ticketID, err := snowflake.ParseString(c.Query("ticketId"))
	if err != nil {
		AbortWithError(c, newValidationError("ticketId", "invalid_ticket_id", "invalid ticket id"))
		return
	}

	views, err := s.presenceSvc.List(c.Request.Context(), userID, ticketID, c.Query("fieldId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if views == nil {
		views = []presence.View{}
	}
	c.JSON(http.StatusOK, views)
}
