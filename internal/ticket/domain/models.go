// Package domain contains ticket types and mutation contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	boarddomain "github.com/smallbiznis/trackiy/internal/board/domain"
	"gorm.io/datatypes"
)

const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"

	// UnassignedSentinel is stored when a ticket has no assignee.
	UnassignedSentinel = "unassigned"
)

// Ticket is a unit of work living in exactly one column/status pair.
type Ticket struct {
	ID           snowflake.ID                 `gorm:"primaryKey"`
	TicketNumber string                       `gorm:"column:ticket_number;type:text;not null;index"`
	Title        string                       `gorm:"type:text;not null"`
	Description  string                       `gorm:"type:text"`
	Priority     string                       `gorm:"type:text;not null;default:'MEDIUM'"`
	Assignee     string                       `gorm:"type:text;not null;default:'unassigned'"`
	Reporter     string                       `gorm:"type:text"`
	Labels       datatypes.JSONSlice[string]  `gorm:"not null"`
	ColumnID     snowflake.ID                 `gorm:"column:column_id;not null;index"`
	StatusID     snowflake.ID                 `gorm:"column:status_id;not null;index"`
	CreatedAt    time.Time                    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time                    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Ticket) TableName() string { return "tickets" }

// Response is the client-facing ticket shape.
type Response struct {
	ID           string                      `json:"id"`
	TicketNumber string                      `json:"ticketNumber"`
	Title        string                      `json:"title"`
	Description  string                      `json:"description,omitempty"`
	Priority     string                      `json:"priority"`
	Assignee     string                      `json:"assignee"`
	Reporter     string                      `json:"reporter,omitempty"`
	Labels       []string                    `json:"labels"`
	ColumnID     string                      `json:"columnId"`
	StatusID     string                      `json:"statusId"`
	Status       *boarddomain.StatusResponse `json:"status,omitempty"`
	CreatedAt    time.Time                   `json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`
}

// Response returns the client-facing view of the ticket.
func (t Ticket) Response(status *boarddomain.Status) Response {
	labels := []string(t.Labels)
	if labels == nil {
		labels = []string{}
	}
	resp := Response{
		ID:           t.ID.String(),
		TicketNumber: t.TicketNumber,
		Title:        t.Title,
		Description:  t.Description,
		Priority:     t.Priority,
		Assignee:     t.Assignee,
		Reporter:     t.Reporter,
		Labels:       labels,
		ColumnID:     t.ColumnID.String(),
		StatusID:     t.StatusID.String(),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if status != nil {
		sr := status.Response()
		resp.Status = &sr
	}
	return resp
}
