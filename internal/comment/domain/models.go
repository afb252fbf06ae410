// Package domain contains ticket comment types.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/trackiy/internal/auth/domain"
)

// Comment is a user-authored note on a ticket.
type Comment struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Content   string       `gorm:"type:text;not null"`
	TicketID  snowflake.ID `gorm:"column:ticket_id;not null;index"`
	ProjectID snowflake.ID `gorm:"column:project_id;not null;index"`
	UserID    snowflake.ID `gorm:"column:user_id;not null;index"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Comment) TableName() string { return "comments" }

// Response is the client-facing comment shape.
type Response struct {
	ID        string             `json:"id"`
	Content   string             `json:"content"`
	TicketID  string             `json:"ticketId"`
	ProjectID string             `json:"projectId"`
	UserID    string             `json:"userId"`
	User      authdomain.Summary `json:"user"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Response returns the client-facing view of the comment.
func (c Comment) Response(user authdomain.Summary) Response {
	return Response{
		ID:        c.ID.String(),
		Content:   c.Content,
		TicketID:  c.TicketID.String(),
		ProjectID: c.ProjectID.String(),
		UserID:    c.UserID.String(),
		User:      user,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
