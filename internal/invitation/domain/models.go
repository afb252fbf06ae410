// Package domain contains project invitation types.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
)

// Invitation grants project membership to whoever redeems its token
// while signed in. A token is single-use; redeeming an accepted token
// is a no-op success.
type Invitation struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Email     string       `gorm:"type:text;not null"`
	ProjectID snowflake.ID `gorm:"column:project_id;not null;index"`
	Token     string       `gorm:"type:text;not null;uniqueIndex"`
	Status    string       `gorm:"type:text;not null;default:'pending'"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Invitation) TableName() string { return "invitations" }

// Response is the client-facing invitation shape.
type Response struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	ProjectID string    `json:"projectId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Response returns the client-facing view of the invitation. The token
// is never echoed back.
func (i Invitation) Response() Response {
	return Response{
		ID:        i.ID.String(),
		Email:     i.Email,
		ProjectID: i.ProjectID.String(),
		Status:    i.Status,
		CreatedAt: i.CreatedAt,
	}
}
