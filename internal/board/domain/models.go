// Package domain contains board types: columns and their linked statuses.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status is the named state tickets in a column are in.
type Status struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Name      string       `gorm:"type:text;not null"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Status) TableName() string { return "statuses" }

// Column is a board lane. Order 0 is the intake column where new
// tickets land.
type Column struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Name      string       `gorm:"type:text;not null"`
	Order     int          `gorm:"column:sort_order;not null"`
	StatusID  snowflake.ID `gorm:"column:status_id;not null;index"`
	ProjectID snowflake.ID `gorm:"column:project_id;not null;index"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Column) TableName() string { return "columns" }

// StatusResponse is the client-facing status shape.
type StatusResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ColumnResponse is the client-facing column shape.
type ColumnResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Order     int            `json:"order"`
	StatusID  string         `json:"statusId"`
	ProjectID string         `json:"projectId"`
	Status    StatusResponse `json:"status"`
}

// Response returns the client-facing view of the status.
func (s Status) Response() StatusResponse {
	return StatusResponse{ID: s.ID.String(), Name: s.Name}
}

// Response returns the client-facing view of the column.
func (c Column) Response(status Status) ColumnResponse {
	return ColumnResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Order:     c.Order,
		StatusID:  c.StatusID.String(),
		ProjectID: c.ProjectID.String(),
		Status:    status.Response(),
	}
}

// CanonicalStatusNames is the default status/column set created with
// every project, in board order.
var CanonicalStatusNames = []string{
	"Ready to Development",
	"In Development",
	"Ready for Code Review",
	"Ready for QA",
	"Done",
}
