// Package domain contains project and membership types.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/trackiy/internal/auth/domain"
	boarddomain "github.com/smallbiznis/trackiy/internal/board/domain"
	ticketdomain "github.com/smallbiznis/trackiy/internal/ticket/domain"
)

const (
	TypeTeamManaged    = "TEAM_MANAGED"
	TypeCompanyManaged = "COMPANY_MANAGED"

	CategorySoftware = "SOFTWARE"
	CategoryService  = "SERVICE"

	TemplateKanban          = "KANBAN"
	TemplateCustomerService = "CUSTOMER_SERVICE"
)

// Project is a board of columns and tickets owned by a user.
type Project struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Name      string       `gorm:"type:text;not null"`
	Key       string       `gorm:"type:text;not null;uniqueIndex"`
	Type      string       `gorm:"type:text;not null"`
	Category  string       `gorm:"type:text;not null;default:'SOFTWARE'"`
	Template  string       `gorm:"type:text;not null;default:'KANBAN'"`
	OwnerID   snowflake.ID `gorm:"column:owner_id;not null;index"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Project) TableName() string { return "projects" }

// ProjectMember links a project to a user.
type ProjectMember struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	ProjectID snowflake.ID `gorm:"column:project_id;not null;index;uniqueIndex:ux_project_user,priority:1"`
	UserID    snowflake.ID `gorm:"column:user_id;not null;index;uniqueIndex:ux_project_user,priority:2"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ProjectMember) TableName() string { return "project_members" }

// BoardColumn is a column hydrated with its tickets.
type BoardColumn struct {
	boarddomain.ColumnResponse
	Tickets []ticketdomain.Response `json:"tickets"`
}

// MemberResponse is the client-facing membership shape.
type MemberResponse struct {
	ID     string             `json:"id"`
	UserID string             `json:"userId"`
	User   authdomain.Summary `json:"user"`
}

// Response is the client-facing project shape.
type Response struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Key       string           `json:"key"`
	Type      string           `json:"type"`
	Category  string           `json:"category"`
	Template  string           `json:"template"`
	OwnerID   string           `json:"ownerId"`
	Columns   []BoardColumn    `json:"columns"`
	Members   []MemberResponse `json:"members"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}
