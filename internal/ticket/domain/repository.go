package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, ticket Ticket) error
	FindInProject(ctx context.Context, projectID, ticketID snowflake.ID) (*Ticket, error)
	ListByProject(ctx context.Context, projectID snowflake.ID) ([]Ticket, error)
	ListByColumn(ctx context.Context, columnID snowflake.ID) ([]Ticket, error)
	UpdateFields(ctx context.Context, ticketID snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, ticketID snowflake.ID) error
	DeleteByProject(ctx context.Context, projectID snowflake.ID) error
	Search(ctx context.Context, projectIDs []snowflake.ID, query string, limit int) ([]Ticket, error)
}
