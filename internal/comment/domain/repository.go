package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, comment Comment) error
	FindByID(ctx context.Context, projectID, ticketID, commentID snowflake.ID) (*Comment, error)
	ListByTicket(ctx context.Context, projectID, ticketID snowflake.ID) ([]Comment, error)
	Delete(ctx context.Context, commentID snowflake.ID) error
	DeleteByProject(ctx context.Context, projectID snowflake.ID) error
}
