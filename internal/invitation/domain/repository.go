package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, invitation Invitation) error
	FindByToken(ctx context.Context, token string) (*Invitation, error)
	MarkAccepted(ctx context.Context, id snowflake.ID) error
	DeleteByProject(ctx context.Context, projectID snowflake.ID) error
}
