package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateProject(ctx context.Context, project Project) error
	FindByID(ctx context.Context, id snowflake.ID) (*Project, error)
	KeyExists(ctx context.Context, key string) (bool, error)
	ListVisibleToUser(ctx context.Context, userID snowflake.ID) ([]Project, error)
	ListVisibleIDs(ctx context.Context, userID snowflake.ID) ([]snowflake.ID, error)
	DeleteProject(ctx context.Context, id snowflake.ID) error

	AddMember(ctx context.Context, member ProjectMember) error
	IsMember(ctx context.Context, projectID, userID snowflake.ID) (bool, error)
	ListMembers(ctx context.Context, projectID snowflake.ID) ([]ProjectMember, error)
	DeleteMembers(ctx context.Context, projectID snowflake.ID) error
}
