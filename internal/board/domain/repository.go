package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ColumnWithStatus pairs a column with its linked status row.
type ColumnWithStatus struct {
	Column Column
	Status Status
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateStatus(ctx context.Context, status Status) error
	CreateColumn(ctx context.Context, column Column) error
	ListByProject(ctx context.Context, projectID snowflake.ID) ([]ColumnWithStatus, error)
	FindColumnByID(ctx context.Context, projectID, columnID snowflake.ID) (*ColumnWithStatus, error)
	FindColumnByStatus(ctx context.Context, projectID, statusID snowflake.ID) (*Column, error)
	IntakeColumn(ctx context.Context, projectID snowflake.ID) (*Column, error)
	MaxOrder(ctx context.Context, projectID snowflake.ID) (int, bool, error)
	RenameColumn(ctx context.Context, columnID snowflake.ID, name string) error
	RenameStatus(ctx context.Context, statusID snowflake.ID, name string) error
	UpdateColumnOrder(ctx context.Context, columnID snowflake.ID, order int) error
	CountTickets(ctx context.Context, columnID snowflake.ID) (int64, error)
	DeleteColumn(ctx context.Context, columnID snowflake.ID) error
	DeleteStatus(ctx context.Context, statusID snowflake.ID) error
	DeleteByProject(ctx context.Context, projectID snowflake.ID) error
}
