package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	ListColumns(ctx context.Context, projectID snowflake.ID) ([]ColumnWithStatus, error)
	ListStatuses(ctx context.Context, projectID snowflake.ID) ([]StatusResponse, error)
	CreateColumn(ctx context.Context, projectID snowflake.ID, req CreateColumnRequest) (*ColumnResponse, error)
	UpdateColumn(ctx context.Context, projectID, columnID snowflake.ID, req UpdateColumnRequest) (*ColumnResponse, error)
	DeleteColumn(ctx context.Context, projectID, columnID snowflake.ID) error
}

type CreateColumnRequest struct {
	Name string
}

type UpdateColumnRequest struct {
	Name  *string
	Order *int
}
