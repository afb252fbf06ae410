package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, userID snowflake.ID, req CreateProjectRequest) (*Response, error)
	List(ctx context.Context, userID snowflake.ID) ([]Response, error)
	Get(ctx context.Context, userID, projectID snowflake.ID) (*Response, error)
	Delete(ctx context.Context, userID, projectID snowflake.ID) error
	ListMembers(ctx context.Context, projectID snowflake.ID) ([]MemberResponse, error)
	AddMembers(ctx context.Context, projectID snowflake.ID, memberIDs []string) ([]MemberResponse, error)
	RequireMember(ctx context.Context, projectID, userID snowflake.ID) error
	RequireVisible(ctx context.Context, projectID, userID snowflake.ID) error
}

type CreateProjectRequest struct {
	Name      string
	Key       string
	Type      string
	Category  string
	Template  string
	MemberIDs []string
}
