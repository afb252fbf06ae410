package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Send(ctx context.Context, userID, projectID snowflake.ID, email string) (*Response, error)
	Accept(ctx context.Context, userID snowflake.ID, token string) (*Response, error)
}
