package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, userID, projectID, ticketID snowflake.ID, content string) (*Response, error)
	List(ctx context.Context, projectID, ticketID snowflake.ID) ([]Response, error)
	Delete(ctx context.Context, userID, projectID, ticketID, commentID snowflake.ID) error
}
