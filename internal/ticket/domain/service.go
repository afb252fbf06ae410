package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, userID, projectID snowflake.ID, req CreateTicketRequest) (*Response, error)
	ListByProject(ctx context.Context, projectID snowflake.ID) ([]Response, error)
	Get(ctx context.Context, projectID, ticketID snowflake.ID) (*Response, error)
	Update(ctx context.Context, projectID, ticketID snowflake.ID, req UpdateTicketRequest) (*Response, error)
	Delete(ctx context.Context, projectID, ticketID snowflake.ID) error
	Search(ctx context.Context, userID snowflake.ID, query string) ([]Response, error)
}

type CreateTicketRequest struct {
	Title       string
	Description string
	Priority    string
	Assignee    string
	Labels      []string
}

type UpdateTicketRequest struct {
	Title       *string
	Description *string
	Priority    *string
	Assignee    *string
	Labels      *[]string
	StatusID    *string
}
