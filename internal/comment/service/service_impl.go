package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/trackiy/internal/auth/domain"
	"github.com/smallbiznis/trackiy/internal/comment/domain"
	"go.uber.org/zap"
)

type service struct {
	repo  domain.Repository
	users authdomain.Repository
	genID *snowflake.Node
	log   *zap.Logger
}

func NewService(repo domain.Repository, users authdomain.Repository, genID *snowflake.Node, log *zap.Logger) domain.Service {
	return &service{
		repo:  repo,
		users: users,
		genID: genID,
		log:   log.Named("comment.service"),
	}
}

func (s *service) Create(ctx context.Context, userID, projectID, ticketID snowflake.ID, content string) (*domain.Response, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrInvalidContent
	}

	now := time.Now().UTC()
	comment := domain.Comment{
		ID:        s.genID.Generate(),
		Content:   content,
		TicketID:  ticketID,
		ProjectID: projectID,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := comment.Response(user.Summary())
	return &resp, nil
}

func (s *service) List(ctx context.Context, projectID, ticketID snowflake.ID) ([]domain.Response, error) {
	comments, err := s.repo.ListByTicket(ctx, projectID, ticketID)
	if err != nil {
		return nil, err
	}

	ids := make([]snowflake.ID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[snowflake.ID]authdomain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	resp := make([]domain.Response, 0, len(comments))
	for _, c := range comments {
		resp = append(resp, c.Response(byID[c.UserID].Summary()))
	}
	return resp, nil
}

func (s *service) Delete(ctx context.Context, userID, projectID, ticketID, commentID snowflake.ID) error {
	comment, err := s.repo.FindByID(ctx, projectID, ticketID, commentID)
	if err != nil {
		return err
	}

	// Ownership is compared by email, so an account recreated under the
	// same address keeps control of its old comments.
	requester, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	author, err := s.users.FindByID(ctx, comment.UserID)
	if err != nil {
		if errors.Is(err, authdomain.ErrUserNotFound) {
			return domain.ErrNotAuthor
		}
		return err
	}
	if !strings.EqualFold(requester.Email, author.Email) {
		return domain.ErrNotAuthor
	}

	return s.repo.Delete(ctx, commentID)
}
