package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/trackiy/internal/comment/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, comment domain.Comment) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO comments (id, content, ticket_id, project_id, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		comment.ID,
		comment.Content,
		comment.TicketID,
		comment.ProjectID,
		comment.UserID,
		comment.CreatedAt,
		comment.UpdatedAt,
	).Error
}

func (r *repository) FindByID(ctx context.Context, projectID, ticketID, commentID snowflake.ID) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.WithContext(ctx).
		Where("id = ? AND project_id = ? AND ticket_id = ?", commentID, projectID, ticketID).
		First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *repository) ListByTicket(ctx context.Context, projectID, ticketID snowflake.ID) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND ticket_id = ?", projectID, ticketID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *repository) Delete(ctx context.Context, commentID snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(`DELETE FROM comments WHERE id = ?`, commentID).Error
}

func (r *repository) DeleteByProject(ctx context.Context, projectID snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(`DELETE FROM comments WHERE project_id = ?`, projectID).Error
}
