package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/trackiy/internal/ticket/domain"
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

func (r *repository) Create(ctx context.Context, ticket domain.Ticket) error {
	return r.db.WithContext(ctx).Create(&ticket).Error
}

func (r *repository) FindInProject(ctx context.Context, projectID, ticketID snowflake.ID) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := r.db.WithContext(ctx).Raw(
		`SELECT t.* FROM tickets t
		 JOIN columns c ON c.id = t.column_id
		 WHERE t.id = ? AND c.project_id = ?`,
		ticketID, projectID,
	).First(&ticket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) ListByProject(ctx context.Context, projectID snowflake.ID) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	err := r.db.WithContext(ctx).Raw(
		`SELECT t.* FROM tickets t
		 JOIN columns c ON c.id = t.column_id
		 WHERE c.project_id = ?
		 ORDER BY t.created_at ASC`,
		projectID,
	).Scan(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *repository) ListByColumn(ctx context.Context, columnID snowflake.ID) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	err := r.db.WithContext(ctx).
		Where("column_id = ?", columnID).
		Order("created_at ASC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *repository) UpdateFields(ctx context.Context, ticketID snowflake.ID, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&domain.Ticket{}).Where("id = ?", ticketID).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrTicketNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, ticketID snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(`DELETE FROM tickets WHERE id = ?`, ticketID).Error
}

func (r *repository) DeleteByProject(ctx context.Context, projectID snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM tickets WHERE column_id IN (SELECT id FROM columns WHERE project_id = ?)`,
		projectID,
	).Error
}

func (r *repository) Search(ctx context.Context, projectIDs []snowflake.ID, query string, limit int) ([]domain.Ticket, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}

	pattern := "%" + strings.ToLower(query) + "%"
	var tickets []domain.Ticket
	err := r.db.WithContext(ctx).Raw(
		`SELECT t.* FROM tickets t
		 JOIN columns c ON c.id = t.column_id
		 WHERE c.project_id IN ?
		   AND (LOWER(t.title) LIKE ? OR LOWER(t.description) LIKE ?)
		 ORDER BY t.updated_at DESC
		 LIMIT ?`,
		projectIDs, pattern, pattern, limit,
	).Scan(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}
