package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/trackiy/internal/invitation/domain"
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

func (r *repository) Create(ctx context.Context, invitation domain.Invitation) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO invitations (id, email, project_id, token, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		invitation.ID,
		invitation.Email,
		invitation.ProjectID,
		invitation.Token,
		invitation.Status,
		invitation.CreatedAt,
	).Error
}

func (r *repository) FindByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	var invitation domain.Invitation
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&invitation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *repository) MarkAccepted(ctx context.Context, id snowflake.ID) error {
	tx := r.db.WithContext(ctx).Model(&domain.Invitation{}).Where("id = ?", id).Update("status", domain.StatusAccepted)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}

func (r *repository) DeleteByProject(ctx context.Context, projectID snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(`DELETE FROM invitations WHERE project_id = ?`, projectID).Error
}
