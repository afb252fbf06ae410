package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/trackiy/internal/project/domain"
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

func (r *repository) CreateProject(ctx context.Context, project domain.Project) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO projects (id, name, key, type, category, template, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID,
		project.Name,
		project.Key,
		project.Type,
		project.Category,
		project.Template,
		project.OwnerID,
		project.CreatedAt,
		project.UpdatedAt,
	).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Project, error) {
	var project domain.Project
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *repository) KeyExists(ctx context.Context, key string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Project{}).Where("key = ?", key).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ListVisibleToUser(ctx context.Context, userID snowflake.ID) ([]domain.Project, error) {
	var projects []domain.Project
	err := r.db.WithContext(ctx).Raw(
		`SELECT DISTINCT p.* FROM projects p
		 LEFT JOIN project_members m ON m.project_id = p.id
		 WHERE p.owner_id = ? OR m.user_id = ?
		 ORDER BY p.created_at ASC`,
		userID, userID,
	).Scan(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *repository) ListVisibleIDs(ctx context.Context, userID snowflake.ID) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := r.db.WithContext(ctx).Raw(
		`SELECT DISTINCT p.id FROM projects p
		 LEFT JOIN project_members m ON m.project_id = p.id
		 WHERE p.owner_id = ? OR m.user_id = ?`,
		userID, userID,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) DeleteProject(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(`DELETE FROM projects WHERE id = ?`, id).Error
}

func (r *repository) AddMember(ctx context.Context, member domain.ProjectMember) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO project_members (id, project_id, user_id, created_at)
		 VALUES (?, ?, ?, ?)`,
		member.ID,
		member.ProjectID,
		member.UserID,
		member.CreatedAt,
	).Error
}

func (r *repository) IsMember(ctx context.Context, projectID, userID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ListMembers(ctx context.Context, projectID snowflake.ID) ([]domain.ProjectMember, error) {
	var members []domain.ProjectMember
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repository) DeleteMembers(ctx context.Context, projectID snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(`DELETE FROM project_members WHERE project_id = ?`, projectID).Error
}
