package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/trackiy/internal/board/domain"
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

func (r *repository) CreateStatus(ctx context.Context, status domain.Status) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO statuses (id, name, created_at, updated_at)
		 VALUES (?, ?, ?, ?)`,
		status.ID,
		status.Name,
		status.CreatedAt,
		status.UpdatedAt,
	).Error
}

func (r *repository) CreateColumn(ctx context.Context, column domain.Column) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO columns (id, name, sort_order, status_id, project_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		column.ID,
		column.Name,
		column.Order,
		column.StatusID,
		column.ProjectID,
		column.CreatedAt,
		column.UpdatedAt,
	).Error
}

func (r *repository) ListByProject(ctx context.Context, projectID snowflake.ID) ([]domain.ColumnWithStatus, error) {
	var columns []domain.Column
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("sort_order ASC").
		Find(&columns).Error
	if err != nil {
		return nil, err
	}
	return r.attachStatuses(ctx, columns)
}

func (r *repository) attachStatuses(ctx context.Context, columns []domain.Column) ([]domain.ColumnWithStatus, error) {
	if len(columns) == 0 {
		return nil, nil
	}

	ids := make([]snowflake.ID, 0, len(columns))
	for _, c := range columns {
		ids = append(ids, c.StatusID)
	}

	var statuses []domain.Status
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&statuses).Error; err != nil {
		return nil, err
	}
	byID := make(map[snowflake.ID]domain.Status, len(statuses))
	for _, s := range statuses {
		byID[s.ID] = s
	}

	out := make([]domain.ColumnWithStatus, 0, len(columns))
	for _, c := range columns {
		out = append(out, domain.ColumnWithStatus{Column: c, Status: byID[c.StatusID]})
	}
	return out, nil
}

func (r *repository) FindColumnByID(ctx context.Context, projectID, columnID snowflake.ID) (*domain.ColumnWithStatus, error) {
	var column domain.Column
	err := r.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", columnID, projectID).
		First(&column).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrColumnNotFound
	}
	if err != nil {
		return nil, err
	}

	var status domain.Status
	if err := r.db.WithContext(ctx).Where("id = ?", column.StatusID).First(&status).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return &domain.ColumnWithStatus{Column: column, Status: status}, nil
}

func (r *repository) FindColumnByStatus(ctx context.Context, projectID, statusID snowflake.ID) (*domain.Column, error) {
	var column domain.Column
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND status_id = ?", projectID, statusID).
		First(&column).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrColumnNotFound
	}
	if err != nil {
		return nil, err
	}
	return &column, nil
}

func (r *repository) IntakeColumn(ctx context.Context, projectID snowflake.ID) (*domain.Column, error) {
	var column domain.Column
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("sort_order ASC").
		First(&column).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrColumnNotFound
	}
	if err != nil {
		return nil, err
	}
	return &column, nil
}

func (r *repository) MaxOrder(ctx context.Context, projectID snowflake.ID) (int, bool, error) {
	var row struct {
		MaxOrder *int
	}
	err := r.db.WithContext(ctx).Raw(
		`SELECT MAX(sort_order) AS max_order FROM columns WHERE project_id = ?`,
		projectID,
	).Scan(&row).Error
	if err != nil {
		return 0, false, err
	}
	if row.MaxOrder == nil {
		return 0, false, nil
	}
	return *row.MaxOrder, true, nil
}

func (r *repository) RenameColumn(ctx context.Context, columnID snowflake.ID, name string) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE columns SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, columnID,
	).Error
}

func (r *repository) RenameStatus(ctx context.Context, statusID snowflake.ID, name string) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE statuses SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, statusID,
	).Error
}

func (r *repository) UpdateColumnOrder(ctx context.Context, columnID snowflake.ID, order int) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE columns SET sort_order = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		order, columnID,
	).Error
}

func (r *repository) CountTickets(ctx context.Context, columnID snowflake.ID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM tickets WHERE column_id = ?`,
		columnID,
	).Scan(&count).Error
	return count, err
}

func (r *repository) DeleteColumn(ctx context.Context, columnID snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(`DELETE FROM columns WHERE id = ?`, columnID).Error
}

func (r *repository) DeleteStatus(ctx context.Context, statusID snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(`DELETE FROM statuses WHERE id = ?`, statusID).Error
}

func (r *repository) DeleteByProject(ctx context.Context, projectID snowflake.ID) error {
	if err := r.db.WithContext(ctx).Exec(
		`DELETE FROM statuses WHERE id IN (SELECT status_id FROM columns WHERE project_id = ?)`,
		projectID,
	).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM columns WHERE project_id = ?`,
		projectID,
	).Error
}
