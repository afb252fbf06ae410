package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/trackiy/internal/board/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db    *gorm.DB
	repo  domain.Repository
	genID *snowflake.Node
	log   *zap.Logger
}

func NewService(db *gorm.DB, repo domain.Repository, genID *snowflake.Node, log *zap.Logger) domain.Service {
	return &service{
		db:    db,
		repo:  repo,
		genID: genID,
		log:   log.Named("board.service"),
	}
}

func (s *service) ListColumns(ctx context.Context, projectID snowflake.ID) ([]domain.ColumnWithStatus, error) {
	return s.repo.ListByProject(ctx, projectID)
}

func (s *service) ListStatuses(ctx context.Context, projectID snowflake.ID) ([]domain.StatusResponse, error) {
	pairs, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.StatusResponse, 0, len(pairs))
	for _, pair := range pairs {
		resp = append(resp, pair.Status.Response())
	}
	return resp, nil
}

func (s *service) CreateColumn(ctx context.Context, projectID snowflake.ID, req domain.CreateColumnRequest) (*domain.ColumnResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	maxOrder, any, err := s.repo.MaxOrder(ctx, projectID)
	if err != nil {
		return nil, err
	}
	order := 0
	if any {
		order = maxOrder + 1
	}

	now := time.Now().UTC()
	status := domain.Status{
		ID:        s.genID.Generate(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	column := domain.Column{
		ID:        s.genID.Generate(),
		Name:      name,
		Order:     order,
		StatusID:  status.ID,
		ProjectID: projectID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateStatus(ctx, status); err != nil {
			return err
		}
		return repo.CreateColumn(ctx, column)
	})
	if err != nil {
		return nil, err
	}

	resp := column.Response(status)
	return &resp, nil
}

func (s *service) UpdateColumn(ctx context.Context, projectID, columnID snowflake.ID, req domain.UpdateColumnRequest) (*domain.ColumnResponse, error) {
	pair, err := s.repo.FindColumnByID(ctx, projectID, columnID)
	if err != nil {
		return nil, err
	}

	var name string
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
	}

	// Column and status names stay in lockstep, so both rows change in
	// the same transaction.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if req.Name != nil {
			if err := repo.RenameColumn(ctx, columnID, name); err != nil {
				return err
			}
			if err := repo.RenameStatus(ctx, pair.Column.StatusID, name); err != nil {
				return err
			}
		}
		if req.Order != nil {
			if err := repo.UpdateColumnOrder(ctx, columnID, *req.Order); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.FindColumnByID(ctx, projectID, columnID)
	if err != nil {
		return nil, err
	}
	resp := updated.Column.Response(updated.Status)
	return &resp, nil
}

func (s *service) DeleteColumn(ctx context.Context, projectID, columnID snowflake.ID) error {
	pair, err := s.repo.FindColumnByID(ctx, projectID, columnID)
	if err != nil {
		return err
	}
	if pair.Column.Order == 0 {
		return domain.ErrIntakeColumn
	}

	count, err := s.repo.CountTickets(ctx, columnID)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrColumnNotEmpty
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteColumn(ctx, columnID); err != nil {
			return err
		}
		return repo.DeleteStatus(ctx, pair.Column.StatusID)
	})
}
