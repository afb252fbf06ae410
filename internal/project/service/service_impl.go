package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/trackiy/internal/auth/domain"
	boarddomain "github.com/smallbiznis/trackiy/internal/board/domain"
	commentdomain "github.com/smallbiznis/trackiy/internal/comment/domain"
	invitationdomain "github.com/smallbiznis/trackiy/internal/invitation/domain"
	"github.com/smallbiznis/trackiy/internal/project/domain"
	ticketdomain "github.com/smallbiznis/trackiy/internal/ticket/domain"
	"github.com/smallbiznis/trackiy/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db          *gorm.DB
	repo        domain.Repository
	board       boarddomain.Repository
	tickets     ticketdomain.Repository
	comments    commentdomain.Repository
	invitations invitationdomain.Repository
	users       authdomain.Repository
	genID       *snowflake.Node
	log         *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo domain.Repository,
	board boarddomain.Repository,
	tickets ticketdomain.Repository,
	comments commentdomain.Repository,
	invitations invitationdomain.Repository,
	users authdomain.Repository,
	genID *snowflake.Node,
	log *zap.Logger,
) domain.Service {
	return &service{
		db:          db,
		repo:        repo,
		board:       board,
		tickets:     tickets,
		comments:    comments,
		invitations: invitations,
		users:       users,
		genID:       genID,
		log:         log.Named("project.service"),
	}
}

func (s *service) Create(ctx context.Context, userID snowflake.ID, req domain.CreateProjectRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	key := strings.ToUpper(strings.TrimSpace(req.Key))
	if key == "" {
		return nil, domain.ErrInvalidKey
	}

	projectType := strings.TrimSpace(req.Type)
	switch projectType {
	case domain.TypeTeamManaged, domain.TypeCompanyManaged:
	default:
		return nil, domain.ErrInvalidType
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = domain.CategorySoftware
	}
	template := strings.TrimSpace(req.Template)
	if template == "" {
		template = domain.TemplateKanban
	}

	exists, err := s.repo.KeyExists(ctx, key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateKey
	}

	now := time.Now().UTC()
	project := domain.Project{
		ID:        s.genID.Generate(),
		Name:      name,
		Key:       key,
		Type:      projectType,
		Category:  category,
		Template:  template,
		OwnerID:   userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	memberIDs := dedupeMemberIDs(userID, req.MemberIDs)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		board := s.board.WithTx(tx)

		if err := repo.CreateProject(ctx, project); err != nil {
			return err
		}

		for order, statusName := range boarddomain.CanonicalStatusNames {
			status := boarddomain.Status{
				ID:        s.genID.Generate(),
				Name:      statusName,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := board.CreateStatus(ctx, status); err != nil {
				return err
			}
			if err := board.CreateColumn(ctx, boarddomain.Column{
				ID:        s.genID.Generate(),
				Name:      statusName,
				Order:     order,
				StatusID:  status.ID,
				ProjectID: project.ID,
				CreatedAt: now,
				UpdatedAt: now,
			}); err != nil {
				return err
			}
		}

		for _, memberID := range memberIDs {
			if err := repo.AddMember(ctx, domain.ProjectMember{
				ID:        s.genID.Generate(),
				ProjectID: project.ID,
				UserID:    memberID,
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		// A concurrent create can slip past the KeyExists check; the
		// unique index settles it.
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateKey
		}
		return nil, err
	}

	s.log.Info("project created",
		zap.String("project_id", project.ID.String()),
		zap.String("key", key),
	)

	return s.hydrate(ctx, project)
}

func (s *service) List(ctx context.Context, userID snowflake.ID) ([]domain.Response, error) {
	projects, err := s.repo.ListVisibleToUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(projects))
	for _, project := range projects {
		hydrated, err := s.hydrate(ctx, project)
		if err != nil {
			return nil, err
		}
		resp = append(resp, *hydrated)
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, userID, projectID snowflake.ID) (*domain.Response, error) {
	if err := s.RequireVisible(ctx, projectID, userID); err != nil {
		return nil, err
	}

	project, err := s.repo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, *project)
}

func (s *service) Delete(ctx context.Context, userID, projectID snowflake.ID) error {
	if _, err := s.repo.FindByID(ctx, projectID); err != nil {
		return err
	}

	member, err := s.repo.IsMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !member {
		return domain.ErrNotMember
	}

	// Everything the project owns goes in one transaction so no orphan
	// rows survive a partial failure.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.comments.WithTx(tx).DeleteByProject(ctx, projectID); err != nil {
			return err
		}
		if err := s.tickets.WithTx(tx).DeleteByProject(ctx, projectID); err != nil {
			return err
		}
		if err := s.board.WithTx(tx).DeleteByProject(ctx, projectID); err != nil {
			return err
		}
		if err := s.invitations.WithTx(tx).DeleteByProject(ctx, projectID); err != nil {
			return err
		}
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteMembers(ctx, projectID); err != nil {
			return err
		}
		return repo.DeleteProject(ctx, projectID)
	})
}

func (s *service) ListMembers(ctx context.Context, projectID snowflake.ID) ([]domain.MemberResponse, error) {
	if _, err := s.repo.FindByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.memberResponses(ctx, projectID)
}

func (s *service) AddMembers(ctx context.Context, projectID snowflake.ID, memberIDs []string) ([]domain.MemberResponse, error) {
	if _, err := s.repo.FindByID(ctx, projectID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	seen := map[snowflake.ID]struct{}{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, raw := range memberIDs {
			id, err := snowflake.ParseString(strings.TrimSpace(raw))
			if err != nil {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}

			member, err := repo.IsMember(ctx, projectID, id)
			if err != nil {
				return err
			}
			if member {
				continue
			}
			if err := repo.AddMember(ctx, domain.ProjectMember{
				ID:        s.genID.Generate(),
				ProjectID: projectID,
				UserID:    id,
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.memberResponses(ctx, projectID)
}

func (s *service) RequireMember(ctx context.Context, projectID, userID snowflake.ID) error {
	member, err := s.repo.IsMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if !member {
		return domain.ErrNotMember
	}
	return nil
}

func (s *service) RequireVisible(ctx context.Context, projectID, userID snowflake.ID) error {
	project, err := s.repo.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.OwnerID == userID {
		return nil
	}
	return s.RequireMember(ctx, projectID, userID)
}

func (s *service) hydrate(ctx context.Context, project domain.Project) (*domain.Response, error) {
	pairs, err := s.board.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	columns := make([]domain.BoardColumn, 0, len(pairs))
	for _, pair := range pairs {
		tickets, err := s.tickets.ListByColumn(ctx, pair.Column.ID)
		if err != nil {
			return nil, err
		}
		views := make([]ticketdomain.Response, 0, len(tickets))
		for _, t := range tickets {
			status := pair.Status
			views = append(views, t.Response(&status))
		}
		columns = append(columns, domain.BoardColumn{
			ColumnResponse: pair.Column.Response(pair.Status),
			Tickets:        views,
		})
	}

	members, err := s.memberResponses(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	return &domain.Response{
		ID:        project.ID.String(),
		Name:      project.Name,
		Key:       project.Key,
		Type:      project.Type,
		Category:  project.Category,
		Template:  project.Template,
		OwnerID:   project.OwnerID.String(),
		Columns:   columns,
		Members:   members,
		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}, nil
}

func (s *service) memberResponses(ctx context.Context, projectID snowflake.ID) ([]domain.MemberResponse, error) {
	members, err := s.repo.ListMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}

	ids := make([]snowflake.ID, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[snowflake.ID]authdomain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	resp := make([]domain.MemberResponse, 0, len(members))
	for _, m := range members {
		resp = append(resp, domain.MemberResponse{
			ID:     m.ID.String(),
			UserID: m.UserID.String(),
			User:   byID[m.UserID].Summary(),
		})
	}
	return resp, nil
}

// dedupeMemberIDs keeps the creator first and drops duplicates and
// unparseable ids from the requested member list.
func dedupeMemberIDs(creator snowflake.ID, raw []string) []snowflake.ID {
	out := []snowflake.ID{creator}
	seen := map[snowflake.ID]struct{}{creator: {}}
	for _, candidate := range raw {
		id, err := snowflake.ParseString(strings.TrimSpace(candidate))
		if err != nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
