package service

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	boarddomain "github.com/smallbiznis/trackiy/internal/board/domain"
	"github.com/smallbiznis/trackiy/internal/observability/metrics"
	projectdomain "github.com/smallbiznis/trackiy/internal/project/domain"
	"github.com/smallbiznis/trackiy/internal/ticket/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const searchLimit = 10

type service struct {
	db       *gorm.DB
	repo     domain.Repository
	board    boarddomain.Repository
	projects projectdomain.Repository
	genID    *snowflake.Node
	metrics  *metrics.Metrics
	log      *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo domain.Repository,
	board boarddomain.Repository,
	projects projectdomain.Repository,
	genID *snowflake.Node,
	m *metrics.Metrics,
	log *zap.Logger,
) domain.Service {
	return &service{
		db:       db,
		repo:     repo,
		board:    board,
		projects: projects,
		genID:    genID,
		metrics:  m,
		log:      log.Named("ticket.service"),
	}
}

func (s *service) Create(ctx context.Context, userID, projectID snowflake.ID, req domain.CreateTicketRequest) (*domain.Response, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}

	priority := strings.ToUpper(strings.TrimSpace(req.Priority))
	if priority == "" {
		priority = domain.PriorityMedium
	}
	switch priority {
	case domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh:
	default:
		return nil, domain.ErrInvalidPriority
	}

	assignee := strings.TrimSpace(req.Assignee)
	if assignee == "" {
		assignee = domain.UnassignedSentinel
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	// New tickets always land in the intake column.
	intake, err := s.board.IntakeColumn(ctx, projectID)
	if err != nil {
		return nil, err
	}

	labels := req.Labels
	if labels == nil {
		labels = []string{}
	}

	now := time.Now().UTC()
	ticket := domain.Ticket{
		ID:           s.genID.Generate(),
		TicketNumber: ticketNumber(project.Key),
		Title:        title,
		Description:  strings.TrimSpace(req.Description),
		Priority:     priority,
		Assignee:     assignee,
		Reporter:     userID.String(),
		Labels:       datatypes.NewJSONSlice(labels),
		ColumnID:     intake.ID,
		StatusID:     intake.StatusID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.metrics.RecordTicketCreated(ctx, project.Key)

	return s.respond(ctx, projectID, ticket)
}

func (s *service) ListByProject(ctx context.Context, projectID snowflake.ID) ([]domain.Response, error) {
	tickets, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.respondMany(ctx, projectID, tickets)
}

func (s *service) Get(ctx context.Context, projectID, ticketID snowflake.ID) (*domain.Response, error) {
	ticket, err := s.repo.FindInProject(ctx, projectID, ticketID)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, projectID, *ticket)
}

func (s *service) Update(ctx context.Context, projectID, ticketID snowflake.ID, req domain.UpdateTicketRequest) (*domain.Response, error) {
	if _, err := s.repo.FindInProject(ctx, projectID, ticketID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		fields["title"] = title
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Priority != nil {
		priority := strings.ToUpper(strings.TrimSpace(*req.Priority))
		switch priority {
		case domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh:
		default:
			return nil, domain.ErrInvalidPriority
		}
		fields["priority"] = priority
	}
	if req.Assignee != nil {
		assignee := strings.TrimSpace(*req.Assignee)
		if assignee == "" {
			assignee = domain.UnassignedSentinel
		}
		fields["assignee"] = assignee
	}
	if req.Labels != nil {
		fields["labels"] = datatypes.NewJSONSlice(*req.Labels)
	}

	moved := false
	if req.StatusID != nil {
		statusID, err := snowflake.ParseString(strings.TrimSpace(*req.StatusID))
		if err != nil {
			return nil, boarddomain.ErrStatusNotFound
		}

		// The column whose status matches the target keeps the
		// column/status pair in agreement. No matching column means no
		// mutation at all.
		column, err := s.board.FindColumnByStatus(ctx, projectID, statusID)
		if err != nil {
			return nil, err
		}
		fields["column_id"] = column.ID
		fields["status_id"] = column.StatusID
		moved = true
	}

	if len(fields) > 0 {
		fields["updated_at"] = time.Now().UTC()
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.repo.WithTx(tx).UpdateFields(ctx, ticketID, fields)
		})
		if err != nil {
			return nil, err
		}
	}

	if moved {
		if project, err := s.projects.FindByID(ctx, projectID); err == nil {
			s.metrics.RecordTicketMove(ctx, project.Key)
		}
	}

	updated, err := s.repo.FindInProject(ctx, projectID, ticketID)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, projectID, *updated)
}

func (s *service) Delete(ctx context.Context, projectID, ticketID snowflake.ID) error {
	// FindInProject blocks cross-project deletes via guessed ids.
	if _, err := s.repo.FindInProject(ctx, projectID, ticketID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, ticketID)
}

func (s *service) Search(ctx context.Context, userID snowflake.ID, query string) ([]domain.Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Response{}, nil
	}

	visible, err := s.projects.ListVisibleIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	tickets, err := s.repo.Search(ctx, visible, query, searchLimit)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(tickets))
	for _, t := range tickets {
		resp = append(resp, t.Response(nil))
	}
	return resp, nil
}

func (s *service) respond(ctx context.Context, projectID snowflake.ID, ticket domain.Ticket) (*domain.Response, error) {
	pair, err := s.board.FindColumnByID(ctx, projectID, ticket.ColumnID)
	if err != nil {
		return nil, err
	}
	resp := ticket.Response(&pair.Status)
	return &resp, nil
}

func (s *service) respondMany(ctx context.Context, projectID snowflake.ID, tickets []domain.Ticket) ([]domain.Response, error) {
	pairs, err := s.board.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	statusByColumn := make(map[snowflake.ID]boarddomain.Status, len(pairs))
	for _, pair := range pairs {
		statusByColumn[pair.Column.ID] = pair.Status
	}

	resp := make([]domain.Response, 0, len(tickets))
	for _, t := range tickets {
		status, ok := statusByColumn[t.ColumnID]
		if ok {
			resp = append(resp, t.Response(&status))
		} else {
			resp = append(resp, t.Response(nil))
		}
	}
	return resp, nil
}

// ticketNumber builds `KEY-1000..9999`. Collisions are possible but
// practically rare; the id remains the authoritative key.
func ticketNumber(projectKey string) string {
	return projectKey + "-" + strconv.Itoa(1000+rand.Intn(9000))
}
