package presence

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/trackiy/internal/auth/domain"
	"github.com/smallbiznis/trackiy/internal/observability/metrics"
	"go.uber.org/zap"
)

// View is one active indicator with its user hydrated.
type View struct {
	TicketID     string             `json:"ticketId"`
	FieldID      string             `json:"fieldId"`
	UserID       string             `json:"userId"`
	User         authdomain.Summary `json:"user"`
	LastActivity time.Time          `json:"lastActivity"`
}

// Service exposes typing presence on top of the TTL store.
type Service struct {
	store   Store
	users   authdomain.Repository
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewService(store Store, users authdomain.Repository, m *metrics.Metrics, log *zap.Logger) *Service {
	return &Service{
		store:   store,
		users:   users,
		metrics: m,
		log:     log.Named("presence.service"),
	}
}

func (s *Service) Start(ctx context.Context, userID, ticketID snowflake.ID, fieldID string) error {
	fieldID = strings.TrimSpace(fieldID)
	if fieldID == "" {
		return ErrInvalidField
	}

	s.metrics.RecordPresenceHeartbeat(ctx)
	return s.store.Touch(ctx, Indicator{
		TicketID:     ticketID,
		FieldID:      fieldID,
		UserID:       userID,
		LastActivity: time.Now().UTC(),
	})
}

func (s *Service) Stop(ctx context.Context, userID, ticketID snowflake.ID, fieldID string) error {
	fieldID = strings.TrimSpace(fieldID)
	if fieldID == "" {
		return ErrInvalidField
	}
	return s.store.Remove(ctx, ticketID, fieldID, userID)
}

// List returns indicators active within the staleness window for the
// field, excluding the requester's own.
func (s *Service) List(ctx context.Context, requesterID, ticketID snowflake.ID, fieldID string) ([]View, error) {
	fieldID = strings.TrimSpace(fieldID)
	if fieldID == "" {
		return nil, ErrInvalidField
	}

	indicators, err := s.store.Active(ctx, ticketID, fieldID, Staleness)
	if err != nil {
		return nil, err
	}

	ids := make([]snowflake.ID, 0, len(indicators))
	for _, ind := range indicators {
		if ind.UserID == requesterID {
			continue
		}
		ids = append(ids, ind.UserID)
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[snowflake.ID]authdomain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	views := make([]View, 0, len(ids))
	for _, ind := range indicators {
		if ind.UserID == requesterID {
			continue
		}
		views = append(views, View{
			TicketID:     ind.TicketID.String(),
			FieldID:      ind.FieldID,
			UserID:       ind.UserID.String(),
			User:         byID[ind.UserID].Summary(),
			LastActivity: ind.LastActivity,
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].UserID < views[j].UserID })
	return views, nil
}
