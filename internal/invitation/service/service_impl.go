package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/trackiy/internal/auth/domain"
	"github.com/smallbiznis/trackiy/internal/config"
	"github.com/smallbiznis/trackiy/internal/invitation/domain"
	"github.com/smallbiznis/trackiy/internal/observability/metrics"
	projectdomain "github.com/smallbiznis/trackiy/internal/project/domain"
	"github.com/smallbiznis/trackiy/internal/providers/email"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tokenBytes = 32

type service struct {
	db       *gorm.DB
	repo     domain.Repository
	projects projectdomain.Repository
	users    authdomain.Repository
	mailer   email.Provider
	genID    *snowflake.Node
	baseURL  string
	metrics  *metrics.Metrics
	log      *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo domain.Repository,
	projects projectdomain.Repository,
	users authdomain.Repository,
	mailer email.Provider,
	genID *snowflake.Node,
	cfg config.Config,
	m *metrics.Metrics,
	log *zap.Logger,
) domain.Service {
	return &service{
		db:       db,
		repo:     repo,
		projects: projects,
		users:    users,
		mailer:   mailer,
		genID:    genID,
		baseURL:  cfg.BaseURL,
		metrics:  m,
		log:      log.Named("invitation.service"),
	}
}

func (s *service) Send(ctx context.Context, userID, projectID snowflake.ID, rawEmail string) (*domain.Response, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(rawEmail))
	if err != nil {
		return nil, domain.ErrInvalidEmail
	}
	to := strings.ToLower(strings.TrimSpace(addr.Address))

	member, err := s.projects.IsMember(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, projectdomain.ErrNotMember
	}

	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	invitation := domain.Invitation{
		ID:        s.genID.Generate(),
		Email:     to,
		ProjectID: projectID,
		Token:     token,
		Status:    domain.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, invitation); err != nil {
		return nil, err
	}

	inviterName := ""
	if inviter, err := s.users.FindByID(ctx, userID); err == nil {
		inviterName = inviter.Name
	}

	link := fmt.Sprintf("%s/projects?invite=%s", s.baseURL, token)
	if err := s.mailer.SendTemplate(ctx, []string{to}, "invite_member", map[string]interface{}{
		"project_name": project.Name,
		"inviter_name": inviterName,
		"invite_link":  link,
	}); err != nil {
		// The invitation row exists either way; the link can still be
		// shared out of band.
		s.log.Warn("invitation email failed",
			zap.String("project_id", projectID.String()),
			zap.Error(err),
		)
	}

	s.metrics.RecordInvitationSent(ctx)

	resp := invitation.Response()
	return &resp, nil
}

func (s *service) Accept(ctx context.Context, userID snowflake.ID, token string) (*domain.Response, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrInvitationNotFound
	}

	invitation, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	// A consumed token redeems idempotently: the UI re-posts the token
	// on every page load while the invite query parameter is present.
	if invitation.Status == domain.StatusAccepted {
		resp := invitation.Response()
		return &resp, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projects := s.projects.WithTx(tx)
		member, err := projects.IsMember(ctx, invitation.ProjectID, userID)
		if err != nil {
			return err
		}
		if !member {
			if err := projects.AddMember(ctx, projectdomain.ProjectMember{
				ID:        s.genID.Generate(),
				ProjectID: invitation.ProjectID,
				UserID:    userID,
				CreatedAt: time.Now().UTC(),
			}); err != nil {
				return err
			}
		}
		return s.repo.WithTx(tx).MarkAccepted(ctx, invitation.ID)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordInvitationAccepted(ctx)

	invitation.Status = domain.StatusAccepted
	resp := invitation.Response()
	return &resp, nil
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
