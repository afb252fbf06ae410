package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	authdomain "github.com/smallbiznis/trackiy/internal/auth/domain"
	authrepository "github.com/smallbiznis/trackiy/internal/auth/repository"
	"github.com/smallbiznis/trackiy/internal/config"
	invitationdomain "github.com/smallbiznis/trackiy/internal/invitation/domain"
	"github.com/smallbiznis/trackiy/internal/invitation/repository"
	projectdomain "github.com/smallbiznis/trackiy/internal/project/domain"
	projectrepository "github.com/smallbiznis/trackiy/internal/project/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type captureMailer struct {
	to       []string
	template string
	data     map[string]interface{}
	fail     bool
}

func (m *captureMailer) Send(ctx context.Context, to []string, subject, body string) error {
	return nil
}

func (m *captureMailer) SendTemplate(ctx context.Context, to []string, templateName string, data map[string]interface{}) error {
	m.to = to
	m.template = templateName
	m.data = data
	if m.fail {
		return fmt.Errorf("smtp unreachable")
	}
	return nil
}

type invitationFixture struct {
	svc      invitationdomain.Service
	projects projectdomain.Repository
	users    authdomain.Repository
	mailer   *captureMailer
	db       *gorm.DB
	genID    *snowflake.Node
}

func newInvitationFixture(t *testing.T) *invitationFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbConn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&authdomain.User{},
		&projectdomain.Project{},
		&projectdomain.ProjectMember{},
		&invitationdomain.Invitation{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	users, _ := authrepository.New(dbConn)
	projects := projectrepository.NewRepository(dbConn)
	mailer := &captureMailer{}
	svc := NewService(
		dbConn,
		repository.NewRepository(dbConn),
		projects,
		users,
		mailer,
		node,
		config.Config{BaseURL: "https://trackiy.test"},
		nil,
		zaptest.NewLogger(t),
	)

	return &invitationFixture{svc: svc, projects: projects, users: users, mailer: mailer, db: dbConn, genID: node}
}

func (f *invitationFixture) seedProject(t *testing.T, ownerID snowflake.ID) snowflake.ID {
	t.Helper()
	now := time.Now().UTC()
	project := projectdomain.Project{
		ID:        f.genID.Generate(),
		Name:      "Payments",
		Key:       "PAY",
		Type:      projectdomain.TypeTeamManaged,
		Category:  projectdomain.CategorySoftware,
		Template:  projectdomain.TemplateKanban,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.projects.CreateProject(context.Background(), project))
	require.NoError(t, f.projects.AddMember(context.Background(), projectdomain.ProjectMember{
		ID:        f.genID.Generate(),
		ProjectID: project.ID,
		UserID:    ownerID,
		CreatedAt: now,
	}))
	return project.ID
}

func (f *invitationFixture) createUser(t *testing.T, name, email string) snowflake.ID {
	t.Helper()
	user := &authdomain.User{ID: f.genID.Generate(), Name: name, Email: email}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user.ID
}

func (f *invitationFixture) tokenFor(t *testing.T, invitationID string) string {
	t.Helper()
	var token string
	require.NoError(t, f.db.Raw(`SELECT token FROM invitations WHERE id = ?`, invitationID).Scan(&token).Error)
	return token
}

func TestSendInvitationMemberOnly(t *testing.T) {
	f := newInvitationFixture(t)
	owner := f.createUser(t, "Alice", "alice@example.com")
	outsider := f.createUser(t, "Carol", "carol@example.com")
	projectID := f.seedProject(t, owner)

	_, err := f.svc.Send(context.Background(), outsider, projectID, "bob@example.com")
	require.ErrorIs(t, err, projectdomain.ErrNotMember)
}

func TestSendInvitationEmailsDeepLink(t *testing.T) {
	f := newInvitationFixture(t)
	owner := f.createUser(t, "Alice", "alice@example.com")
	projectID := f.seedProject(t, owner)

	resp, err := f.svc.Send(context.Background(), owner, projectID, "Bob <bob@example.com>")
	require.NoError(t, err)
	require.Equal(t, "bob@example.com", resp.Email)
	require.Equal(t, invitationdomain.StatusPending, resp.Status)

	token := f.tokenFor(t, resp.ID)
	require.Len(t, token, 64)

	require.Equal(t, []string{"bob@example.com"}, f.mailer.to)
	require.Equal(t, "invite_member", f.mailer.template)
	require.Equal(t, "Payments", f.mailer.data["project_name"])
	require.Equal(t, "Alice", f.mailer.data["inviter_name"])
	link, _ := f.mailer.data["invite_link"].(string)
	require.Equal(t, "https://trackiy.test/projects?invite="+token, link)
}

func TestSendInvitationSurvivesMailFailure(t *testing.T) {
	f := newInvitationFixture(t)
	owner := f.createUser(t, "Alice", "alice@example.com")
	projectID := f.seedProject(t, owner)
	f.mailer.fail = true

	resp, err := f.svc.Send(context.Background(), owner, projectID, "bob@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, f.tokenFor(t, resp.ID))
}

func TestSendInvitationInvalidEmail(t *testing.T) {
	f := newInvitationFixture(t)
	owner := f.createUser(t, "Alice", "alice@example.com")
	projectID := f.seedProject(t, owner)

	_, err := f.svc.Send(context.Background(), owner, projectID, "not an address")
	require.ErrorIs(t, err, invitationdomain.ErrInvalidEmail)
}

func TestAcceptInvitationAddsMemberIdempotently(t *testing.T) {
	f := newInvitationFixture(t)
	owner := f.createUser(t, "Alice", "alice@example.com")
	bob := f.createUser(t, "Bob", "bob@example.com")
	projectID := f.seedProject(t, owner)

	sent, err := f.svc.Send(context.Background(), owner, projectID, "bob@example.com")
	require.NoError(t, err)
	token := f.tokenFor(t, sent.ID)

	accepted, err := f.svc.Accept(context.Background(), bob, token)
	require.NoError(t, err)
	require.Equal(t, invitationdomain.StatusAccepted, accepted.Status)

	member, err := f.projects.IsMember(context.Background(), projectID, bob)
	require.NoError(t, err)
	require.True(t, member)

	// Redeeming again is a no-op success and does not duplicate the
	// membership row.
	again, err := f.svc.Accept(context.Background(), bob, token)
	require.NoError(t, err)
	require.Equal(t, invitationdomain.StatusAccepted, again.Status)

	var count int64
	require.NoError(t, f.db.Table("project_members").
		Where("project_id = ? AND user_id = ?", projectID, bob).
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAcceptUnknownToken(t *testing.T) {
	f := newInvitationFixture(t)
	bob := f.createUser(t, "Bob", "bob@example.com")

	_, err := f.svc.Accept(context.Background(), bob, strings.Repeat("f", 64))
	require.ErrorIs(t, err, invitationdomain.ErrInvitationNotFound)
}
