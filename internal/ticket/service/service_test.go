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
	boarddomain "github.com/smallbiznis/trackiy/internal/board/domain"
	boardrepository "github.com/smallbiznis/trackiy/internal/board/repository"
	projectdomain "github.com/smallbiznis/trackiy/internal/project/domain"
	projectrepository "github.com/smallbiznis/trackiy/internal/project/repository"
	ticketdomain "github.com/smallbiznis/trackiy/internal/ticket/domain"
	"github.com/smallbiznis/trackiy/internal/ticket/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type ticketFixture struct {
	svc      ticketdomain.Service
	board    boarddomain.Repository
	projects projectdomain.Repository
	db       *gorm.DB
	genID    *snowflake.Node
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbConn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&authdomain.User{},
		&projectdomain.Project{},
		&projectdomain.ProjectMember{},
		&boarddomain.Status{},
		&boarddomain.Column{},
		&ticketdomain.Ticket{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	board := boardrepository.NewRepository(dbConn)
	projects := projectrepository.NewRepository(dbConn)
	svc := NewService(dbConn, repository.NewRepository(dbConn), board, projects, node, nil, zaptest.NewLogger(t))

	return &ticketFixture{svc: svc, board: board, projects: projects, db: dbConn, genID: node}
}

// seedProject creates a project owned by ownerID with the canonical
// column layout and returns the project id.
func (f *ticketFixture) seedProject(t *testing.T, ownerID snowflake.ID, key string) snowflake.ID {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	project := projectdomain.Project{
		ID:        f.genID.Generate(),
		Name:      key,
		Key:       key,
		Type:      projectdomain.TypeTeamManaged,
		Category:  projectdomain.CategorySoftware,
		Template:  projectdomain.TemplateKanban,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.projects.CreateProject(ctx, project))
	require.NoError(t, f.projects.AddMember(ctx, projectdomain.ProjectMember{
		ID:        f.genID.Generate(),
		ProjectID: project.ID,
		UserID:    ownerID,
		CreatedAt: now,
	}))

	for order, name := range boarddomain.CanonicalStatusNames {
		status := boarddomain.Status{ID: f.genID.Generate(), Name: name, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, f.board.CreateStatus(ctx, status))
		require.NoError(t, f.board.CreateColumn(ctx, boarddomain.Column{
			ID:        f.genID.Generate(),
			Name:      name,
			Order:     order,
			StatusID:  status.ID,
			ProjectID: project.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}))
	}

	return project.ID
}

func TestCreateTicketDefaults(t *testing.T) {
	f := newTicketFixture(t)
	owner := f.genID.Generate()
	projectID := f.seedProject(t, owner, "PAY")

	resp, err := f.svc.Create(context.Background(), owner, projectID, ticketdomain.CreateTicketRequest{
		Title: "Fix rounding",
	})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(resp.TicketNumber, "PAY-"), "ticket number %q", resp.TicketNumber)
	require.Equal(t, ticketdomain.PriorityMedium, resp.Priority)
	require.Equal(t, ticketdomain.UnassignedSentinel, resp.Assignee)
	require.Equal(t, owner.String(), resp.Reporter)
	require.NotNil(t, resp.Labels)
	require.Empty(t, resp.Labels)

	// New tickets land in the intake column.
	intake, err := f.board.IntakeColumn(context.Background(), projectID)
	require.NoError(t, err)
	require.Equal(t, intake.ID.String(), resp.ColumnID)
	require.Equal(t, intake.StatusID.String(), resp.StatusID)
}

func TestCreateTicketValidation(t *testing.T) {
	f := newTicketFixture(t)
	owner := f.genID.Generate()
	projectID := f.seedProject(t, owner, "PAY")

	_, err := f.svc.Create(context.Background(), owner, projectID, ticketdomain.CreateTicketRequest{Title: "  "})
	require.ErrorIs(t, err, ticketdomain.ErrInvalidTitle)

	_, err = f.svc.Create(context.Background(), owner, projectID, ticketdomain.CreateTicketRequest{
		Title:    "Fix rounding",
		Priority: "URGENT",
	})
	require.ErrorIs(t, err, ticketdomain.ErrInvalidPriority)
}

func TestUpdateTicketMovesColumnWithStatus(t *testing.T) {
	f := newTicketFixture(t)
	owner := f.genID.Generate()
	projectID := f.seedProject(t, owner, "PAY")

	created, err := f.svc.Create(context.Background(), owner, projectID, ticketdomain.CreateTicketRequest{Title: "Fix rounding"})
	require.NoError(t, err)
	ticketID, err := snowflake.ParseString(created.ID)
	require.NoError(t, err)

	pairs, err := f.board.ListByProject(context.Background(), projectID)
	require.NoError(t, err)
	target := pairs[2]

	statusID := target.Status.ID.String()
	updated, err := f.svc.Update(context.Background(), projectID, ticketID, ticketdomain.UpdateTicketRequest{
		StatusID: &statusID,
	})
	require.NoError(t, err)
	require.Equal(t, target.Column.ID.String(), updated.ColumnID)
	require.Equal(t, statusID, updated.StatusID)
}

func TestUpdateTicketUnknownStatusLeavesTicketAlone(t *testing.T) {
	f := newTicketFixture(t)
	owner := f.genID.Generate()
	projectID := f.seedProject(t, owner, "PAY")

	created, err := f.svc.Create(context.Background(), owner, projectID, ticketdomain.CreateTicketRequest{Title: "Fix rounding"})
	require.NoError(t, err)
	ticketID, err := snowflake.ParseString(created.ID)
	require.NoError(t, err)

	bogus := f.genID.Generate().String()
	title := "should not stick"
	_, err = f.svc.Update(context.Background(), projectID, ticketID, ticketdomain.UpdateTicketRequest{
		Title:    &title,
		StatusID: &bogus,
	})
	require.ErrorIs(t, err, boarddomain.ErrStatusNotFound)

	after, err := f.svc.Get(context.Background(), projectID, ticketID)
	require.NoError(t, err)
	require.Equal(t, "Fix rounding", after.Title)
	require.Equal(t, created.ColumnID, after.ColumnID)
}

func TestUpdateTicketPartialFields(t *testing.T) {
	f := newTicketFixture(t)
	owner := f.genID.Generate()
	projectID := f.seedProject(t, owner, "PAY")

	created, err := f.svc.Create(context.Background(), owner, projectID, ticketdomain.CreateTicketRequest{Title: "Fix rounding"})
	require.NoError(t, err)
	ticketID, err := snowflake.ParseString(created.ID)
	require.NoError(t, err)

	assignee := "bob"
	labels := []string{"bug", "payments", "bug"}
	updated, err := f.svc.Update(context.Background(), projectID, ticketID, ticketdomain.UpdateTicketRequest{
		Assignee: &assignee,
		Labels:   &labels,
	})
	require.NoError(t, err)
	require.Equal(t, "bob", updated.Assignee)
	// Labels keep insertion order and duplicates; the server does not dedup.
	require.Equal(t, []string{"bug", "payments", "bug"}, updated.Labels)
	require.Equal(t, "Fix rounding", updated.Title)

	cleared := ""
	updated, err = f.svc.Update(context.Background(), projectID, ticketID, ticketdomain.UpdateTicketRequest{
		Assignee: &cleared,
	})
	require.NoError(t, err)
	require.Equal(t, ticketdomain.UnassignedSentinel, updated.Assignee)
}

func TestDeleteTicketScopedToProject(t *testing.T) {
	f := newTicketFixture(t)
	owner := f.genID.Generate()
	projectA := f.seedProject(t, owner, "AAA")
	projectB := f.seedProject(t, owner, "BBB")

	created, err := f.svc.Create(context.Background(), owner, projectA, ticketdomain.CreateTicketRequest{Title: "Stays put"})
	require.NoError(t, err)
	ticketID, err := snowflake.ParseString(created.ID)
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), projectB, ticketID)
	require.ErrorIs(t, err, ticketdomain.ErrTicketNotFound)

	require.NoError(t, f.svc.Delete(context.Background(), projectA, ticketID))

	_, err = f.svc.Get(context.Background(), projectA, ticketID)
	require.ErrorIs(t, err, ticketdomain.ErrTicketNotFound)
}

func TestSearchScopedToVisibleProjects(t *testing.T) {
	f := newTicketFixture(t)
	alice := f.genID.Generate()
	bob := f.genID.Generate()
	aliceProject := f.seedProject(t, alice, "AAA")
	bobProject := f.seedProject(t, bob, "BBB")

	_, err := f.svc.Create(context.Background(), alice, aliceProject, ticketdomain.CreateTicketRequest{
		Title: "Shared keyword rocket",
	})
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), bob, bobProject, ticketdomain.CreateTicketRequest{
		Title: "Another rocket entirely",
	})
	require.NoError(t, err)

	results, err := f.svc.Search(context.Background(), alice, "ROCKET")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "Shared keyword rocket", results[0].Title)
}

func TestSearchCapsResults(t *testing.T) {
	f := newTicketFixture(t)
	owner := f.genID.Generate()
	projectID := f.seedProject(t, owner, "PAY")

	for i := 0; i < 15; i++ {
		_, err := f.svc.Create(context.Background(), owner, projectID, ticketdomain.CreateTicketRequest{
			Title: fmt.Sprintf("rocket booster %d", i),
		})
		require.NoError(t, err)
	}

	results, err := f.svc.Search(context.Background(), owner, "rocket")
	require.NoError(t, err)
	require.Len(t, results, 10)
}
