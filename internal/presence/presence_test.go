package presence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	authdomain "github.com/smallbiznis/trackiy/internal/auth/domain"
	authrepository "github.com/smallbiznis/trackiy/internal/auth/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func TestMemoryStoreWindow(t *testing.T) {
	store := NewMemoryStore()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	ticketID := node.Generate()
	fresh := node.Generate()
	stale := node.Generate()
	now := time.Now().UTC()

	require.NoError(t, store.Touch(context.Background(), Indicator{
		TicketID: ticketID, FieldID: "description", UserID: fresh, LastActivity: now,
	}))
	require.NoError(t, store.Touch(context.Background(), Indicator{
		TicketID: ticketID, FieldID: "description", UserID: stale, LastActivity: now.Add(-6 * time.Second),
	}))
	require.NoError(t, store.Touch(context.Background(), Indicator{
		TicketID: ticketID, FieldID: "title", UserID: fresh, LastActivity: now,
	}))

	active, err := store.Active(context.Background(), ticketID, "description", Staleness)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, fresh, active[0].UserID)
}

func TestMemoryStoreRemove(t *testing.T) {
	store := NewMemoryStore()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	ticketID := node.Generate()
	userID := node.Generate()

	require.NoError(t, store.Touch(context.Background(), Indicator{
		TicketID: ticketID, FieldID: "description", UserID: userID, LastActivity: time.Now().UTC(),
	}))
	require.NoError(t, store.Remove(context.Background(), ticketID, "description", userID))

	active, err := store.Active(context.Background(), ticketID, "description", Staleness)
	require.NoError(t, err)
	require.Empty(t, active)
}

func newPresenceService(t *testing.T) (*Service, authdomain.Repository, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbConn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&authdomain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	users, _ := authrepository.New(dbConn)
	return NewService(NewMemoryStore(), users, nil, zaptest.NewLogger(t)), users, node
}

func TestListExcludesRequester(t *testing.T) {
	svc, users, node := newPresenceService(t)

	alice := &authdomain.User{ID: node.Generate(), Name: "Alice", Email: "alice@example.com"}
	bob := &authdomain.User{ID: node.Generate(), Name: "Bob", Email: "bob@example.com"}
	require.NoError(t, users.Create(context.Background(), alice))
	require.NoError(t, users.Create(context.Background(), bob))

	ticketID := node.Generate()
	require.NoError(t, svc.Start(context.Background(), alice.ID, ticketID, "description"))
	require.NoError(t, svc.Start(context.Background(), bob.ID, ticketID, "description"))

	views, err := svc.List(context.Background(), alice.ID, ticketID, "description")
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, bob.ID.String(), views[0].UserID)
	require.Equal(t, "Bob", views[0].User.Name)
}

func TestStartRequiresField(t *testing.T) {
	svc, _, node := newPresenceService(t)

	err := svc.Start(context.Background(), node.Generate(), node.Generate(), "   ")
	require.ErrorIs(t, err, ErrInvalidField)
}

func TestStopClearsIndicator(t *testing.T) {
	svc, users, node := newPresenceService(t)

	alice := &authdomain.User{ID: node.Generate(), Name: "Alice", Email: "alice@example.com"}
	bob := &authdomain.User{ID: node.Generate(), Name: "Bob", Email: "bob@example.com"}
	require.NoError(t, users.Create(context.Background(), alice))
	require.NoError(t, users.Create(context.Background(), bob))

	ticketID := node.Generate()
	require.NoError(t, svc.Start(context.Background(), bob.ID, ticketID, "description"))
	require.NoError(t, svc.Stop(context.Background(), bob.ID, ticketID, "description"))

	views, err := svc.List(context.Background(), alice.ID, ticketID, "description")
	require.NoError(t, err)
	require.Empty(t, views)
}
