package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	authdomain "github.com/smallbiznis/trackiy/internal/auth/domain"
	authrepository "github.com/smallbiznis/trackiy/internal/auth/repository"
	commentdomain "github.com/smallbiznis/trackiy/internal/comment/domain"
	"github.com/smallbiznis/trackiy/internal/comment/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type commentFixture struct {
	svc   commentdomain.Service
	users authdomain.Repository
	genID *snowflake.Node
}

func newCommentFixture(t *testing.T) *commentFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbConn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&authdomain.User{}, &commentdomain.Comment{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	users, _ := authrepository.New(dbConn)
	svc := NewService(repository.NewRepository(dbConn), users, node, zaptest.NewLogger(t))

	return &commentFixture{svc: svc, users: users, genID: node}
}

func (f *commentFixture) createUser(t *testing.T, name, email string) snowflake.ID {
	t.Helper()
	user := &authdomain.User{ID: f.genID.Generate(), Name: name, Email: email}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user.ID
}

func TestCreateCommentRejectsBlankContent(t *testing.T) {
	f := newCommentFixture(t)
	author := f.createUser(t, "Alice", "alice@example.com")

	_, err := f.svc.Create(context.Background(), author, f.genID.Generate(), f.genID.Generate(), "   ")
	require.ErrorIs(t, err, commentdomain.ErrInvalidContent)
}

func TestListCommentsOldestFirst(t *testing.T) {
	f := newCommentFixture(t)
	author := f.createUser(t, "Alice", "alice@example.com")
	projectID := f.genID.Generate()
	ticketID := f.genID.Generate()

	for _, content := range []string{"first", "second", "third"} {
		_, err := f.svc.Create(context.Background(), author, projectID, ticketID, content)
		require.NoError(t, err)
	}

	comments, err := f.svc.List(context.Background(), projectID, ticketID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	require.Equal(t, "first", comments[0].Content)
	require.Equal(t, "third", comments[2].Content)
	require.Equal(t, "Alice", comments[0].User.Name)
}

func TestDeleteCommentAuthorOnly(t *testing.T) {
	f := newCommentFixture(t)
	author := f.createUser(t, "Alice", "alice@example.com")
	stranger := f.createUser(t, "Bob", "bob@example.com")
	projectID := f.genID.Generate()
	ticketID := f.genID.Generate()

	created, err := f.svc.Create(context.Background(), author, projectID, ticketID, "mine")
	require.NoError(t, err)
	commentID, err := snowflake.ParseString(created.ID)
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), stranger, projectID, ticketID, commentID)
	require.ErrorIs(t, err, commentdomain.ErrNotAuthor)

	require.NoError(t, f.svc.Delete(context.Background(), author, projectID, ticketID, commentID))

	err = f.svc.Delete(context.Background(), author, projectID, ticketID, commentID)
	require.ErrorIs(t, err, commentdomain.ErrCommentNotFound)
}

func TestDeleteCommentScopedToTicket(t *testing.T) {
	f := newCommentFixture(t)
	author := f.createUser(t, "Alice", "alice@example.com")
	projectID := f.genID.Generate()
	ticketID := f.genID.Generate()
	otherTicket := f.genID.Generate()

	created, err := f.svc.Create(context.Background(), author, projectID, ticketID, "mine")
	require.NoError(t, err)
	commentID, err := snowflake.ParseString(created.ID)
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), author, projectID, otherTicket, commentID)
	require.ErrorIs(t, err, commentdomain.ErrCommentNotFound)
}
