package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	authdomain "github.com/smallbiznis/trackiy/internal/auth/domain"
	"github.com/smallbiznis/trackiy/internal/auth/repository"
	"github.com/smallbiznis/trackiy/internal/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (authdomain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbConn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&authdomain.User{}, &authdomain.Session{}))

	repo, sessionRepo := repository.New(dbConn)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	cfg := config.Config{SessionTTLHours: 1}
	return New(zaptest.NewLogger(t), cfg, repo, sessionRepo, node), dbConn
}

func TestSignupStartsSession(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Signup(context.Background(), authdomain.SignupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)
	require.NotNil(t, result.User)
	require.NotEmpty(t, result.RawToken)

	session, err := svc.Authenticate(context.Background(), result.RawToken)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, session.UserID)
}

func TestSignupProfileFields(t *testing.T) {
	svc, dbConn := newTestService(t)

	result, err := svc.Signup(context.Background(), authdomain.SignupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)
	require.NotNil(t, result.User.Metadata)
	require.Empty(t, result.User.Metadata)

	summary := result.User.Summary()
	require.Nil(t, summary.Image)

	err = dbConn.Model(&authdomain.User{}).
		Where("id = ?", result.User.ID).
		Update("image", "https://cdn.example.com/avatars/alice.png").Error
	require.NoError(t, err)

	user, err := svc.UserByID(context.Background(), result.User.ID)
	require.NoError(t, err)
	summary = user.Summary()
	require.NotNil(t, summary.Image)
	require.Equal(t, "https://cdn.example.com/avatars/alice.png", *summary.Image)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	req := authdomain.SignupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct-password",
	}
	_, err := svc.Signup(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), req)
	require.ErrorIs(t, err, authdomain.ErrUserExists)
}

func TestSignupRejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Signup(context.Background(), authdomain.SignupRequest{
		Name:     "Alice",
		Email:    "not-an-email",
		Password: "correct-password",
	})
	require.ErrorIs(t, err, authdomain.ErrInvalidEmail)

	_, err = svc.Signup(context.Background(), authdomain.SignupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "short",
	})
	require.ErrorIs(t, err, authdomain.ErrWeakPassword)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Signup(context.Background(), authdomain.SignupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	require.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), authdomain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-password",
	})
	require.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Signup(context.Background(), authdomain.SignupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct-password",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), result.RawToken))

	_, err = svc.Authenticate(context.Background(), result.RawToken)
	require.Error(t, err)
}

func TestAuthenticateGarbageToken(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Authenticate(context.Background(), "not-a-real-token")
	require.Error(t, err)
}
