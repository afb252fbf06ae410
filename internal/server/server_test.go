package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	authdomain "github.com/smallbiznis/trackiy/internal/auth/domain"
	"github.com/smallbiznis/trackiy/internal/auth/repository"
	authservice "github.com/smallbiznis/trackiy/internal/auth/service"
	"github.com/smallbiznis/trackiy/internal/auth/session"
	boarddomain "github.com/smallbiznis/trackiy/internal/board/domain"
	boardrepository "github.com/smallbiznis/trackiy/internal/board/repository"
	boardservice "github.com/smallbiznis/trackiy/internal/board/service"
	commentdomain "github.com/smallbiznis/trackiy/internal/comment/domain"
	commentrepository "github.com/smallbiznis/trackiy/internal/comment/repository"
	commentservice "github.com/smallbiznis/trackiy/internal/comment/service"
	"github.com/smallbiznis/trackiy/internal/config"
	invitationdomain "github.com/smallbiznis/trackiy/internal/invitation/domain"
	invitationrepository "github.com/smallbiznis/trackiy/internal/invitation/repository"
	invitationservice "github.com/smallbiznis/trackiy/internal/invitation/service"
	"github.com/smallbiznis/trackiy/internal/presence"
	projectdomain "github.com/smallbiznis/trackiy/internal/project/domain"
	projectrepository "github.com/smallbiznis/trackiy/internal/project/repository"
	projectservice "github.com/smallbiznis/trackiy/internal/project/service"
	"github.com/smallbiznis/trackiy/internal/providers/email"
	ticketdomain "github.com/smallbiznis/trackiy/internal/ticket/domain"
	ticketrepository "github.com/smallbiznis/trackiy/internal/ticket/repository"
	ticketservice "github.com/smallbiznis/trackiy/internal/ticket/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbConn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(
		&authdomain.User{},
		&authdomain.Session{},
		&projectdomain.Project{},
		&projectdomain.ProjectMember{},
		&boarddomain.Status{},
		&boarddomain.Column{},
		&ticketdomain.Ticket{},
		&commentdomain.Comment{},
		&invitationdomain.Invitation{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	cfg := config.Config{SessionTTLHours: 1, BaseURL: "https://trackiy.test"}
	log := zaptest.NewLogger(t)

	users, sessions := repository.New(dbConn)
	boardRepo := boardrepository.NewRepository(dbConn)
	ticketRepo := ticketrepository.NewRepository(dbConn)
	projectRepo := projectrepository.NewRepository(dbConn)
	commentRepo := commentrepository.NewRepository(dbConn)
	invitationRepo := invitationrepository.NewRepository(dbConn)

	r := gin.New()
	r.Use(ErrorHandlingMiddleware())

	return NewServer(ServerParams{
		Gin:        r,
		Cfg:        cfg,
		Authsvc:    authservice.New(log, cfg, users, sessions, node),
		Sessions:   session.NewManager(cfg),
		ProjectSvc: projectservice.NewService(dbConn, projectRepo, boardRepo, ticketRepo, commentRepo, invitationRepo, users, node, log),
		BoardSvc:   boardservice.NewService(dbConn, boardRepo, node, log),
		TicketSvc:  ticketservice.NewService(dbConn, ticketRepo, boardRepo, projectRepo, node, nil, log),
		CommentSvc: commentservice.NewService(commentRepo, users, node, log),
		InvitationSvc: invitationservice.NewService(
			dbConn, invitationRepo, projectRepo, users, &email.NoOpProvider{}, node, cfg, nil, log,
		),
		PresenceSvc: presence.NewService(presence.NewMemoryStore(), users, nil, log),
	})
}

func doJSON(t *testing.T, s *Server, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func signup(t *testing.T, s *Server, name, email string) []*http.Cookie {
	t.Helper()

	w := doJSON(t, s, http.MethodPost, "/auth/signup", gin.H{
		"name":     name,
		"email":    email,
		"password": "correct-password",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func TestSignupSetsSessionCookie(t *testing.T) {
	s := newTestServer(t)

	cookies := signup(t, s, "Alice", "alice@example.com")

	var found bool
	for _, cookie := range cookies {
		if cookie.Name == session.DefaultCookieName {
			found = true
			require.True(t, cookie.HttpOnly)
			require.NotEmpty(t, cookie.Value)
		}
	}
	require.True(t, found, "expected %s cookie", session.DefaultCookieName)

	w := doJSON(t, s, http.MethodGet, "/auth/me", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var me authdomain.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	require.Equal(t, "alice@example.com", me.Email)
}

func TestAPIRequiresSession(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/projects", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "unauthorized", resp.Error.Type)
}

func TestProjectLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	cookies := signup(t, s, "Alice", "alice@example.com")

	w := doJSON(t, s, http.MethodPost, "/api/projects", gin.H{
		"name": "Payments",
		"key":  "pay",
		"type": projectdomain.TypeTeamManaged,
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created projectdomain.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "PAY", created.Key)
	require.Len(t, created.Columns, 5)

	// Duplicate key surfaces as a conflict.
	w = doJSON(t, s, http.MethodPost, "/api/projects", gin.H{
		"name": "Payroll",
		"key":  "PAY",
		"type": projectdomain.TypeTeamManaged,
	}, cookies)
	require.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/projects/"+created.ID, nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodDelete, "/api/projects/"+created.ID, nil, cookies)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/projects/"+created.ID, nil, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTicketFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)
	cookies := signup(t, s, "Alice", "alice@example.com")

	w := doJSON(t, s, http.MethodPost, "/api/projects", gin.H{
		"name": "Payments",
		"key":  "PAY",
		"type": projectdomain.TypeTeamManaged,
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	var project projectdomain.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))

	w = doJSON(t, s, http.MethodPost, "/api/projects/"+project.ID+"/tickets", gin.H{
		"title": "Fix rounding",
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var ticket ticketdomain.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ticket))
	require.Equal(t, ticketdomain.PriorityMedium, ticket.Priority)
	require.Equal(t, ticketdomain.UnassignedSentinel, ticket.Assignee)

	// Move to another status through PATCH.
	target := project.Columns[1]
	w = doJSON(t, s, http.MethodPatch, "/api/projects/"+project.ID+"/tickets/"+ticket.ID, gin.H{
		"statusId": target.StatusID,
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var moved ticketdomain.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &moved))
	require.Equal(t, target.ID, moved.ColumnID)

	// Validation errors come back in the shared envelope.
	w = doJSON(t, s, http.MethodPost, "/api/projects/"+project.ID+"/tickets", gin.H{
		"title": "",
	}, cookies)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var errResp struct {
		Error struct {
			Type   string `json:"type"`
			Errors []struct {
				Code string `json:"code"`
			} `json:"errors"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	require.Equal(t, "validation_error", errResp.Error.Type)
	require.NotEmpty(t, errResp.Error.Errors)
	require.Equal(t, "invalid_title", errResp.Error.Errors[0].Code)
}

func TestInviteFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)
	aliceCookies := signup(t, s, "Alice", "alice@example.com")
	bobCookies := signup(t, s, "Bob", "bob@example.com")

	w := doJSON(t, s, http.MethodPost, "/api/projects", gin.H{
		"name": "Payments",
		"key":  "PAY",
		"type": projectdomain.TypeTeamManaged,
	}, aliceCookies)
	require.Equal(t, http.StatusCreated, w.Code)

	var project projectdomain.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))

	// Bob cannot see the project before accepting.
	w = doJSON(t, s, http.MethodGet, "/api/projects/"+project.ID, nil, bobCookies)
	require.Equal(t, http.StatusForbidden, w.Code)

	// A non-member cannot invite.
	w = doJSON(t, s, http.MethodPost, "/api/projects/"+project.ID+"/invite", gin.H{
		"email": "carol@example.com",
	}, bobCookies)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/projects/"+project.ID+"/invite", gin.H{
		"email": "bob@example.com",
	}, aliceCookies)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestTypingRoundTrip(t *testing.T) {
	s := newTestServer(t)
	aliceCookies := signup(t, s, "Alice", "alice@example.com")
	bobCookies := signup(t, s, "Bob", "bob@example.com")

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	ticketID := node.Generate().String()

	w := doJSON(t, s, http.MethodPost, "/api/typing", gin.H{
		"ticketId": ticketID,
		"fieldId":  "description",
	}, bobCookies)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	// Bob does not see his own indicator.
	w = doJSON(t, s, http.MethodGet, "/api/typing?ticketId="+ticketID+"&fieldId=description", nil, bobCookies)
	require.Equal(t, http.StatusOK, w.Code)
	var own []presence.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &own))
	require.Empty(t, own)

	w = doJSON(t, s, http.MethodGet, "/api/typing?ticketId="+ticketID+"&fieldId=description", nil, aliceCookies)
	require.Equal(t, http.StatusOK, w.Code)
	var views []presence.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	require.Equal(t, "Bob", views[0].User.Name)

	w = doJSON(t, s, http.MethodDelete, "/api/typing?ticketId="+ticketID+"&fieldId=description", nil, bobCookies)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/typing?ticketId="+ticketID+"&fieldId=description", nil, aliceCookies)
	require.Equal(t, http.StatusOK, w.Code)
	views = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Empty(t, views)
}
