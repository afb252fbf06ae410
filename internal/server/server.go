package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/trackiy/internal/auth"
	authdomain "github.com/smallbiznis/trackiy/internal/auth/domain"
	"github.com/smallbiznis/trackiy/internal/auth/session"
	"github.com/smallbiznis/trackiy/internal/board"
	boarddomain "github.com/smallbiznis/trackiy/internal/board/domain"
	"github.com/smallbiznis/trackiy/internal/comment"
	commentdomain "github.com/smallbiznis/trackiy/internal/comment/domain"
	"github.com/smallbiznis/trackiy/internal/config"
	"github.com/smallbiznis/trackiy/internal/invitation"
	invitationdomain "github.com/smallbiznis/trackiy/internal/invitation/domain"
	"github.com/smallbiznis/trackiy/internal/observability"
	obsmiddleware "github.com/smallbiznis/trackiy/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/trackiy/internal/observability/metrics"
	obstracing "github.com/smallbiznis/trackiy/internal/observability/tracing"
	"github.com/smallbiznis/trackiy/internal/presence"
	"github.com/smallbiznis/trackiy/internal/project"
	projectdomain "github.com/smallbiznis/trackiy/internal/project/domain"
	"github.com/smallbiznis/trackiy/internal/providers/email"
	"github.com/smallbiznis/trackiy/internal/ticket"
	ticketdomain "github.com/smallbiznis/trackiy/internal/ticket/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	auth.Module,
	session.Module,
	email.Module,
	board.Module,
	ticket.Module,
	project.Module,
	comment.Module,
	invitation.Module,
	presence.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	authsvc       authdomain.Service
	sessions      *session.Manager
	projectSvc    projectdomain.Service
	boardSvc      boarddomain.Service
	ticketSvc     ticketdomain.Service
	commentSvc    commentdomain.Service
	invitationSvc invitationdomain.Service
	presenceSvc   *presence.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Authsvc       authdomain.Service
	Sessions      *session.Manager
	ProjectSvc    projectdomain.Service
	BoardSvc      boarddomain.Service
	TicketSvc     ticketdomain.Service
	CommentSvc    commentdomain.Service
	InvitationSvc invitationdomain.Service
	PresenceSvc   *presence.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		authsvc:       p.Authsvc,
		sessions:      p.Sessions,
		projectSvc:    p.ProjectSvc,
		boardSvc:      p.BoardSvc,
		ticketSvc:     p.TicketSvc,
		commentSvc:    p.CommentSvc,
		invitationSvc: p.InvitationSvc,
		presenceSvc:   p.PresenceSvc,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/signup", s.Signup)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AuthRequired())

	// -------- Projects --------
	api.GET("/projects", s.ListProjects)
	api.POST("/projects", s.CreateProject)
	api.GET("/projects/:id", s.GetProject)
	api.DELETE("/projects/:id", s.DeleteProject)

	// -------- Members --------
	api.GET("/projects/:id/members", s.ListMembers)
	api.POST("/projects/:id/members", s.AddMembers)

	// -------- Columns / Statuses --------
	api.GET("/projects/:id/columns", s.ListColumns)
	api.POST("/projects/:id/columns", s.CreateColumn)
	api.PATCH("/projects/:id/columns/:columnId", s.UpdateColumn)
	api.DELETE("/projects/:id/columns/:columnId", s.DeleteColumn)
	api.GET("/projects/:id/statuses", s.ListStatuses)

	// -------- Tickets --------
	api.GET("/projects/:id/tickets", s.ListTickets)
	api.POST("/projects/:id/tickets", s.CreateTicket)
	api.GET("/projects/:id/tickets/:ticketId", s.GetTicket)
	api.PATCH("/projects/:id/tickets/:ticketId", s.UpdateTicket)
	api.DELETE("/projects/:id/tickets/:ticketId", s.DeleteTicket)
	api.GET("/search/tickets", s.SearchTickets)

	// -------- Comments --------
	api.GET("/projects/:id/tickets/:ticketId/comments", s.ListComments)
	api.POST("/projects/:id/tickets/:ticketId/comments", s.CreateComment)
	api.DELETE("/projects/:id/tickets/:ticketId/comments/:commentId", s.DeleteComment)

	// -------- Invitations --------
	api.POST("/projects/:id/invite", s.InviteMember)
	api.POST("/invite/:token", s.AcceptInvite)

	// -------- Typing presence --------
	api.GET("/typing", s.ListTyping)
	api.POST("/typing", s.StartTyping)
	api.DELETE("/typing", s.StopTyping)
}
