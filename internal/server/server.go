package server

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"taskboard/internal/auth"
	"taskboard/internal/boards"
	"taskboard/internal/models"
	"taskboard/internal/session"
	"taskboard/internal/storage/sqlite"
	"taskboard/internal/tasks"
)

// Options tunes cross-origin behavior.
type Options struct {
	AllowedOrigins []string
}

// Server provides the HTML task tracker and the JSON board API.
type Server struct {
	engine      *gin.Engine
	store       *sqlite.Store
	credentials *auth.Credentials
	sessions    *session.Authenticator
	tasks       *tasks.Service
	boards      *boards.Service
	logger      *slog.Logger
	opts        Options
}

// New constructs the HTTP server with routes and middleware configured.
func New(store *sqlite.Store, credentials *auth.Credentials, sessions *session.Authenticator, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api/healthz", "/static/style.css"))
	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	router.SetHTMLTemplate(template.Must(template.New("").Funcs(templateFuncs).ParseFS(assets, "templates/*.html")))

	srv := &Server{
		engine:      router,
		store:       store,
		credentials: credentials,
		sessions:    sessions,
		tasks:       tasks.NewService(store),
		boards:      boards.NewService(store),
		logger:      logger,
		opts:        opts,
	}

	srv.registerRoutes()
	return srv
}

// Handler is the engine wrapped in session loading; serve this one.
func (s *Server) Handler() http.Handler {
	return s.sessions.Handler(s.engine)
}

// registerRoutes wires all page, API and static handlers together.
func (s *Server) registerRoutes() {
	s.engine.Use(s.loadActor)

	s.engine.GET("/register", s.handleRegisterPage)
	s.engine.POST("/register", s.handleRegister)
	s.engine.GET("/login", s.handleLoginPage)
	s.engine.POST("/login", s.handleLogin)
	s.engine.GET("/logout", s.handleLogout)

	pages := s.engine.Group("", s.requirePageActor)
	{
		pages.GET("/", func(c *gin.Context) { c.Redirect(http.StatusSeeOther, "/dashboard") })
		pages.GET("/dashboard", s.handleDashboard)
		pages.GET("/tasks/new", s.handleNewTaskPage)
		pages.POST("/tasks/new", s.handleCreateTask)
		pages.GET("/tasks/:id/edit", s.handleEditTaskPage)
		pages.POST("/tasks/:id/edit", s.handleUpdateTask)
		pages.POST("/tasks/:id/delete", s.handleDeleteTask)
	}

	s.engine.GET("/api/healthz", s.handleHealth)
	api := s.engine.Group("/api", s.requireAPIActor)
	{
		api.GET("/me", s.handleMe)
		api.GET("/members", s.handleListMembers)

		workspaces := api.Group("/workspaces")
		{
			workspaces.GET("", s.handleListWorkspaces)
			workspaces.POST("", s.handleCreateWorkspace)
			workspaces.GET(":id", s.handleGetWorkspace)
			workspaces.PATCH(":id", s.handleRenameWorkspace)
			workspaces.DELETE(":id", s.handleDeleteWorkspace)
			workspaces.GET(":id/members", s.handleWorkspaceMembers)
			workspaces.POST(":id/members/:member_id", s.handleAddWorkspaceMember)
			workspaces.DELETE(":id/members/:member_id", s.handleRemoveWorkspaceMember)
			workspaces.GET(":id/boards", s.handleListBoards)
			workspaces.POST(":id/boards", s.handleCreateBoard)
		}

		boardRoutes := api.Group("/boards")
		{
			boardRoutes.GET(":id", s.handleGetBoard)
			boardRoutes.PATCH(":id", s.handleUpdateBoard)
			boardRoutes.DELETE(":id", s.handleDeleteBoard)
			boardRoutes.GET(":id/members", s.handleBoardMembers)
			boardRoutes.POST(":id/members/:member_id", s.handleAddBoardMember)
			boardRoutes.DELETE(":id/members/:member_id", s.handleRemoveBoardMember)
			boardRoutes.GET(":id/labels", s.handleBoardLabels)
			boardRoutes.POST(":id/labels/:label_id", s.handleAttachBoardLabel)
			boardRoutes.DELETE(":id/labels/:label_id", s.handleDetachBoardLabel)
			boardRoutes.GET(":id/lists", s.handleListLists)
			boardRoutes.POST(":id/lists", s.handleCreateList)
		}

		lists := api.Group("/lists")
		{
			lists.GET(":id", s.handleGetList)
			lists.PATCH(":id", s.handleUpdateList)
			lists.DELETE(":id", s.handleDeleteList)
			lists.GET(":id/cards", s.handleListCards)
			lists.POST(":id/cards", s.handleCreateCard)
		}

		cards := api.Group("/cards")
		{
			cards.GET(":id", s.handleGetCard)
			cards.PATCH(":id", s.handleUpdateCard)
			cards.DELETE(":id", s.handleDeleteCard)
			cards.GET(":id/labels", s.handleCardLabels)
			cards.POST(":id/labels/:label_id", s.handleAddCardLabel)
			cards.DELETE(":id/labels/:label_id", s.handleRemoveCardLabel)
			cards.GET(":id/members", s.handleCardMembers)
			cards.POST(":id/members/:member_id", s.handleAddCardMember)
			cards.DELETE(":id/members/:member_id", s.handleRemoveCardMember)
		}

		labels := api.Group("/labels")
		{
			labels.GET("", s.handleListLabels)
			labels.POST("", s.handleCreateLabel)
			labels.GET(":id", s.handleGetLabel)
			labels.PATCH(":id", s.handleUpdateLabel)
			labels.DELETE(":id", s.handleDeleteLabel)
		}
	}

	s.mountStatic()
}

// handleHealth pings the database.
func (s *Server) handleHealth(c *gin.Context) {
	if err := s.store.DB().PingContext(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseID converts a path parameter to int64 with error handling.
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return 0, false
	}
	return id, true
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrHasDependents), errors.Is(err, models.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError returns a JSON payload; only unexpected failures are logged
// and their details stay out of the response.
func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}

// respondSuccess writes payload as JSON, or only the status when payload is nil.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
