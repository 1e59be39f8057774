package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/hireloop-labs/hireloop-console/internal/apiclient"
	"github.com/hireloop-labs/hireloop-console/internal/config"
	"github.com/hireloop-labs/hireloop-console/internal/dashboard"
	"github.com/hireloop-labs/hireloop-console/internal/logger"
	"github.com/hireloop-labs/hireloop-console/internal/model"
	"github.com/hireloop-labs/hireloop-console/internal/service"
)

// Server wires HTTP handlers and owns the live dashboard sessions.
type Server struct {
	app       *fiber.App
	cfg       *config.Config
	log       *logger.Logger
	api       *apiclient.Client
	authSvc   *service.AuthService
	entrySvc  *service.EntryService
	notifySvc *service.NotificationService

	mu       sync.Mutex
	sessions map[string]*dashboard.Session
}

// New builds a server instance.
func New(cfg *config.Config, log *logger.Logger, api *apiclient.Client, authSvc *service.AuthService, entrySvc *service.EntryService, notifySvc *service.NotificationService) *Server {
	app := fiber.New(fiber.Config{
		IdleTimeout:  cfg.HTTP.ReadTimeout,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		AppName:      "hireloop-console",
	})
	s := &Server{
		app:       app,
		cfg:       cfg,
		log:       log,
		api:       api,
		authSvc:   authSvc,
		entrySvc:  entrySvc,
		notifySvc: notifySvc,
		sessions:  make(map[string]*dashboard.Session),
	}
	s.registerRoutes()
	return s
}

// Start listens and serves HTTP traffic.
func (s *Server) Start() error {
	return s.app.Listen(s.cfg.HTTP.Addr)
}

// Shutdown gracefully stops the HTTP server and the live sessions.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for id, session := range s.sessions {
		session.Close()
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", s.handleHealth)

	s.app.Post("/auth/login", s.handleLogin)
	s.app.Post("/auth/logout", s.requireAuth, s.handleLogout)
	s.app.Get("/auth/profile", s.requireAuth, s.handleProfile)

	api := s.app.Group("/api", s.requireAuth)
	api.Get("/dashboard", s.handleDashboard)
	api.Post("/dashboard/filters", s.handleFilterChange)
	api.Post("/dashboard/page", s.handlePageChange)
	api.Post("/entries", s.handleCreateEntry)
	api.Get("/notifications/settings", s.handleNotificationGet)
	api.Put("/notifications/settings", s.handleNotificationUpdate)

	s.serveFrontend()
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status":   "ok",
		"upstream": s.api.BaseURL(),
	})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req struct {
		Handle   string `json:"handle"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(model.Error("Malformed login request."))
	}
	token, sessionID, err := s.authSvc.Login(c.UserContext(), req.Handle, req.Password)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			return c.Status(http.StatusUnauthorized).JSON(model.Error("Invalid credentials."))
		}
		s.log.Warnw("login failed", "err", err)
		return c.Status(http.StatusBadGateway).JSON(model.Error("Login is unavailable right now."))
	}
	session := s.newSession(sessionID)
	session.Start()
	return c.JSON(model.Success("Login successful.", fiber.Map{
		"token": token,
	}))
}

func (s *Server) handleProfile(c *fiber.Ctx) error {
	return c.JSON(model.Success("ok", fiber.Map{
		"handle": c.Locals("handle"),
	}))
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	sessionID := c.Locals("sessionID").(string)
	if err := s.authSvc.Logout(c.UserContext(), sessionID); err != nil {
		s.log.Warnw("logout cleanup failed", "sessionID", sessionID, "err", err)
	}
	s.dropSession(sessionID)
	return c.JSON(model.Success("Logged out.", nil))
}

func (s *Server) handleDashboard(c *fiber.Ctx) error {
	session := s.session(c)
	return c.JSON(model.Success("ok", session.View()))
}

func (s *Server) handleFilterChange(c *fiber.Ctx) error {
	var req struct {
		Key   string `json:"key"`
		Value any    `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(model.Error("Malformed filter change."))
	}
	session := s.session(c)
	if err := session.SetFilter(req.Key, req.Value); err != nil {
		return c.Status(http.StatusBadRequest).JSON(model.Error(err.Error()))
	}
	return c.JSON(model.Success("ok", session.View()))
}

func (s *Server) handlePageChange(c *fiber.Ctx) error {
	var req struct {
		Page int `json:"page"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(model.Error("Malformed page change."))
	}
	session := s.session(c)
	session.GoToPage(req.Page)
	return c.JSON(model.Success("ok", session.View()))
}

func (s *Server) handleCreateEntry(c *fiber.Ctx) error {
	var form model.NewEntryForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(http.StatusBadRequest).JSON(model.Error("Malformed entry form."))
	}
	sessionID := c.Locals("sessionID").(string)
	token, err := s.authSvc.SessionToken(c.UserContext(), sessionID)
	if err != nil {
		s.dropSession(sessionID)
		return c.Status(http.StatusUnauthorized).JSON(model.Error("Session expired. Please sign in again."))
	}
	if err := s.entrySvc.Submit(c.UserContext(), token, form); err != nil {
		var invalid *service.ValidationError
		switch {
		case errors.As(err, &invalid):
			return c.Status(http.StatusUnprocessableEntity).
				JSON(model.FieldErrors("Please fill out all required fields correctly.", invalid.Fields))
		case errors.Is(err, apiclient.ErrUnauthorized):
			s.forceLogout(sessionID)
			return c.Status(http.StatusUnauthorized).JSON(model.Error("Session expired. Please sign in again."))
		default:
			s.log.Warnw("create entry failed", "err", err)
			return c.Status(http.StatusBadGateway).
				JSON(model.Error("Failed to create entry. Please check your inputs and try again."))
		}
	}
	return c.JSON(model.Success("Entry created successfully!", nil))
}

func (s *Server) handleNotificationGet(c *fiber.Ctx) error {
	sessionID := c.Locals("sessionID").(string)
	prefs, err := s.notifySvc.Preferences(c.UserContext(), sessionID)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(model.Error(err.Error()))
	}
	return c.JSON(model.Success("ok", prefs))
}

func (s *Server) handleNotificationUpdate(c *fiber.Ctx) error {
	var prefs model.NotificationPreferences
	if err := c.BodyParser(&prefs); err != nil {
		return c.Status(http.StatusBadRequest).JSON(model.Error("Malformed notification settings."))
	}
	sessionID := c.Locals("sessionID").(string)
	token, err := s.authSvc.SessionToken(c.UserContext(), sessionID)
	if err != nil {
		s.dropSession(sessionID)
		return c.Status(http.StatusUnauthorized).JSON(model.Error("Session expired. Please sign in again."))
	}
	updated, err := s.notifySvc.Update(c.UserContext(), sessionID, token, prefs)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			s.forceLogout(sessionID)
			return c.Status(http.StatusUnauthorized).JSON(model.Error("Session expired. Please sign in again."))
		}
		return c.Status(http.StatusInternalServerError).JSON(model.Error(err.Error()))
	}
	return c.JSON(model.Success("Notification settings saved.", updated))
}

// session returns the live Session for the authenticated request, creating
// one when the server restarted with a still-valid JWT.
func (s *Server) session(c *fiber.Ctx) *dashboard.Session {
	sessionID := c.Locals("sessionID").(string)
	s.mu.Lock()
	if session, ok := s.sessions[sessionID]; ok {
		s.mu.Unlock()
		return session
	}
	s.mu.Unlock()
	session := s.newSession(sessionID)
	session.Start()
	return session
}

func (s *Server) newSession(sessionID string) *dashboard.Session {
	session := dashboard.NewSession(dashboard.Options{
		Fetcher: s.api,
		Token:   s.authSvc.TokenFunc(sessionID),
		OnAuthFailure: func() {
			s.forceLogout(sessionID)
		},
		Log:          s.log,
		PageSize:     s.cfg.Dashboard.PageSize,
		Debounce:     s.cfg.Dashboard.SearchDebounce,
		FetchTimeout: s.cfg.API.RequestTimeout,
		WindowWidth:  s.cfg.Dashboard.WindowWidth,
	})
	s.mu.Lock()
	s.sessions[sessionID] = session
	s.mu.Unlock()
	return session
}

func (s *Server) dropSession(sessionID string) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()
	if ok {
		session.Close()
	}
}

// forceLogout tears a session down after the upstream rejected its token.
func (s *Server) forceLogout(sessionID string) {
	if err := s.authSvc.Logout(context.Background(), sessionID); err != nil {
		s.log.Warnw("forced logout cleanup failed", "sessionID", sessionID, "err", err)
	}
	s.dropSession(sessionID)
}

func (s *Server) requireAuth(c *fiber.Ctx) error {
	token := extractBearerToken(c.Get("Authorization"))
	if token == "" {
		return c.Status(http.StatusUnauthorized).JSON(model.Error("Not signed in."))
	}
	claims, err := s.authSvc.Validate(token)
	if err != nil {
		return c.Status(http.StatusUnauthorized).JSON(model.Error("Session expired. Please sign in again."))
	}
	c.Locals("sessionID", claims.SessionID)
	c.Locals("handle", claims.Handle)
	return c.Next()
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (s *Server) serveFrontend() {
	dir := strings.TrimSpace(s.cfg.Frontend.Dir)
	if dir == "" {
		return
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return
	}
	s.app.Static("/", dir, fiber.Static{
		Index:    "index.html",
		Compress: true,
	})
}
