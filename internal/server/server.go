package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rowanhart/tasklist/internal/auth"
	"github.com/rowanhart/tasklist/internal/config"
	"github.com/rowanhart/tasklist/internal/handler"
	"github.com/rowanhart/tasklist/internal/middleware"
	"github.com/rowanhart/tasklist/internal/store"
	ws "github.com/rowanhart/tasklist/internal/websocket"
)

type Server struct {
	db     *sql.DB
	hub    *ws.Hub
	tokens *auth.TokenService
	authH  *handler.AuthHandler
	todoH  *handler.TodoHandler
	pageH  *handler.PageHandler
	logger *slog.Logger
}

func New(db *sql.DB, cfg *config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	tokens := auth.NewTokenService(cfg.JWTSecret)

	userStore := store.NewUserStore(db)
	todoStore := store.NewTodoStore(db)

	return &Server{
		db:     db,
		hub:    hub,
		tokens: tokens,
		authH:  handler.NewAuthHandler(userStore, tokens, cfg.Production(), logger.With("component", "auth")),
		todoH:  handler.NewTodoHandler(todoStore, hub, logger.With("component", "todo")),
		pageH:  handler.NewPageHandler(logger.With("component", "page")),
		logger: logger,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Public routes; the guard's allow-list lets these through.
	mux.HandleFunc("POST /api/auth/login", s.authH.Login)
	mux.HandleFunc("POST /api/auth/signup", s.authH.Signup)
	mux.HandleFunc("GET /login", s.pageH.Login)
	mux.HandleFunc("GET /signup", s.pageH.Signup)
	mux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes.
	mux.HandleFunc("POST /api/auth/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/todos", s.todoH.List)
	mux.HandleFunc("POST /api/todos", s.todoH.Create)
	mux.HandleFunc("PUT /api/todos/{id}", s.todoH.Update)
	mux.HandleFunc("DELETE /api/todos/{id}", s.todoH.Delete)
	mux.Handle("GET /ws", ws.Handler(s.hub, s.logger.With("component", "websocket")))
	mux.HandleFunc("GET /{$}", s.pageH.Home)

	// The guard wraps the whole mux so the contract is applied uniformly to
	// API routes and page navigations alike.
	guarded := middleware.Guard(s.tokens)(mux)
	return middleware.RequestLogger(s.logger.With("component", "http"))(guarded)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
