package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rowanhart/tasklist/internal/auth"
	"github.com/rowanhart/tasklist/internal/model"
	"github.com/rowanhart/tasklist/internal/store"
	"github.com/rowanhart/tasklist/internal/websocket"
)

type TodoHandler struct {
	todos  *store.TodoStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewTodoHandler(ts *store.TodoStore, hub *websocket.Hub, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{todos: ts, hub: hub, logger: logger}
}

func (h *TodoHandler) broadcast(userID int64, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(userID, msg)
	}
}

// identity pulls the guard-provided user from the request context. The guard
// runs on every /api route, so a missing identity means a wiring bug; it is
// still answered with a plain 401.
func identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
	}
	return id, ok
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	todos, err := h.todos.ListByUser(id.UserID, r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error("list todos", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	writeJSON(w, http.StatusOK, todos)
}

type createTodoRequest struct {
	Title string `json:"title"`
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Title is required")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeMessage(w, http.StatusBadRequest, "Title is required")
		return
	}

	todo, err := h.todos.Create(id.UserID, req.Title)
	if err != nil {
		h.logger.Error("create todo", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.broadcast(id.UserID, websocket.NewMessage("todo", "created", todo.ID))

	writeJSON(w, http.StatusCreated, todo)
}

type updateTodoRequest struct {
	Completed bool `json:"completed"`
}

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	todoID, err := parseIDParam(r)
	if err != nil {
		// A non-numeric id can't name a row; same collapsed outcome as a miss.
		writeMessage(w, http.StatusNotFound, "Todo not found or not authorized")
		return
	}

	var req updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("decode update todo", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	matched, err := h.todos.SetCompleted(todoID, id.UserID, req.Completed)
	if err != nil {
		h.logger.Error("update todo", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !matched {
		writeMessage(w, http.StatusNotFound, "Todo not found or not authorized")
		return
	}

	h.broadcast(id.UserID, websocket.NewMessage("todo", "updated", todoID))

	writeMessage(w, http.StatusOK, "Todo updated successfully")
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	todoID, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "Todo not found or not authorized")
		return
	}

	matched, err := h.todos.Delete(todoID, id.UserID)
	if err != nil {
		h.logger.Error("delete todo", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !matched {
		writeMessage(w, http.StatusNotFound, "Todo not found or not authorized")
		return
	}

	h.broadcast(id.UserID, websocket.NewMessage("todo", "deleted", todoID))

	writeMessage(w, http.StatusOK, "Todo deleted successfully")
}
