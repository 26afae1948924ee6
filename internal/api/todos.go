package api

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nerrad567/todo-api/internal/todo"
)

// createTodoRequest is the body of POST /todos.
type createTodoRequest struct {
	Title *string `json:"title"`
}

// updateTodoRequest is the body of PUT /todos/{id}. Absent fields are left unchanged.
type updateTodoRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

// handleListTodos returns every todo with its count.
func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := s.registry.ListTodos(r.Context())
	if err != nil {
		s.internalError(w, r, "listing todos", err)
		return
	}

	count := len(todos)
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Data:    todos,
		Count:   &count,
	})
}

// handleGetTodo returns a single todo.
func (s *Server) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeNotFound(w, MsgTodoNotFound)
		return
	}

	t, err := s.registry.GetTodo(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, "getting todo", err)
		return
	}
	writeData(w, http.StatusOK, t)
}

// handleCreateTodo creates a todo from {"title": "..."}.
func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var req createTodoRequest
	if !s.readJSON(w, r, s.schemas.create, &req) {
		return
	}
	if req.Title == nil {
		writeBadRequest(w, MsgTitleRequired)
		return
	}

	t, err := s.registry.CreateTodo(r.Context(), *req.Title)
	if err != nil {
		s.writeStoreError(w, r, "creating todo", err)
		return
	}
	writeData(w, http.StatusCreated, t)
}

// handleUpdateTodo applies {"title"?, "completed"?} to a todo.
// The body is checked before the id is looked up.
func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	var req updateTodoRequest
	if !s.readJSON(w, r, s.schemas.update, &req) {
		return
	}

	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeNotFound(w, MsgTodoNotFound)
		return
	}

	t, err := s.registry.UpdateTodo(r.Context(), id, todo.Patch{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		s.writeStoreError(w, r, "updating todo", err)
		return
	}
	writeData(w, http.StatusOK, t)
}

// handleDeleteTodo removes a todo and echoes it back.
func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		writeNotFound(w, MsgTodoNotFound)
		return
	}

	t, err := s.registry.DeleteTodo(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, r, "deleting todo", err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{
		Success: true,
		Data:    t,
		Message: MsgTodoDeleted,
	})
}

// handleRouteNotFound answers unknown paths and unsupported methods alike.
func (s *Server) handleRouteNotFound(w http.ResponseWriter, _ *http.Request) {
	writeNotFound(w, MsgRouteNotFound)
}

// readJSON reads and validates the request body into dst.
// On failure it writes the response and returns false.
func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, schema *jsonschema.Schema, dst any) bool {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, MsgBodyTooLarge)
			return false
		}
		s.logger.Debug("reading request body failed", "error", err, "request_id", requestIDFrom(r.Context()))
		writeBadRequest(w, MsgInvalidBody)
		return false
	}

	if err := decodeBody(raw, schema, dst); err != nil {
		s.logger.Debug("rejected request body", "error", err, "request_id", requestIDFrom(r.Context()))
		writeBadRequest(w, MsgInvalidBody)
		return false
	}
	return true
}

// writeStoreError maps registry errors to status codes.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, todo.ErrNotFound):
		writeNotFound(w, MsgTodoNotFound)
	case errors.Is(err, todo.ErrInvalidTitle):
		writeBadRequest(w, MsgTitleRequired)
	default:
		s.internalError(w, r, op, err)
	}
}

// internalError logs err with request context and writes a generic 500.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.logger.Error(op+" failed",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", requestIDFrom(r.Context()),
	)
	writeInternalError(w)
}

// parseID reads a todo id the lenient way path ids have always been read:
// leading whitespace, an optional sign, then as many decimal digits as
// follow. Trailing garbage is ignored, so "12abc" is 12. It reports false
// when no digit is present or the value overflows int64; such ids can never
// match a todo.
func parseID(raw string) (int64, bool) {
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}

	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
