package api

import (
	"encoding/json"
	"net/http"
)

// Client-facing messages. The wording is part of the public contract.
const (
	MsgTodoNotFound  = "Tarea no encontrada"
	MsgTitleRequired = "El título es obligatorio"
	MsgInvalidBody   = "Cuerpo de la petición inválido"
	MsgBodyTooLarge  = "Cuerpo de la petición demasiado grande"
	MsgRouteNotFound = "Endpoint no encontrado"
	MsgInternalError = "Error interno del servidor"
	MsgTodoDeleted   = "Tarea eliminada correctamente"
)

const (
	contentTypeJSON     = "application/json; charset=utf-8"
	headerRequestID     = "X-Request-ID"
	headerContentType   = "Content-Type"
	headerAllowOrigin   = "Access-Control-Allow-Origin"
	headerVary          = "Vary"
	defaultAllowMethods = "GET, HEAD, PUT, PATCH, POST, DELETE"
)

// Envelope is the body of every /todos response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(headerContentType, contentTypeJSON)
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeData writes a successful envelope around data.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

// writeError writes a failed envelope with message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Success: false, Error: message})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, message)
}

func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, message)
}

func writeInternalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, MsgInternalError)
}
