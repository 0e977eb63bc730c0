package handler

import (
	"encoding/json"
	"net/http"

	"apnastay/internal/social/service"
	httputil "apnastay/pkg/http"
	"apnastay/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type ConnectionHandler struct {
	service service.ConnectionService
	log     *logger.Logger
}

func NewConnectionHandler(service service.ConnectionService, log *logger.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		service: service,
		log:     log,
	}
}

func (h *ConnectionHandler) Send(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Send", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var req struct {
		RecipientID string `json:"recipient_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Send", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	connection, err := h.service.SendRequest(r.Context(), actor, req.RecipientID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Send", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, connection); err != nil {
		h.log.Error("failed to write created response", "handler", "Send", "operation", "WriteCreated", "error", err)
	}
}

func (h *ConnectionHandler) Pending(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Pending", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	pending, err := h.service.ListPending(r.Context(), actor)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Pending", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, pending); err != nil {
		h.log.Error("failed to write success response", "handler", "Pending", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ConnectionHandler) Accepted(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Accepted", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	connections, err := h.service.ListAccepted(r.Context(), actor)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Accepted", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, connections); err != nil {
		h.log.Error("failed to write success response", "handler", "Accepted", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ConnectionHandler) Accept(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.respond(w, r, ps, true, "Accept")
}

func (h *ConnectionHandler) Decline(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	h.respond(w, r, ps, false, "Decline")
}

func (h *ConnectionHandler) respond(w http.ResponseWriter, r *http.Request, ps httprouter.Params, accept bool, name string) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
		}
		return
	}

	connection, err := h.service.Respond(r.Context(), actor, ps.ByName("id"), accept)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, connection); err != nil {
		h.log.Error("failed to write success response", "handler", name, "operation", "WriteSuccess", "error", err)
	}
}

func (h *ConnectionHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/connections", h.Send)
	router.GET("/api/v1/connections/pending", h.Pending)
	router.GET("/api/v1/connections", h.Accepted)
	router.POST("/api/v1/connections/id/:id/accept", h.Accept)
	router.POST("/api/v1/connections/id/:id/decline", h.Decline)
}
