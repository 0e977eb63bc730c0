package handler

import (
	"encoding/json"
	"net/http"

	"apnastay/internal/listings/service"
	httputil "apnastay/pkg/http"
	"apnastay/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type WatchlistHandler struct {
	service service.WatchlistService
	log     *logger.Logger
}

func NewWatchlistHandler(service service.WatchlistService, log *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		service: service,
		log:     log,
	}
}

type watchlistRequest struct {
	ListingID string `json:"listing_id"`
	Name      string `json:"name"`
}

func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Add", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	var req watchlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Add", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	watchlist, err := h.service.AddListing(r.Context(), actor, req.Name, req.ListingID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Add", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, watchlist); err != nil {
		h.log.Error("failed to write success response", "handler", "Add", "operation", "WriteSuccess", "error", err)
	}
}

func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	watchlists, err := h.service.GetWatchlists(r.Context(), actor)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, watchlists); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

// Remove pulls a listing from the named watchlist, or from all of the
// user's watchlists when no name query parameter is given.
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Remove", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	name := r.URL.Query().Get("name")
	if err := h.service.RemoveListing(r.Context(), actor, name, ps.ByName("listingId")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Remove", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *WatchlistHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/watchlists", h.Add)
	router.GET("/api/v1/watchlists", h.List)
	router.DELETE("/api/v1/watchlists/listing/:listingId", h.Remove)
}
