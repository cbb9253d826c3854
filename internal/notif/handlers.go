package notif

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type Handler struct {
	feed *Feed
	log  zerolog.Logger
}

func NewHandler(feed *Feed, log zerolog.Logger) *Handler {
	return &Handler{
		feed: feed,
		log:  log.With().Str("component", "notif_handler").Logger(),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/users/{id}/notifications", h.ListNotifications).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}/notifications/read-all", h.MarkAllRead).Methods(http.MethodPost)
	r.HandleFunc("/users/{id}/notifications/{notificationID}/read", h.MarkRead).Methods(http.MethodPost)
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	if userID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "page must be a non-negative integer", http.StatusBadRequest)
			return
		}
		page = n
	}

	items, err := h.feed.Page(r.Context(), userID, page)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("notification page fetch failed")
		http.Error(w, "failed to load notifications", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, notificationID := vars["id"], vars["notificationID"]
	if userID == "" || notificationID == "" {
		http.Error(w, "user id and notification id are required", http.StatusBadRequest)
		return
	}

	if err := h.feed.MarkRead(r.Context(), userID, notificationID); err != nil {
		h.log.Error().Err(err).Str("notification_id", notificationID).Msg("mark read failed")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	if userID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	if err := h.feed.MarkAllRead(r.Context(), userID); err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("mark all read failed")
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
