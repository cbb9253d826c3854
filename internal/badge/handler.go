package badge

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"prolink/internal/chat"
	"prolink/internal/notif"
)

type Handler struct {
	agg  *chat.Aggregator
	feed *notif.Feed
	log  zerolog.Logger
}

func NewHandler(agg *chat.Aggregator, feed *notif.Feed, log zerolog.Logger) *Handler {
	return &Handler{
		agg:  agg,
		feed: feed,
		log:  log.With().Str("component", "badge_handler").Logger(),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/users/{id}/badge", h.Badge).Methods(http.MethodGet)
}

type badgeResponse struct {
	Conversations int `json:"conversations"`
	Notifications int `json:"notifications"`
	Total         int `json:"total"`
}

func (h *Handler) Badge(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	if userID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	summaries, err := h.agg.Aggregate(r.Context(), userID, nil)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("badge aggregation failed")
		http.Error(w, "failed to compute badge", http.StatusBadGateway)
		return
	}

	unreadNotifs, err := h.feed.UnreadCount(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("badge unread count failed")
		http.Error(w, "failed to compute badge", http.StatusBadGateway)
		return
	}

	resp := badgeResponse{
		Conversations: Conversations(summaries),
		Notifications: unreadNotifs,
	}
	resp.Total = resp.Conversations + resp.Notifications
	if resp.Total < 0 {
		resp.Total = 0
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
