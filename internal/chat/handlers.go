package chat

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"prolink/internal/cdc"
	"prolink/internal/common"
	"prolink/internal/dbmysql"
)

// Handler is the stateless HTTP surface over the conversation pipeline.
// Long-lived views hold a Session instead; these routes serve one-shot
// aggregation reads and the mark-seen mutation.
type Handler struct {
	agg       *Aggregator
	repo      dbmysql.ConversationRepository
	publisher *cdc.Publisher
	log       zerolog.Logger
}

func NewHandler(
	agg *Aggregator,
	repo dbmysql.ConversationRepository,
	publisher *cdc.Publisher,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		agg:       agg,
		repo:      repo,
		publisher: publisher,
		log:       log.With().Str("component", "chat_handler").Logger(),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/users/{id}/conversations", h.ListConversations).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}/messages/{messageID}/seen", h.MarkMessageSeen).Methods(http.MethodPost)
}

func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]
	if userID == "" {
		http.Error(w, "user id is required", http.StatusBadRequest)
		return
	}

	summaries, err := h.agg.Aggregate(r.Context(), userID, nil)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("aggregation failed")
		http.Error(w, "failed to load conversations", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

func (h *Handler) MarkMessageSeen(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, messageID := vars["id"], vars["messageID"]
	if userID == "" || messageID == "" {
		http.Error(w, "user id and message id are required", http.StatusBadRequest)
		return
	}

	if err := h.repo.MarkMessageSeen(r.Context(), messageID); err != nil {
		h.log.Error().Err(err).Str("message_id", messageID).Msg("mark seen failed")
		http.Error(w, common.NewMutationError("mark message seen", messageID, err).Error(),
			http.StatusBadGateway)
		return
	}

	if h.publisher != nil {
		h.publisher.Publish(r.Context(), cdc.MessagesKey(userID), cdc.Event{
			Table: cdc.TableMessages,
			RowID: messageID,
			Kind:  "update",
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
