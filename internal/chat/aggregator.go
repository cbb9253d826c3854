package chat

import (
	"context"

	"github.com/rs/zerolog"

	"prolink/internal/common"
	"prolink/internal/dbmysql"
)

// Aggregator recomputes the per-user conversation view model from raw
// membership and message rows. Every pass derives full truth from the store;
// nothing is patched incrementally, which makes repeated passes idempotent
// and safe to trigger from both the change listener and the poller.
type Aggregator struct {
	repo dbmysql.ConversationRepository
	log  zerolog.Logger
}

func NewAggregator(repo dbmysql.ConversationRepository, log zerolog.Logger) *Aggregator {
	return &Aggregator{
		repo: repo,
		log:  log.With().Str("component", "conversation_aggregator").Logger(),
	}
}

// Aggregate returns the ordered conversation summaries for userID. previous
// maps conversation id to the summary from the prior pass; when a single
// conversation's sub-fetch fails the stale summary is reused so one bad row
// does not abort the pass. previous may be nil.
//
// A membership or participant lookup failure aborts the whole pass with a
// FetchError and the caller keeps its last known-good view model.
func (a *Aggregator) Aggregate(
	ctx context.Context,
	userID string,
	previous map[string]ConversationSummary,
) ([]ConversationSummary, error) {
	ids, err := a.repo.ConversationIDs(ctx, userID)
	if err != nil {
		return nil, common.NewFetchError("conversation membership", err)
	}
	if len(ids) == 0 {
		return []ConversationSummary{}, nil
	}

	rows, err := a.repo.ParticipantProfiles(ctx, ids)
	if err != nil {
		return nil, common.NewFetchError("participant profiles", err)
	}

	participants := make(map[string][]ParticipantRef, len(ids))
	for _, row := range rows {
		if row.ProfileID == userID {
			continue // the viewing user is excluded from participants
		}
		participants[row.ConversationID] = append(participants[row.ConversationID], ParticipantRef{
			ProfileID: row.ProfileID,
			Name:      row.Name,
			Headline:  row.Headline,
			AvatarURL: row.AvatarURL,
		})
	}

	summaries := make([]ConversationSummary, 0, len(ids))
	for _, id := range ids {
		summary, err := a.buildSummary(ctx, id, userID, participants[id])
		if err != nil {
			a.log.Warn().Err(err).Str("conversation_id", id).
				Msg("conversation fetch failed, falling back to previous summary")
			if prev, ok := previous[id]; ok {
				summaries = append(summaries, prev)
			}
			continue
		}
		summaries = append(summaries, summary)
	}

	sortSummaries(summaries)
	return summaries, nil
}

func (a *Aggregator) buildSummary(
	ctx context.Context,
	conversationID, userID string,
	participants []ParticipantRef,
) (ConversationSummary, error) {
	summary := ConversationSummary{
		ID:           conversationID,
		Participants: participants,
	}

	latest, err := a.repo.LatestMessage(ctx, conversationID)
	if err != nil {
		return ConversationSummary{}, err
	}
	if latest == nil {
		// No messages: LastMessage stays nil and UnreadCount stays 0.
		return summary, nil
	}

	summary.LastMessage = &MessagePreview{
		ID:        latest.ID,
		SenderID:  latest.SenderID,
		Content:   latest.Content,
		Seen:      latest.Seen,
		CreatedAt: latest.CreatedAt,
	}

	unread, err := a.repo.UnreadCount(ctx, conversationID, userID)
	if err != nil {
		return ConversationSummary{}, err
	}
	summary.UnreadCount = int(unread)

	return summary, nil
}
