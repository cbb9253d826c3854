// Package badge derives the navigation unread counters. Pure functions over
// the current view models; no fetching of its own.
package badge

import (
	"prolink/internal/chat"
	"prolink/internal/notif"
)

// Conversations sums the per-conversation unread counts.
func Conversations(summaries []chat.ConversationSummary) int {
	total := 0
	for _, summary := range summaries {
		if summary.UnreadCount > 0 {
			total += summary.UnreadCount
		}
	}
	return total
}

// Notifications counts unread notifications.
func Notifications(items []notif.Notification) int {
	count := 0
	for _, item := range items {
		if !item.Read {
			count++
		}
	}
	return count
}

// Total is the combined badge. Clamped at zero; the aggregation invariants
// should make negative inputs impossible, but the badge must never show one.
func Total(summaries []chat.ConversationSummary, items []notif.Notification) int {
	total := Conversations(summaries) + Notifications(items)
	if total < 0 {
		return 0
	}
	return total
}
