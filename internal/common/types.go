package common

type NotificationType string

const (
	ConnectionRequestType   NotificationType = "connection_request"
	ConnectionAcceptedType  NotificationType = "connection_accepted"
	ConnectionWithdrawnType NotificationType = "connection_withdrawn"
	NewFollowerType         NotificationType = "new_follower"
	PostLikeType            NotificationType = "post_like"
	PostCommentType         NotificationType = "post_comment"
	OtherType               NotificationType = "other"
)

func (t NotificationType) Valid() bool {
	switch t {
	case ConnectionRequestType, ConnectionAcceptedType, ConnectionWithdrawnType,
		NewFollowerType, PostLikeType, PostCommentType, OtherType:
		return true
	}
	return false
}

// NormalizeNotificationType maps unknown type strings onto OtherType so rows
// written by newer services still render.
func NormalizeNotificationType(s string) NotificationType {
	t := NotificationType(s)
	if !t.Valid() {
		return OtherType
	}
	return t
}
