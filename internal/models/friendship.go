package models

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipDeclined FriendshipStatus = "declined"
)

type Friendship struct {
	From   string           `json:"from"`
	To     string           `json:"to"`
	Status FriendshipStatus `json:"status"`
}

// FriendState is the relation between the signed-in user and another user
// as seen from the signed-in side.
type FriendState string

const (
	FriendStateNone        FriendState = ""
	FriendStateFriend      FriendState = "Friend"
	FriendStateDeclined    FriendState = "Declined"
	FriendStateRequestSent FriendState = "Request sent"
	FriendStateWaiting     FriendState = "Waiting for response"
)

// StateFor derives the friend state between currentUserID and targetUserID.
// A nil friendship or a self lookup yields FriendStateNone.
func (f *Friendship) StateFor(currentUserID, targetUserID string) FriendState {
	if f == nil || currentUserID == targetUserID {
		return FriendStateNone
	}
	switch f.Status {
	case FriendshipAccepted:
		return FriendStateFriend
	case FriendshipDeclined:
		return FriendStateDeclined
	case FriendshipPending:
		if f.From == currentUserID && f.To == targetUserID {
			return FriendStateRequestSent
		}
		if f.From == targetUserID && f.To == currentUserID {
			return FriendStateWaiting
		}
	}
	return FriendStateNone
}
