package domain

type ReactionKind int

const (
	ReactionLike ReactionKind = iota
	ReactionDislike
)

func (k ReactionKind) String() string {
	if k == ReactionDislike {
		return "dislike"
	}
	return "like"
}

// ReactionSets holds the two mutually exclusive reaction sets of a post
// or comment. A user id appears in at most one of them.
type ReactionSets struct {
	LikedBy    UserIdSet
	DislikedBy UserIdSet
}

func contains(set UserIdSet, id UserId) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}

func remove(set UserIdSet, id UserId) UserIdSet {
	out := set[:0]
	for _, v := range set {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Toggle applies the idempotent reaction toggle for user:
// the user's id is first removed from the opposite set, then removed from
// the target set if already present (undo), otherwise added to it.
// Calling Toggle twice with the same arguments restores the input.
func (s ReactionSets) Toggle(user UserId, kind ReactionKind) ReactionSets {
	target, other := s.LikedBy, s.DislikedBy
	if kind == ReactionDislike {
		target, other = s.DislikedBy, s.LikedBy
	}

	other = remove(append(UserIdSet(nil), other...), user)
	target = append(UserIdSet(nil), target...)
	if contains(target, user) {
		target = remove(target, user)
	} else {
		target = append(target, user)
	}

	if kind == ReactionDislike {
		return ReactionSets{LikedBy: other, DislikedBy: target}
	}
	return ReactionSets{LikedBy: target, DislikedBy: other}
}
