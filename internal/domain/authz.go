package domain

// CanDelete decides whether actor may delete a resource owned by ownerId.
// Pure function, no side effects: only the resource owner or an admin may
// delete. The same rule applies to posts and their comments.
func CanDelete(actor *User, ownerId UserId) bool {
	if actor == nil {
		return false
	}
	return actor.Id == ownerId || actor.IsAdmin()
}
