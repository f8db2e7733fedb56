package domain

import "time"

type (
	UserId = int64
	Email  = string
	Role   = string
)

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	Id            UserId
	Username      string
	Email         Email
	PassHash      string // never serialized, stripped before leaving the service layer
	Role          Role
	LoginAttempts int
	LockUntil     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Locked reports whether the account lockout window is still active at now.
func (u *User) Locked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}

// Public is the projection safe to serialize in responses.
type Public struct {
	Id        UserId    `json:"id"`
	Username  string    `json:"username"`
	Email     Email     `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Public() Public {
	return Public{
		Id:        u.Id,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
