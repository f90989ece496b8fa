package domain

import "time"

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// SessionUser is the part of a user kept in the session after login.
type SessionUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) SessionUser() *SessionUser {
	return &SessionUser{ID: u.ID, Name: u.Name, Email: u.Email}
}
