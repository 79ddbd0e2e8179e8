package auth

import "time"

// User represents a registered account. The identity (email) is fixed at
// signup and the password is stored only as a bcrypt hash.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FullName     string
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the client-visible view of a User. It never carries the
// password hash.
type PublicUser struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public returns the client-visible view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
