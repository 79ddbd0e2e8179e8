package auth

// SignupRequest is the rule-set for POST /signup.
type SignupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=5"`
	FullName  string `json:"fullName" validate:"required,min=3"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url"`
}

// LoginRequest is the rule-set for POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5"`
}

// SessionResponse is returned by signup and login.
type SessionResponse struct {
	User  PublicUser `json:"user"`
	Token string     `json:"token"`
}
