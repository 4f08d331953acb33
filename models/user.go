package models

import "time"

// User is created on first sign-in from the OAuth provider payload.
// Email is the immutable identity key used everywhere else in the API.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Image     string    `json:"image,omitempty"`
	Projects  []string  `json:"projects"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SessionRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type SessionResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
