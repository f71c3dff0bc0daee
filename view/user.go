package view

import "time"

type User struct {
	Id    string `json:"userId"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

type Credentials struct {
	UserId   string `json:"userId"`
	Password string `json:"password"`
}

// LoginResult is what the procurement backend answers to a successful login.
type LoginResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type Session struct {
	Id        string    `json:"sessionId"`
	User      User      `json:"user"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type UnauthorizedResponse struct {
	Status   int    `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

const LoginRedirect = "/login"
