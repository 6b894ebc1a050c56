package dto

import "time"

type LoginInput struct {
	Realm     string `json:"realm"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	IPAddress string `json:"-"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
