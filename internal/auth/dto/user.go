package dto

import (
	"time"

	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/domain"
)

// UserOutput is the public view of a user record. It never carries the
// password hash.
type UserOutput struct {
	ID        string    `json:"id"`
	Realm     string    `json:"realm"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewUserOutput(u *domain.User) *UserOutput {
	return &UserOutput{
		ID:        u.ID,
		Realm:     u.Realm,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type ProfileResponse struct {
	User *UserOutput `json:"user"`
}
