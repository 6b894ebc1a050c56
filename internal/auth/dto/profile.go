package dto

import "github.com/AnthoniusHendriyanto/realm-auth/internal/auth/domain"

// ProfileInput is the body of a profile update. Realm and Username are
// optional; when present they must name the authenticated user. Any other
// field of a full user document (password, id, timestamps) is ignored.
type ProfileInput struct {
	Realm     string `json:"realm"`
	Username  string `json:"username"`
	FirstName string `json:"firstName" validate:"required,notblank,max=100"`
	LastName  string `json:"lastName" validate:"required,notblank,max=100"`
	Email     string `json:"email" validate:"required,notblank,max=254,email"`
}

func (p ProfileInput) Profile() domain.Profile {
	return domain.Profile{FirstName: p.FirstName, LastName: p.LastName, Email: p.Email}
}

type UpdateProfileResponse struct {
	Success bool `json:"success"`
}
