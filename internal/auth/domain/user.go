package domain

import "time"

type User struct {
	ID           string
	Realm        string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Email        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile holds the user fields that may be changed through a profile update.
type Profile struct {
	FirstName string
	LastName  string
	Email     string
}

func (u *User) Profile() Profile {
	return Profile{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
}

// Identity is the subject resolved from a verified token. It lives for a
// single request and is never persisted.
type Identity struct {
	Realm     string
	Username  string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Owns reports whether the identity refers to the given (realm, username).
func (i Identity) Owns(realm, username string) bool {
	return i.Realm == realm && i.Username == username
}

type LoginAttempt struct {
	ID          string
	Realm       string
	Username    string
	IPAddress   string
	AttemptTime time.Time
	Successful  bool
}
