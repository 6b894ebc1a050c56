package memory

import (
	"fmt"
	"os"

	"github.com/AnthoniusHendriyanto/realm-auth/internal/auth/domain"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML fixture format for the memory store. Passwords are
// stored as bcrypt hashes, never in plain text.
type seedFile struct {
	Users []struct {
		Realm        string `yaml:"realm"`
		Username     string `yaml:"username"`
		PasswordHash string `yaml:"password_hash"`
		FirstName    string `yaml:"first_name"`
		LastName     string `yaml:"last_name"`
		Email        string `yaml:"email"`
	} `yaml:"users"`
}

// LoadSeed reads user fixtures from path into r and returns how many were loaded.
func LoadSeed(r *Repository, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	for i, u := range seed.Users {
		if _, err := bcrypt.Cost([]byte(u.PasswordHash)); err != nil {
			return 0, fmt.Errorf("seed user %d (%s/%s): password_hash is not a bcrypt hash: %w", i, u.Realm, u.Username, err)
		}
		err := r.Put(domain.User{
			Realm:        u.Realm,
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			Email:        u.Email,
		})
		if err != nil {
			return 0, fmt.Errorf("seed user %d: %w", i, err)
		}
	}

	return len(seed.Users), nil
}
