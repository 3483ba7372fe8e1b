package database

import (
	"github.com/rs/zerolog/log"

	"github.com/palaverhq/palaver/internal/auth"
)

// dummyHash is a well-formed bcrypt credential that matches no password.
// Login attempts for unregistered emails verify against it so the miss
// costs the same as a wrong password.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// AttemptLogin verifies the supplied password against the stored credential
// for the user registered under email. It returns false for unknown emails
// and wrong passwords alike; the plaintext is never stored or logged.
func (db *DB) AttemptLogin(email, password string) (bool, error) {
	user, err := db.getUserByEmail(email)
	if err != nil {
		return false, err
	}

	if user == nil {
		auth.CheckPassword(password, dummyHash)
		return false, nil
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		log.Debug().Int64("user_id", user.ID).Msg("Login attempt rejected")
		return false, nil
	}

	return true, nil
}
