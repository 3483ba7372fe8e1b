package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/palaverhq/palaver/internal/auth"
)

// User represents a user account stored in the database. PasswordHash is the
// bcrypt credential; the plaintext password is never stored.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Admin        bool
	Bio          *string
	AddedOn      time.Time
}

// UserUpdate describes an optional-field update for a user. Nil fields are
// left unchanged. ClearBio nulls the bio regardless of Bio.
type UserUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	Admin     *bool
	Bio       *string
	ClearBio  bool
}

// AddUser inserts a new user with a hashed credential and returns its id.
// Returns ErrUniqueConstraint when the email is already registered.
func (db *DB) AddUser(firstName, lastName, email, password string) (int64, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	result, err := db.Exec(`
		INSERT INTO Users (FirstName, LastName, Email, Password, Admin, AddedOn)
		VALUES (?, ?, ?, ?, FALSE, ?)
	`, firstName, lastName, email, hash, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to add user: %w", classify(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get user id: %w", err)
	}

	log.Info().Int64("user_id", id).Str("email", email).Msg("User added")
	return id, nil
}

// GetUser retrieves a user by id. Returns ErrNotFound when the row is
// missing.
func (db *DB) GetUser(id int64) (*User, error) {
	user := &User{}
	var bio sql.NullString
	err := db.QueryRow(`
		SELECT Id, FirstName, LastName, Email, Password, Admin, Bio, AddedOn
		FROM Users WHERE Id = ?
	`, id).Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash, &user.Admin, &bio, &user.AddedOn)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.Bio = nullStringToPtr(bio)
	return user, nil
}

// GetUserEmail returns just the email column for a user.
func (db *DB) GetUserEmail(id int64) (string, error) {
	var email string
	err := db.QueryRow("SELECT Email FROM Users WHERE Id = ?", id).Scan(&email)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user email: %w", err)
	}
	return email, nil
}

// getUserByEmail retrieves a user by unique email. Returns nil, nil when no
// user has the address; AttemptLogin depends on that shape.
func (db *DB) getUserByEmail(email string) (*User, error) {
	user := &User{}
	var bio sql.NullString
	err := db.QueryRow(`
		SELECT Id, FirstName, LastName, Email, Password, Admin, Bio, AddedOn
		FROM Users WHERE Email = ?
	`, email).Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.PasswordHash, &user.Admin, &bio, &user.AddedOn)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	user.Bio = nullStringToPtr(bio)
	return user, nil
}

// UserExists reports whether a user row exists.
func (db *DB) UserExists(id int64) (bool, error) {
	var one int
	err := db.QueryRow("SELECT 1 FROM Users WHERE Id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return true, nil
}

// Users returns a snapshot of all user rows.
func (db *DB) Users() ([]*User, error) {
	rows, err := db.Query(`
		SELECT Id, FirstName, LastName, Email, Password, Admin, Bio, AddedOn
		FROM Users
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u := &User{}
		var bio sql.NullString
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Admin, &bio, &u.AddedOn); err != nil {
			return nil, err
		}
		u.Bio = nullStringToPtr(bio)
		users = append(users, u)
	}
	return users, rows.Err()
}

// ModifyUser applies the non-nil fields of update to the user row. A
// supplied password is rehashed before storage.
func (db *DB) ModifyUser(id int64, update UserUpdate) error {
	var sets []string
	var args []any

	if update.FirstName != nil {
		sets = append(sets, "FirstName = ?")
		args = append(args, *update.FirstName)
	}
	if update.LastName != nil {
		sets = append(sets, "LastName = ?")
		args = append(args, *update.LastName)
	}
	if update.Email != nil {
		sets = append(sets, "Email = ?")
		args = append(args, *update.Email)
	}
	if update.Password != nil {
		hash, err := auth.HashPassword(*update.Password)
		if err != nil {
			return err
		}
		sets = append(sets, "Password = ?")
		args = append(args, hash)
	}
	if update.Admin != nil {
		sets = append(sets, "Admin = ?")
		args = append(args, *update.Admin)
	}
	if update.ClearBio {
		sets = append(sets, "Bio = NULL")
	} else if update.Bio != nil {
		sets = append(sets, "Bio = ?")
		args = append(args, *update.Bio)
	}

	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.Exec("UPDATE Users SET "+strings.Join(sets, ", ")+" WHERE Id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to modify user: %w", classify(err))
	}
	return nil
}

// RemoveUser deletes a user and everything the user owns: their posts, all
// comments and tag associations on those posts, and comments they authored
// on anyone's post. Removing a missing id is a no-op. The whole fan-out is
// one transaction.
func (db *DB) RemoveUser(id int64) error {
	return db.Transaction(func(tx *sql.Tx) error {
		statements := []string{
			"DELETE FROM Comments WHERE PostId IN (SELECT Id FROM Posts WHERE CreatorId = ?)",
			"DELETE FROM PostTags WHERE PostId IN (SELECT Id FROM Posts WHERE CreatorId = ?)",
			"DELETE FROM Comments WHERE UserId = ?",
			"DELETE FROM Posts WHERE CreatorId = ?",
			"DELETE FROM Users WHERE Id = ?",
		}
		for _, stmt := range statements {
			if _, err := tx.Exec(stmt, id); err != nil {
				return fmt.Errorf("failed to remove user %d: %w", id, classify(err))
			}
		}
		log.Info().Int64("user_id", id).Msg("User removed")
		return nil
	})
}
