package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// schemaStatements are the table definitions, one statement per table.
// PostTags carries a composite primary key so duplicate associations
// collapse onto the natural key.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS Users (
		Id INTEGER PRIMARY KEY AUTOINCREMENT,
		FirstName TEXT NOT NULL,
		LastName TEXT NOT NULL,
		Email TEXT NOT NULL UNIQUE,
		Password TEXT NOT NULL,
		Admin BOOL NOT NULL DEFAULT FALSE,
		Bio TEXT,
		AddedOn DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS Posts (
		Id INTEGER PRIMARY KEY AUTOINCREMENT,
		CreatorId INTEGER NOT NULL,
		Title TEXT NOT NULL,
		Content TEXT NOT NULL,
		AddedOn DATETIME NOT NULL,
		ExpiresOn DATETIME,
		FOREIGN KEY (CreatorId) REFERENCES Users(Id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS Tags (
		Id INTEGER PRIMARY KEY AUTOINCREMENT,
		Name TEXT NOT NULL,
		Description TEXT,
		Colour TEXT NOT NULL,
		AddedOn DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS Comments (
		Id INTEGER PRIMARY KEY AUTOINCREMENT,
		PostId INTEGER NOT NULL,
		UserId INTEGER NOT NULL,
		Content TEXT NOT NULL,
		AddedOn DATETIME NOT NULL,
		EditedOn DATETIME,
		DeletedOn DATETIME,
		FOREIGN KEY (PostId) REFERENCES Posts(Id) ON DELETE CASCADE,
		FOREIGN KEY (UserId) REFERENCES Users(Id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS PostTags (
		PostId INTEGER NOT NULL,
		TagId INTEGER NOT NULL,
		PRIMARY KEY (PostId, TagId),
		FOREIGN KEY (PostId) REFERENCES Posts(Id) ON DELETE CASCADE,
		FOREIGN KEY (TagId) REFERENCES Tags(Id) ON DELETE CASCADE
	)`,
}

// EnsureSchema creates any missing tables. It is idempotent and additive
// only: existing tables are never dropped or altered.
func (db *DB) EnsureSchema() error {
	log.Debug().Msg("Ensuring database schema")

	for i, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement %d failed: %w", i+1, err)
		}
	}

	return nil
}
