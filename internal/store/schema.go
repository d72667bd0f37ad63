package store

import (
	"database/sql"

	"codeberg.org/avatarlab/morphctl/internal/errors"
)

// initSchema initializes the avatar database schema.
func initSchema(db *sql.DB) error {
	errFactory := errors.New()

	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS avatars (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            name TEXT NOT NULL,
            slot INTEGER NOT NULL,
            gender TEXT,
            age_range TEXT,
            creation_mode TEXT,
            source TEXT,
            quick_mode INTEGER NOT NULL DEFAULT 0,
            created_at INTEGER NOT NULL,
            updated_at INTEGER NOT NULL,
            UNIQUE (user_id, name),
            UNIQUE (user_id, slot)
        );

        CREATE TABLE IF NOT EXISTS avatar_basic_measurements (
            avatar_id TEXT NOT NULL,
            measurement_key TEXT NOT NULL,
            value REAL NOT NULL,
            PRIMARY KEY (avatar_id, measurement_key)
        );

        CREATE TABLE IF NOT EXISTS avatar_body_measurements (
            avatar_id TEXT NOT NULL,
            measurement_key TEXT NOT NULL,
            value REAL NOT NULL,
            PRIMARY KEY (avatar_id, measurement_key)
        );

        CREATE TABLE IF NOT EXISTS avatar_morph_targets (
            avatar_id TEXT NOT NULL,
            morph_id INTEGER NOT NULL,
            label TEXT NOT NULL,
            category TEXT NOT NULL,
            value INTEGER NOT NULL,
            updated_at INTEGER NOT NULL,
            PRIMARY KEY (avatar_id, morph_id)
        );

        CREATE TABLE IF NOT EXISTS avatar_quickmode_settings (
            avatar_id TEXT PRIMARY KEY,
            body_shape TEXT,
            athletic_level TEXT,
            measurements TEXT,
            updated_at INTEGER NOT NULL
        )
    `)
	if err != nil {
		return errFactory.Wrap(ErrStorageInit, err)
	}

	return nil
}
