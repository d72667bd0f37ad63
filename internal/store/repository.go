package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"codeberg.org/avatarlab/morphctl/internal/errors"
	"codeberg.org/avatarlab/morphctl/internal/logger"
	"codeberg.org/avatarlab/morphctl/internal/morph"
	"github.com/google/uuid"

	_ "github.com/mattn/go-sqlite3"
)

type sqliteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

func NewRepository(cfg Config) (Repository, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().Msgf("Initializing avatar repository at: %s", cfg.DBPath)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteRepository{
		db: db,
	}, nil
}

func (r *sqliteRepository) Create(ctx context.Context, avatar *Avatar) error {
	errFactory := errors.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}
	defer tx.Rollback()

	slot, err := r.findAvailableSlot(ctx, tx, avatar.UserID)
	if err != nil {
		return err
	}

	if taken, err := r.nameTaken(ctx, tx, avatar.UserID, avatar.Name, ""); err != nil {
		return err
	} else if taken {
		return errFactory.New(ErrDuplicateName)
	}

	if avatar.ID == "" {
		avatar.ID = uuid.NewString()
	}
	if avatar.Name == "" {
		avatar.Name = "Untitled Avatar"
	}
	now := time.Now().UTC()
	avatar.CreatedAt = now
	avatar.UpdatedAt = now

	_, err = tx.ExecContext(ctx, `
        INSERT INTO avatars (
            id, user_id, name, slot, gender, age_range,
            creation_mode, source, quick_mode, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		avatar.ID, avatar.UserID, avatar.Name, slot, avatar.Gender, avatar.AgeRange,
		avatar.CreationMode, avatar.Source, boolToInt(avatar.QuickMode),
		now.Unix(), now.Unix(),
	)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	if err := r.persistMeasurements(ctx, tx, avatar); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}
	return nil
}

func (r *sqliteRepository) Get(ctx context.Context, userID, avatarID string) (*Avatar, error) {
	errFactory := errors.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	row := r.db.QueryRowContext(ctx, `
        SELECT id, user_id, name, gender, age_range, creation_mode,
               source, quick_mode, created_at, updated_at
        FROM avatars
        WHERE id = ? AND user_id = ?
    `, avatarID, userID)

	avatar, err := scanAvatar(row)
	if err == sql.ErrNoRows {
		return nil, errFactory.New(ErrAvatarNotFound)
	}
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}

	if err := r.loadMeasurements(ctx, avatar); err != nil {
		return nil, err
	}
	return avatar, nil
}

func (r *sqliteRepository) List(ctx context.Context, userID string) ([]*Avatar, error) {
	errFactory := errors.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.QueryContext(ctx, `
        SELECT id, user_id, name, gender, age_range, creation_mode,
               source, quick_mode, created_at, updated_at
        FROM avatars
        WHERE user_id = ?
        ORDER BY created_at, id
    `, userID)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}
	defer rows.Close()

	var avatars []*Avatar
	for rows.Next() {
		avatar, err := scanAvatar(rows)
		if err != nil {
			return nil, errFactory.Wrap(ErrStorageAccess, err)
		}
		avatars = append(avatars, avatar)
	}
	if err := rows.Err(); err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}

	for _, avatar := range avatars {
		if err := r.loadMeasurements(ctx, avatar); err != nil {
			return nil, err
		}
	}
	return avatars, nil
}

func (r *sqliteRepository) Update(ctx context.Context, avatar *Avatar) error {
	errFactory := errors.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}
	defer tx.Rollback()

	if taken, err := r.nameTaken(ctx, tx, avatar.UserID, avatar.Name, avatar.ID); err != nil {
		return err
	} else if taken {
		return errFactory.New(ErrDuplicateName)
	}

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx, `
        UPDATE avatars
        SET name = ?, gender = ?, age_range = ?, creation_mode = ?,
            source = ?, quick_mode = ?, updated_at = ?
        WHERE id = ? AND user_id = ?
    `,
		avatar.Name, avatar.Gender, avatar.AgeRange, avatar.CreationMode,
		avatar.Source, boolToInt(avatar.QuickMode), now.Unix(),
		avatar.ID, avatar.UserID,
	)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errFactory.New(ErrAvatarNotFound)
	}
	avatar.UpdatedAt = now

	if err := r.persistMeasurements(ctx, tx, avatar); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}
	return nil
}

func (r *sqliteRepository) Delete(ctx context.Context, userID, avatarID string) error {
	errFactory := errors.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM avatars WHERE id = ? AND user_id = ?`, avatarID, userID)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errFactory.New(ErrAvatarNotFound)
	}

	for _, table := range measurementTables {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE avatar_id = ?`, avatarID); err != nil {
			return errFactory.Wrap(ErrStorageAccess, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}
	return nil
}

func (r *sqliteRepository) Close() error {
	errFactory := errors.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.Close(); err != nil {
		return errFactory.Wrap(ErrStorageClose, err)
	}
	return nil
}

var measurementTables = []string{
	"avatar_basic_measurements",
	"avatar_body_measurements",
	"avatar_morph_targets",
	"avatar_quickmode_settings",
}

func (r *sqliteRepository) findAvailableSlot(ctx context.Context, tx *sql.Tx, userID string) (int, error) {
	errFactory := errors.New()

	rows, err := tx.QueryContext(ctx, `SELECT slot FROM avatars WHERE user_id = ?`, userID)
	if err != nil {
		return 0, errFactory.Wrap(ErrStorageAccess, err)
	}
	defer rows.Close()

	used := make(map[int]bool)
	for rows.Next() {
		var slot int
		if err := rows.Scan(&slot); err != nil {
			return 0, errFactory.Wrap(ErrStorageAccess, err)
		}
		used[slot] = true
	}
	if err := rows.Err(); err != nil {
		return 0, errFactory.Wrap(ErrStorageAccess, err)
	}

	for slot := 1; slot <= MaxAvatarsPerUser; slot++ {
		if !used[slot] {
			return slot, nil
		}
	}
	return 0, errFactory.New(ErrQuotaExceeded)
}

func (r *sqliteRepository) nameTaken(ctx context.Context, tx *sql.Tx, userID, name, excludeID string) (bool, error) {
	errFactory := errors.New()

	var one int
	err := tx.QueryRowContext(ctx,
		`SELECT 1 FROM avatars WHERE user_id = ? AND name = ? AND id != ?`,
		userID, name, excludeID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errFactory.Wrap(ErrStorageAccess, err)
	}
	return true, nil
}

// persistMeasurements replaces the avatar's measurement and morph target
// rows wholesale, mirroring how the record arrives from the collector.
func (r *sqliteRepository) persistMeasurements(ctx context.Context, tx *sql.Tx, avatar *Avatar) error {
	errFactory := errors.New()

	for _, table := range measurementTables {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE avatar_id = ?`, avatar.ID); err != nil {
			return errFactory.Wrap(ErrStorageAccess, err)
		}
	}

	for key, value := range avatar.Basic {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO avatar_basic_measurements (avatar_id, measurement_key, value) VALUES (?, ?, ?)`,
			avatar.ID, key, value,
		); err != nil {
			return errFactory.Wrap(ErrStorageAccess, err)
		}
	}

	for key, value := range avatar.Body {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO avatar_body_measurements (avatar_id, measurement_key, value) VALUES (?, ?, ?)`,
			avatar.ID, key, value,
		); err != nil {
			return errFactory.Wrap(ErrStorageAccess, err)
		}
	}

	now := time.Now().UTC().Unix()
	for _, target := range avatar.MorphTargets {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO avatar_morph_targets (avatar_id, morph_id, label, category, value, updated_at)
            VALUES (?, ?, ?, ?, ?, ?)
        `,
			avatar.ID, target.ID, target.Label, string(target.Category), target.Value, now,
		); err != nil {
			return errFactory.Wrap(ErrStorageAccess, err)
		}
	}

	if avatar.QuickModeSet != nil {
		measurements, err := json.Marshal(avatar.QuickModeSet.Measurements)
		if err != nil {
			return errFactory.Wrap(ErrStorageAccess, err)
		}
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO avatar_quickmode_settings (avatar_id, body_shape, athletic_level, measurements, updated_at)
            VALUES (?, ?, ?, ?, ?)
        `,
			avatar.ID, avatar.QuickModeSet.BodyShape, avatar.QuickModeSet.AthleticLevel,
			string(measurements), now,
		); err != nil {
			return errFactory.Wrap(ErrStorageAccess, err)
		}
	}

	return nil
}

func (r *sqliteRepository) loadMeasurements(ctx context.Context, avatar *Avatar) error {
	errFactory := errors.New()

	var err error
	if avatar.Basic, err = r.loadMeasurementMap(ctx, "avatar_basic_measurements", avatar.ID); err != nil {
		return err
	}
	if avatar.Body, err = r.loadMeasurementMap(ctx, "avatar_body_measurements", avatar.ID); err != nil {
		return err
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT morph_id, label, category, value
        FROM avatar_morph_targets
        WHERE avatar_id = ?
        ORDER BY morph_id
    `, avatar.ID)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}
	defer rows.Close()

	avatar.MorphTargets = nil
	for rows.Next() {
		var target morph.Attribute
		var category string
		if err := rows.Scan(&target.ID, &target.Label, &category, &target.Value); err != nil {
			return errFactory.Wrap(ErrStorageAccess, err)
		}
		target.Category = morph.Category(category)
		avatar.MorphTargets = append(avatar.MorphTargets, target)
	}
	if err := rows.Err(); err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	var bodyShape, athleticLevel, measurements sql.NullString
	err = r.db.QueryRowContext(ctx, `
        SELECT body_shape, athletic_level, measurements
        FROM avatar_quickmode_settings
        WHERE avatar_id = ?
    `, avatar.ID).Scan(&bodyShape, &athleticLevel, &measurements)
	if err == sql.ErrNoRows {
		avatar.QuickModeSet = nil
		return nil
	}
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	settings := &QuickModeSettings{
		BodyShape:     bodyShape.String,
		AthleticLevel: athleticLevel.String,
	}
	if measurements.Valid && measurements.String != "" {
		if err := json.Unmarshal([]byte(measurements.String), &settings.Measurements); err != nil {
			return errFactory.Wrap(ErrStorageAccess, err)
		}
	}
	avatar.QuickModeSet = settings
	return nil
}

func (r *sqliteRepository) loadMeasurementMap(ctx context.Context, table, avatarID string) (map[string]float64, error) {
	errFactory := errors.New()

	rows, err := r.db.QueryContext(ctx, `SELECT measurement_key, value FROM `+table+` WHERE avatar_id = ?`, avatarID)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var key string
		var value float64
		if err := rows.Scan(&key, &value); err != nil {
			return nil, errFactory.Wrap(ErrStorageAccess, err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, errFactory.Wrap(ErrStorageAccess, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAvatar(row rowScanner) (*Avatar, error) {
	var avatar Avatar
	var gender, ageRange, creationMode, source sql.NullString
	var quickMode, createdAt, updatedAt int64

	err := row.Scan(
		&avatar.ID, &avatar.UserID, &avatar.Name, &gender, &ageRange,
		&creationMode, &source, &quickMode, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	avatar.Gender = gender.String
	avatar.AgeRange = ageRange.String
	avatar.CreationMode = creationMode.String
	avatar.Source = source.String
	avatar.QuickMode = quickMode != 0
	avatar.CreatedAt = time.Unix(createdAt, 0).UTC()
	avatar.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &avatar, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
