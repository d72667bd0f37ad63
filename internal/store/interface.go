package store

import (
	"context"
	"time"

	"codeberg.org/avatarlab/morphctl/internal/morph"
)

// MaxAvatarsPerUser is the per-user slot quota.
const MaxAvatarsPerUser = 5

// QuickModeSettings captures the quick-creation selectors and the
// estimates they produced.
type QuickModeSettings struct {
	BodyShape     string             `json:"bodyShape"`
	AthleticLevel string             `json:"athleticLevel"`
	Measurements  map[string]float64 `json:"measurements"`
}

// Avatar is one stored avatar record with its measurement sources and
// morph target catalog.
type Avatar struct {
	ID           string
	UserID       string
	Name         string
	Gender       string
	AgeRange     string
	CreationMode string
	Source       string
	QuickMode    bool
	Basic        map[string]float64
	Body         map[string]float64
	MorphTargets []morph.Attribute
	QuickModeSet *QuickModeSettings
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repository defines the persistence boundary for avatar records.
type Repository interface {
	Create(ctx context.Context, avatar *Avatar) error
	Get(ctx context.Context, userID, avatarID string) (*Avatar, error)
	List(ctx context.Context, userID string) ([]*Avatar, error)
	Update(ctx context.Context, avatar *Avatar) error
	Delete(ctx context.Context, userID, avatarID string) error
	Close() error
}
