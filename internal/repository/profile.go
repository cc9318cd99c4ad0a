package repository

import (
	"context"
	"errors"
	"log/slog"

	"socialapp/internal/models"
	"socialapp/internal/observability"

	"gorm.io/gorm"
)

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
}

type profileRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db, log: observability.NewRepoLogger("profiles")}
}

// GetByUserID returns (nil, nil) when the user has no profile.
func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	defer observability.TrackQuery("select", "profiles")()

	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	defer observability.TrackQuery("insert", "profiles")()

	if profile.Skills == nil {
		profile.Skills = []string{}
	}
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		r.log.Failed(ctx, observability.OpCreate, err)
		return models.NewInternalError(err)
	}
	r.log.Wrote(ctx, observability.OpCreate, slog.Any("profile_id", profile.ID), slog.Any("user_id", profile.UserID))
	return nil
}
