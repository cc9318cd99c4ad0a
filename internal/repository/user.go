package repository

import (
	"context"
	"errors"
	"log/slog"

	"socialapp/internal/cache"
	"socialapp/internal/models"
	"socialapp/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateEmail(ctx context.Context, id uint, email string) (*models.User, error)
	DeleteWithProfile(ctx context.Context, id uint) error
	List(ctx context.Context) ([]models.User, error)
}

type userRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, log: observability.NewRepoLogger("users")}
}

// GetByID returns the user without its password hash; reads go through the cache.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		defer observability.TrackQuery("select", "users")()
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User")
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return &user, nil
}

// GetByEmail returns (nil, nil) when no user has the email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer observability.TrackQuery("select", "users")()

	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("insert", "users")()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewDuplicateEmailError()
		}
		r.log.Failed(ctx, observability.OpCreate, err)
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.UsersListKey)
	r.log.Wrote(ctx, observability.OpCreate, slog.Any("user_id", user.ID))
	return nil
}

// UpdateEmail changes only the email column so a cached (password-less)
// user is never written back.
func (r *userRepository) UpdateEmail(ctx context.Context, id uint, email string) (*models.User, error) {
	done := observability.TrackQuery("update", "users")
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("email", email)
	done()
	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			return nil, models.NewDuplicateEmailError()
		}
		r.log.Failed(ctx, observability.OpUpdate, res.Error)
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("User")
	}

	cache.InvalidateUser(ctx, id)
	r.log.Wrote(ctx, observability.OpUpdate, slog.Any("user_id", id), slog.String("field", "email"))
	return r.GetByID(ctx, id)
}

// DeleteWithProfile removes the user and their profile in one transaction.
func (r *userRepository) DeleteWithProfile(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "users")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("User")
		}
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		r.log.Failed(ctx, observability.OpDelete, err)
		return models.NewInternalError(err)
	}

	cache.InvalidateUser(ctx, id)
	r.log.Wrote(ctx, observability.OpDelete, slog.Any("user_id", id))
	return nil
}

// List returns every user, oldest first.
func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := cache.Aside(ctx, cache.UsersListKey, &users, cache.UsersTTL, func() error {
		defer observability.TrackQuery("select", "users")()
		if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}
