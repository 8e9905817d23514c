package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	authdomain "noshuff-backend/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of userRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) Create(ctx context.Context, user *authdomain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", authdomain.ErrDuplicateUser, err)
	}
	return err
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*authdomain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *userRepository) FindBySpotifyID(ctx context.Context, spotifyID string) (*authdomain.User, error) {
	return r.findOne(ctx, "spotify_id = ?", spotifyID)
}

func (r *userRepository) findOne(ctx context.Context, query string, arg string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *authdomain.User) error {
	user.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) UpdateBlurb(ctx context.Context, id, blurb string) error {
	res := r.db.WithContext(ctx).Model(&authdomain.User{}).Where("id = ?", id).
		Updates(map[string]any{"personal_blurb": blurb, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return authdomain.ErrUserNotFound
	}
	return nil
}

// ClearSpotifyTokens nulls the provider session columns without touching the rest of the row.
func (r *userRepository) ClearSpotifyTokens(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&authdomain.User{}).Where("id = ?", id).
		Updates(map[string]any{
			"spotify_access_token":            nil,
			"spotify_refresh_token":           nil,
			"spotify_access_token_expires_at": nil,
			"updated_at":                      time.Now(),
		}).Error
}
