package repository

import (
	"context"
	"time"

	authdomain "noshuff-backend/internal/auth/domain"

	"gorm.io/gorm"
)

// stateRepository implements StateRepository interface
type stateRepository struct {
	db *gorm.DB
}

// NewStateRepository creates a new instance of stateRepository
func NewStateRepository(db *gorm.DB) StateRepository {
	return &stateRepository{
		db: db,
	}
}

func (r *stateRepository) Save(ctx context.Context, state *authdomain.OAuthState) error {
	if state.CreatedAt.IsZero() {
		state.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(state).Error
}

func (r *stateRepository) Consume(ctx context.Context, state string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Where("state = ? AND expires_at > ?", state, now).Delete(&authdomain.OAuthState{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *stateRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&authdomain.OAuthState{})
	return res.RowsAffected, res.Error
}
