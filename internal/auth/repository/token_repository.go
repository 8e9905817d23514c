package repository

import (
	"context"
	"errors"
	"time"

	authdomain "noshuff-backend/internal/auth/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// tokenRepository implements TokenRepository interface
type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new instance of tokenRepository
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{
		db: db,
	}
}

func (r *tokenRepository) SaveOutstanding(ctx context.Context, token *authdomain.OutstandingToken) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *tokenRepository) FindOutstanding(ctx context.Context, tokenID string) (*authdomain.OutstandingToken, error) {
	var token authdomain.OutstandingToken
	err := r.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&authdomain.BlacklistedToken{}).Where("token_id = ?", tokenID).Count(&count).Error
	return count > 0, err
}

// Blacklist inserts the revocation record (atomic INSERT ... ON CONFLICT (token_id) DO NOTHING)
func (r *tokenRepository) Blacklist(ctx context.Context, tokenID string, expiresAt time.Time) (bool, error) {
	entry := &authdomain.BlacklistedToken{
		TokenID:       tokenID,
		ExpiresAt:     expiresAt,
		BlacklistedAt: time.Now(),
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token_id"}},
		DoNothing: true,
	}).Create(entry)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DeleteExpired removes revocation and outstanding rows whose tokens can no longer verify anyway.
func (r *tokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("expires_at < ?", now).Delete(&authdomain.BlacklistedToken{})
		if res.Error != nil {
			return res.Error
		}
		deleted += res.RowsAffected

		res = tx.Where("expires_at < ?", now).Delete(&authdomain.OutstandingToken{})
		if res.Error != nil {
			return res.Error
		}
		deleted += res.RowsAffected
		return nil
	})
	return deleted, err
}
