package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/internal/domain/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GormContextRepository implements the ContextRepository interface on a relational table
type GormContextRepository struct {
	db *gorm.DB
}

// NewGormContextRepository creates a new GORM context repository
func NewGormContextRepository(db *gorm.DB) repository.ContextRepository {
	return &GormContextRepository{
		db: db,
	}
}

// ConversationContexts GORM model for database mapping
type ConversationContexts struct {
	ID            string         `gorm:"primaryKey;size:36"`
	UserID        int64          `gorm:"column:user_id;index:idx_ctx_user_active,priority:1"`
	ContextType   string         `gorm:"column:context_type;size:32"`
	Origin        string         `gorm:"column:origin;size:3"`
	Destination   string         `gorm:"column:destination;size:3"`
	DepartureDate string         `gorm:"column:departure_date;size:10"`
	Passengers    int            `gorm:"column:passengers"`
	CabinClass    string         `gorm:"column:cabin_class;size:16"`
	RawParams     datatypes.JSON `gorm:"column:raw_params"`
	OriginalQuery string         `gorm:"column:original_query"`
	CreatedAt     time.Time      `gorm:"column:created_at;index"`
	ExpiresAt     time.Time      `gorm:"column:expires_at;index"`
	Active        bool           `gorm:"column:active;index:idx_ctx_user_active,priority:2"`
}

// TableName overrides the default table name
func (ConversationContexts) TableName() string {
	return "conversation_contexts"
}

// Insert stores a new context row
func (r *GormContextRepository) Insert(ctx context.Context, sc *entity.SearchContext) error {
	raw, err := json.Marshal(sc.RawParams)
	if err != nil {
		return fmt.Errorf("failed to encode context params: %w", err)
	}

	row := ConversationContexts{
		ID:            sc.ID,
		UserID:        sc.UserID,
		ContextType:   sc.ContextType,
		Origin:        sc.Origin,
		Destination:   sc.Destination,
		DepartureDate: sc.DepartureDate,
		Passengers:    sc.Passengers,
		CabinClass:    string(sc.CabinClass),
		RawParams:     datatypes.JSON(raw),
		OriginalQuery: sc.OriginalQuery,
		CreatedAt:     sc.CreatedAt.UTC(),
		ExpiresAt:     sc.ExpiresAt.UTC(),
		Active:        sc.Active,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert context: %w", err)
	}
	return nil
}

// DeactivateExpired deactivates a user's contexts whose expiry has passed
func (r *GormContextRepository) DeactivateExpired(ctx context.Context, userID int64, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&ConversationContexts{}).
		Where("user_id = ? AND active = ? AND expires_at <= ?", userID, true, now.UTC()).
		Update("active", false)
	return result.RowsAffected, result.Error
}

// DeactivateBeyond keeps the newest keep active contexts and deactivates the older ones
func (r *GormContextRepository) DeactivateBeyond(ctx context.Context, userID int64, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	var ids []string
	err := r.db.WithContext(ctx).Model(&ConversationContexts{}).
		Where("user_id = ? AND active = ?", userID, true).
		Order("created_at DESC").
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) <= keep {
		return 0, nil
	}
	ids = ids[keep:]

	result := r.db.WithContext(ctx).Model(&ConversationContexts{}).
		Where("id IN ?", ids).
		Update("active", false)
	return result.RowsAffected, result.Error
}

// FindLatestActive returns the newest live context of a user
func (r *GormContextRepository) FindLatestActive(ctx context.Context, userID int64, now time.Time) (*entity.SearchContext, error) {
	var row ConversationContexts
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND active = ? AND expires_at > ?", userID, true, now.UTC()).
		Order("created_at DESC").
		First(&row)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, entity.ErrContextNotFound
		}
		return nil, result.Error
	}
	return row.toEntity()
}

// CountActive counts a user's live contexts
func (r *GormContextRepository) CountActive(ctx context.Context, userID int64, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ConversationContexts{}).
		Where("user_id = ? AND active = ? AND expires_at > ?", userID, true, now.UTC()).
		Count(&count).Error
	return count, err
}

// DeactivateAll deactivates every context of a user
func (r *GormContextRepository) DeactivateAll(ctx context.Context, userID int64) (int64, error) {
	result := r.db.WithContext(ctx).Model(&ConversationContexts{}).
		Where("user_id = ? AND active = ?", userID, true).
		Update("active", false)
	return result.RowsAffected, result.Error
}

// SweepExpired deactivates expired contexts of all users
func (r *GormContextRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&ConversationContexts{}).
		Where("active = ? AND expires_at <= ?", true, now.UTC()).
		Update("active", false)
	return result.RowsAffected, result.Error
}

func (c ConversationContexts) toEntity() (*entity.SearchContext, error) {
	var params entity.CanonicalParameters
	if len(c.RawParams) > 0 {
		if err := json.Unmarshal(c.RawParams, &params); err != nil {
			return nil, fmt.Errorf("failed to decode context %s: %w", c.ID, err)
		}
	}

	return &entity.SearchContext{
		ID:            c.ID,
		UserID:        c.UserID,
		ContextType:   c.ContextType,
		Origin:        c.Origin,
		Destination:   c.Destination,
		DepartureDate: c.DepartureDate,
		Passengers:    c.Passengers,
		CabinClass:    entity.CabinClass(c.CabinClass),
		RawParams:     params,
		OriginalQuery: c.OriginalQuery,
		CreatedAt:     c.CreatedAt,
		ExpiresAt:     c.ExpiresAt,
		Active:        c.Active,
	}, nil
}
