package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/internal/domain/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAirlineRepository implements the AirlineRepository interface
type GormAirlineRepository struct {
	db *gorm.DB
}

// NewGormAirlineRepository creates a new GORM airline repository
func NewGormAirlineRepository(db *gorm.DB) repository.AirlineRepository {
	return &GormAirlineRepository{
		db: db,
	}
}

// Airlines GORM model for database mapping
type Airlines struct {
	ID         uint           `gorm:"primaryKey"`
	Code       string         `gorm:"column:code;uniqueIndex;size:3"`
	Name       string         `gorm:"column:name"`
	Aliases    datatypes.JSON `gorm:"column:aliases"`
	UsageCount int            `gorm:"column:usage_count;index"`
	FirstSeen  time.Time      `gorm:"column:first_seen"`
	LastSeen   time.Time      `gorm:"column:last_seen"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName overrides the default table name
func (Airlines) TableName() string {
	return "m_airlines"
}

// GetByCode finds an airline by code
func (r *GormAirlineRepository) GetByCode(ctx context.Context, code string) (*entity.Airline, error) {
	var airline Airlines
	result := r.db.WithContext(ctx).Where("code = ?", strings.ToUpper(code)).First(&airline)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, entity.ErrAirlineNotFound
		}
		return nil, result.Error
	}

	return airline.toEntity()
}

// List returns every known airline ordered by code
func (r *GormAirlineRepository) List(ctx context.Context) ([]*entity.Airline, error) {
	var rows []Airlines
	if err := r.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toAirlineEntities(rows)
}

// Save inserts the airline or updates the existing row with the same code
func (r *GormAirlineRepository) Save(ctx context.Context, airline *entity.Airline) error {
	aliases := airline.Aliases
	if aliases == nil {
		aliases = []string{}
	}
	raw, err := json.Marshal(aliases)
	if err != nil {
		return fmt.Errorf("failed to encode aliases: %w", err)
	}

	now := time.Now().UTC()
	row := Airlines{
		Code:       strings.ToUpper(airline.Code),
		Name:       airline.Name,
		Aliases:    datatypes.JSON(raw),
		UsageCount: airline.UsageCount,
		FirstSeen:  airline.FirstSeen,
		LastSeen:   airline.LastSeen,
	}
	if row.FirstSeen.IsZero() {
		row.FirstSeen = now
	}
	if row.LastSeen.IsZero() {
		row.LastSeen = now
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "aliases", "usage_count", "last_seen", "updated_at"}),
	}).Create(&row)
	if result.Error != nil {
		return fmt.Errorf("failed to save airline %s: %w", row.Code, result.Error)
	}
	if airline.ID == 0 {
		airline.ID = row.ID
	}
	return nil
}

// TopByUsage returns the most used airlines first
func (r *GormAirlineRepository) TopByUsage(ctx context.Context, limit int) ([]*entity.Airline, error) {
	var rows []Airlines
	err := r.db.WithContext(ctx).
		Where("usage_count > 0").
		Order("usage_count DESC").
		Order("code").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toAirlineEntities(rows)
}

func (a Airlines) toEntity() (*entity.Airline, error) {
	var aliases []string
	if len(a.Aliases) > 0 {
		if err := json.Unmarshal(a.Aliases, &aliases); err != nil {
			return nil, fmt.Errorf("failed to decode aliases of %s: %w", a.Code, err)
		}
	}

	// Convert GORM model to domain entity
	return &entity.Airline{
		ID:         a.ID,
		Code:       a.Code,
		Name:       a.Name,
		Aliases:    aliases,
		UsageCount: a.UsageCount,
		FirstSeen:  a.FirstSeen,
		LastSeen:   a.LastSeen,
	}, nil
}

func toAirlineEntities(rows []Airlines) ([]*entity.Airline, error) {
	out := make([]*entity.Airline, 0, len(rows))
	for _, row := range rows {
		a, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
