package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/megaplex/realestate/internal/models"
)

var (
	// ErrSectionNotFound is returned when no record exists for a section
	ErrSectionNotFound = errors.New("section not found")

	// ErrEmptySection is returned for a blank section name
	ErrEmptySection = errors.New("section name is empty")

	// ErrMissingData is returned when an upsert carries no payload
	ErrMissingData = errors.New("data is required")
)

// Service reads and writes section content
type Service struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewService creates a new content service
func NewService(db *gorm.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "content").Logger(),
	}
}

// GetAll returns every section's data keyed by section name
func (s *Service) GetAll(ctx context.Context) (map[string]models.JSON, error) {
	var sections []models.ContentSection
	if err := s.db.WithContext(ctx).Find(&sections).Error; err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}

	result := make(map[string]models.JSON, len(sections))
	for _, section := range sections {
		result[section.Section] = section.Data
	}
	return result, nil
}

// Get returns one section's data or ErrSectionNotFound
func (s *Service) Get(ctx context.Context, section string) (models.JSON, error) {
	record, err := s.find(ctx, section)
	if err != nil {
		return nil, err
	}
	return record.Data, nil
}

// Upsert creates or replaces the record for section and returns what was stored.
// Concurrent writers to the same section are last-write-wins.
func (s *Service) Upsert(ctx context.Context, section string, data models.JSON) (*models.ContentSection, error) {
	if section == "" {
		return nil, ErrEmptySection
	}
	if data.IsNull() {
		return nil, ErrMissingData
	}

	record := &models.ContentSection{
		Section: section,
		Data:    data,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "section"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(record).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert section %q: %w", section, err)
	}

	// Re-read so the caller sees the surviving row's ID and created_at
	stored, err := s.find(ctx, section)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("section", section).Msg("Section updated")
	return stored, nil
}

// Export returns all records ordered by section name
func (s *Service) Export(ctx context.Context) ([]models.ContentSection, error) {
	var sections []models.ContentSection
	if err := s.db.WithContext(ctx).Order("section ASC").Find(&sections).Error; err != nil {
		return nil, fmt.Errorf("failed to export sections: %w", err)
	}
	return sections, nil
}

// Count returns the number of stored sections
func (s *Service) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.ContentSection{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count sections: %w", err)
	}
	return count, nil
}

func (s *Service) find(ctx context.Context, section string) (*models.ContentSection, error) {
	var record models.ContentSection
	err := s.db.WithContext(ctx).Where("section = ?", section).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to load section %q: %w", section, err)
	}
	return &record, nil
}
