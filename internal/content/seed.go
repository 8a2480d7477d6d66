package content

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/megaplex/realestate/internal/models"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Defaults returns the section set installed into an empty store
func Defaults() ([]Document, error) {
	return DecodeDocuments(bytes.NewReader(defaultsYAML))
}

// SeedDefaults installs the default sections when the store is empty and
// returns how many rows were written. Existing sections are never touched,
// so two processes starting against the same empty database cannot
// duplicate a section.
func (s *Service) SeedDefaults(ctx context.Context) (int, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.logger.Debug().Int64("sections", count).Msg("Content present - skipping default seed")
		return 0, nil
	}

	docs, err := Defaults()
	if err != nil {
		return 0, err
	}

	records := make([]models.ContentSection, 0, len(docs))
	for _, doc := range docs {
		data, err := doc.JSON()
		if err != nil {
			return 0, err
		}
		records = append(records, models.ContentSection{Section: doc.Section, Data: data})
	}

	var inserted int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "section"}},
			DoNothing: true,
		}).Create(&records)
		inserted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed default content: %w", err)
	}

	s.logger.Info().Int64("sections", inserted).Msg("Default content initialized")
	return int(inserted), nil
}
