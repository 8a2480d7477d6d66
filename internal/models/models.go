package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// JSON holds an arbitrary JSON document (object, array or primitive).
// Stored as text so it works the same on SQLite and PostgreSQL.
type JSON json.RawMessage

// Value implements driver.Valuer
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

// Scan implements sql.Scanner
func (j *JSON) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = JSON(v)
	default:
		return fmt.Errorf("models.JSON: unsupported scan type %T", value)
	}
	return nil
}

// MarshalJSON emits the stored document verbatim
func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON keeps a copy of the raw document
func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("models.JSON: UnmarshalJSON on nil pointer")
	}
	*j = append((*j)[:0], data...)
	return nil
}

// IsNull reports whether the document is absent or a JSON null
func (j JSON) IsNull() bool {
	trimmed := bytes.TrimSpace(j)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// ContentSection is one named block of marketing page content.
// The shape of Data is owned by the frontend and differs per section.
type ContentSection struct {
	BaseModel
	Section   string    `json:"section" gorm:"type:varchar(255);not null;uniqueIndex"`
	Data      JSON      `json:"data" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// Session is a server-side admin login. The cookie only carries a signed
// reference to the row, so deleting it revokes the login.
type Session struct {
	BaseModel
	IsAdmin   bool      `json:"isAdmin" gorm:"not null;default:false"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null;index"`
}

// Expired reports whether the session is past its expiry at t
func (s *Session) Expired(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	// Collect all models
	models := []interface{}{
		&ContentSection{}, &Session{},
	}

	return db.AutoMigrate(models...)
}

// FindByID safely finds a record by string ID
func FindByID[T any](db *gorm.DB, id string, model *T) error {
	return db.Where("id = ?", id).First(model).Error
}
