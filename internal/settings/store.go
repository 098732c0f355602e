package settings

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/xelth-com/esimchatgo/internal/chat"
	"github.com/xelth-com/esimchatgo/internal/config"
	"github.com/xelth-com/esimchatgo/internal/models"
)

const cacheTTL = 30 * time.Second

// Store serves the persisted chat settings row, seeding it from the
// environment defaults on first run. Reads are cached briefly so the
// per-message hot path stays off the database.
type Store struct {
	db *gorm.DB

	mu       sync.Mutex
	cached   models.ChatSettings
	cachedAt time.Time
}

func NewStore(db *gorm.DB, defaults config.ChatConfig) (*Store, error) {
	s := &Store{db: db}

	var row models.ChatSettings
	err := db.First(&row).Error
	if err == gorm.ErrRecordNotFound {
		row = models.ChatSettings{
			Enabled:         true,
			Gated:           defaults.Gated,
			ResponseLength:  defaults.ResponseLength,
			DefaultLanguage: defaults.DefaultLanguage,
			Translations:    datatypes.JSON([]byte(`{}`)),
		}
		if err := db.Create(&row).Error; err != nil {
			return nil, fmt.Errorf("failed to seed chat settings: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load chat settings: %w", err)
	}

	s.cached = row
	s.cachedAt = time.Now()
	return s, nil
}

// Current returns the settings row, refreshing the cache when stale.
func (s *Store) Current() models.ChatSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	if time.Since(s.cachedAt) > cacheTTL {
		var row models.ChatSettings
		if err := s.db.First(&row).Error; err == nil {
			s.cached = row
			s.cachedAt = time.Now()
		}
	}
	return s.cached
}

// UpdateInput carries the admin-editable fields; nil means unchanged.
type UpdateInput struct {
	Enabled         *bool           `json:"enabled,omitempty"`
	Gated           *bool           `json:"gated,omitempty"`
	ResponseLength  *string         `json:"responseLength,omitempty"`
	DefaultLanguage *string         `json:"defaultLanguage,omitempty"`
	Scenarios       *string         `json:"scenarios,omitempty"`
	Translations    json.RawMessage `json:"translations,omitempty"`
}

// Update applies the given fields and refreshes the cache.
func (s *Store) Update(in UpdateInput) (models.ChatSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.cached
	if in.Enabled != nil {
		row.Enabled = *in.Enabled
	}
	if in.Gated != nil {
		row.Gated = *in.Gated
	}
	if in.ResponseLength != nil {
		if *in.ResponseLength != "brief" && *in.ResponseLength != "detailed" {
			return row, fmt.Errorf("invalid response length %q", *in.ResponseLength)
		}
		row.ResponseLength = *in.ResponseLength
	}
	if in.DefaultLanguage != nil {
		row.DefaultLanguage = *in.DefaultLanguage
	}
	if in.Scenarios != nil {
		row.Scenarios = *in.Scenarios
	}
	if len(in.Translations) > 0 {
		if !json.Valid(in.Translations) {
			return row, fmt.Errorf("translations must be valid JSON")
		}
		row.Translations = datatypes.JSON(in.Translations)
	}

	if err := s.db.Save(&row).Error; err != nil {
		return row, fmt.Errorf("failed to save chat settings: %w", err)
	}
	s.cached = row
	s.cachedAt = time.Now()
	return row, nil
}

// ChatOptions adapts the current settings row for the dialogue service.
func (s *Store) ChatOptions() chat.Options {
	row := s.Current()
	return chat.Options{
		Gated:           row.Gated,
		ResponseLength:  row.ResponseLength,
		DefaultLanguage: row.DefaultLanguage,
		Scenarios:       row.Scenarios,
	}
}
