package models

import (
	"time"

	"gorm.io/datatypes"
)

// ChatSettings is the single persisted row of admin-editable widget
// configuration. Defaults come from the environment; saved values win.
type ChatSettings struct {
	ID              uint           `gorm:"primaryKey" json:"-"`
	Enabled         bool           `gorm:"default:true" json:"enabled"`
	Gated           bool           `gorm:"default:true" json:"gated"`
	ResponseLength  string         `gorm:"default:'brief'" json:"responseLength"`
	DefaultLanguage string         `gorm:"default:'English'" json:"defaultLanguage"`
	Scenarios       string         `gorm:"type:text" json:"scenarios"`
	Translations    datatypes.JSON `json:"translations"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for ChatSettings model
func (ChatSettings) TableName() string {
	return "chat_settings"
}
