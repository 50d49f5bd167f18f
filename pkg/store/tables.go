package store

import (
	"time"

	"gorm.io/datatypes"
)

// Table definitions drive migrations; reads and writes go through Row maps.

type fieldTable struct {
	ID              string            `gorm:"type:uuid;primaryKey"`
	CompanyID       string            `gorm:"index:idx_fields_scope;not null"`
	Context         string            `gorm:"index:idx_fields_scope;not null"`
	Name            string            `gorm:"not null"`
	Type            string            `gorm:"not null"`
	Required        bool              `gorm:"not null;default:false"`
	Order           int               `gorm:"column:order;not null;default:0"`
	Placeholder     bool              `gorm:"not null;default:false"`
	PlaceholderText string
	Sender          string
	SenderManual    bool              `gorm:"not null;default:false"`
	Attributes      datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (fieldTable) TableName() string { return CollectionFields }

type styleTable struct {
	CompanyID string            `gorm:"primaryKey"`
	Context   string            `gorm:"primaryKey"`
	Settings  datatypes.JSONMap `gorm:"type:jsonb"`
	UpdatedAt time.Time
}

func (styleTable) TableName() string { return CollectionStyles }

type formTable struct {
	ID        string         `gorm:"type:uuid;primaryKey"`
	CompanyID string         `gorm:"index;not null"`
	Context   string         `gorm:"not null"`
	Title     string
	Items     datatypes.JSON `gorm:"type:jsonb"`
	Overlays  datatypes.JSON `gorm:"type:jsonb"`
	Style     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (formTable) TableName() string { return CollectionForms }
